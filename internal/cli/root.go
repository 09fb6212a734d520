// Package cli wires the riskgate commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "riskgate",
	Short: "Risk policy gate for harness-managed repositories",
	Long: `riskgate classifies a pull request's changed files into a risk tier,
derives the CI checks required for that tier, verifies commit-identity
discipline, detects documentation drift, and reports review-agent status.

Designed to run once per CI invocation and emit a machine-consumable
result for the CI orchestrator to branch on.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(gateCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// envOr returns the environment variable's value, or def when unset.
func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
