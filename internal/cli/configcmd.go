package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/riskgate/internal/config"
	"github.com/sprite-ai/riskgate/internal/diff"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved risk-tier configuration",
	Long: `Resolve the repository configuration the gate would use and print it
as JSON. The resolution source (file, default, or fallback after a
rejected file) goes to stderr.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().StringP("config", "c", envOr("RISKGATE_CONFIG", ""), "path to the risk-tier config file")
	configCmd.Flags().Bool("validate", false, "exit non-zero when a present config file was rejected")
}

func runConfig(cmd *cobra.Command, args []string) error {
	repoDir, err := diff.RepoRoot()
	if err != nil {
		// Config resolution works outside a repository too; fall back
		// to the working directory.
		repoDir = "."
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, res := config.Resolve(repoDir, configPath)

	switch res.Source {
	case config.SourceFile:
		fmt.Fprintf(os.Stderr, "riskgate: using config %s\n", res.Path)
	case config.SourceDefault:
		fmt.Fprintf(os.Stderr, "riskgate: no config at %s; using built-in defaults\n", res.Path)
	case config.SourceFallback:
		fmt.Fprintf(os.Stderr, "riskgate: %s\n", res.Warning)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return err
	}

	validate, _ := cmd.Flags().GetBool("validate")
	if validate && res.Source == config.SourceFallback {
		return fmt.Errorf("config file %s was rejected", res.Path)
	}
	return nil
}
