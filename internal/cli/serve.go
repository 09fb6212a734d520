package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/riskgate/internal/api"
	"github.com/sprite-ai/riskgate/internal/config"
	"github.com/sprite-ai/riskgate/internal/diff"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP classification API",
	Long: `Start an HTTP server exposing the classification core.

Endpoints:
  GET  /health        — Health check
  POST /api/classify  — Classify a path list or raw diff into tiers
  POST /api/checks    — Required checks for a tier`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "127.0.0.1", "address to listen on")
	serveCmd.Flags().IntP("port", "p", 6143, "port to listen on")
	serveCmd.Flags().StringP("config", "c", envOr("RISKGATE_CONFIG", ""), "path to the risk-tier config file")
}

func runServe(cmd *cobra.Command, args []string) error {
	repoDir, err := diff.RepoRoot()
	if err != nil {
		repoDir = "."
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, res := config.Resolve(repoDir, configPath)
	if res.Warning != "" {
		fmt.Fprintf(os.Stderr, "riskgate: %s\n", res.Warning)
	}

	addr, _ := cmd.Flags().GetString("addr")
	port, _ := cmd.Flags().GetInt("port")

	listen := fmt.Sprintf("%s:%d", addr, port)
	srv := api.New(listen, cfg)
	return srv.ListenAndServe()
}
