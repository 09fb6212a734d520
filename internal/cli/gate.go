package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/riskgate/internal/diff"
	"github.com/sprite-ai/riskgate/internal/emit"
	"github.com/sprite-ai/riskgate/internal/gate"
	"github.com/sprite-ai/riskgate/internal/model"
	"github.com/sprite-ai/riskgate/internal/report"
	"github.com/sprite-ai/riskgate/internal/review"
)

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Run the full risk policy gate (CI entry point)",
	Long: `Run the full pipeline: resolve configuration, verify the checked-out
commit, classify changed files into risk tiers, derive required checks,
detect docs drift, and resolve review-agent status.

Flags default from RISKGATE_* environment variables for CI use.

Exit codes:
  0 — gate passed (including docs drift that was only warned)
  1 — environment failure (not in a git repository, etc.)
  2 — checked-out commit does not match the expected SHA
  3 — docs drift under strict strictness`,
	Args: cobra.NoArgs,
	RunE: runGate,
}

func init() {
	gateCmd.Flags().String("expected-sha", envOr("RISKGATE_EXPECTED_SHA", ""), "commit the gate decision must apply to")
	gateCmd.Flags().String("base", envOr("RISKGATE_BASE_REF", "main"), "base branch reference for the diff")
	gateCmd.Flags().String("strictness", envOr("RISKGATE_STRICTNESS", "relaxed"), "docs drift strictness: relaxed, standard, strict")
	gateCmd.Flags().String("review-status", envOr("RISKGATE_REVIEW_STATUS", ""), "explicit review-agent status override")
	gateCmd.Flags().String("repo", envOr("RISKGATE_REPOSITORY", os.Getenv("GITHUB_REPOSITORY")), "owner/name repository for the status API")
	gateCmd.Flags().StringP("config", "c", envOr("RISKGATE_CONFIG", ""), "path to the risk-tier config file")
	gateCmd.Flags().StringP("format", "f", "text", "stdout format: text, json, flat")
}

func runGate(cmd *cobra.Command, args []string) error {
	repoDir, err := diff.RepoRoot()
	if err != nil {
		return fmt.Errorf("not in a git repository (or git not installed): %w", err)
	}

	strictnessFlag, _ := cmd.Flags().GetString("strictness")
	strictness, err := model.ParseStrictness(strictnessFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "riskgate: %v; using relaxed\n", err)
	}

	expectedSHA, _ := cmd.Flags().GetString("expected-sha")
	baseRef, _ := cmd.Flags().GetString("base")
	override, _ := cmd.Flags().GetString("review-status")
	repo, _ := cmd.Flags().GetString("repo")
	configPath, _ := cmd.Flags().GetString("config")

	opts := gate.Options{
		RepoDir:        repoDir,
		ConfigPath:     configPath,
		ExpectedSHA:    expectedSHA,
		BaseRef:        baseRef,
		Strictness:     strictness,
		StatusOverride: override,
		Repository:     repo,
		Resolver:       review.NewResolver(os.Getenv("GITHUB_TOKEN")),
		Infof: func(format string, a ...any) {
			fmt.Fprintf(os.Stderr, "riskgate: "+format+"\n", a...)
		},
	}

	outcome, err := gate.Run(cmd.Context(), opts)

	switch {
	case errors.Is(err, gate.ErrShaMismatch):
		fmt.Fprintf(os.Stderr, "riskgate: %v\n", err)
		os.Exit(2)
	case errors.Is(err, gate.ErrDocsDrift):
		// The decision is complete; emit it before failing the job.
		if emitErr := emitOutcome(cmd, outcome); emitErr != nil {
			fmt.Fprintf(os.Stderr, "riskgate: %v\n", emitErr)
		}
		fmt.Fprintf(os.Stderr, "riskgate: %v\n", err)
		os.Exit(3)
	case err != nil:
		return err
	}

	return emitOutcome(cmd, outcome)
}

// emitOutcome writes the result to stdout in the selected format and,
// when running under GitHub Actions, appends the flat encoding to the
// workflow output file.
func emitOutcome(cmd *cobra.Command, outcome *gate.Outcome) error {
	format, _ := cmd.Flags().GetString("format")

	switch format {
	case "json":
		if err := emit.JSON(os.Stdout, outcome.Result); err != nil {
			return err
		}
	case "flat":
		if err := emit.Flat(os.Stdout, outcome.Result); err != nil {
			return err
		}
	default:
		fmt.Println(report.Render(outcome.Result, outcome.Changes))
	}

	if path := os.Getenv("GITHUB_OUTPUT"); path != "" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("opening output file: %w", err)
		}
		defer f.Close()
		if err := emit.Flat(f, outcome.Result); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
	}

	return nil
}
