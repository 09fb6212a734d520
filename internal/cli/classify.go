package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/riskgate/internal/classify"
	"github.com/sprite-ai/riskgate/internal/config"
	"github.com/sprite-ai/riskgate/internal/diff"
	"github.com/sprite-ai/riskgate/internal/emit"
	"github.com/sprite-ai/riskgate/internal/model"
	"github.com/sprite-ai/riskgate/internal/report"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [commit-range]",
	Short: "Classify changed files into risk tiers (local, no gate)",
	Long: `Classify a change set without SHA discipline or review lookup.
Useful before pushing, to see which checks a change will require.

Examples:
  riskgate classify                # current branch vs main merge-base
  riskgate classify main...HEAD    # explicit range
  git diff | riskgate classify -   # pipe any diff`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().String("base", envOr("RISKGATE_BASE_REF", "main"), "base branch reference for the diff")
	classifyCmd.Flags().StringP("config", "c", envOr("RISKGATE_CONFIG", ""), "path to the risk-tier config file")
	classifyCmd.Flags().StringP("format", "f", "text", "output format: text, json")
}

func runClassify(cmd *cobra.Command, args []string) error {
	changes, sha, err := classifyChanges(cmd, args)
	if err != nil {
		return err
	}

	if changes == nil || len(changes.Files) == 0 {
		fmt.Println("No changes to classify.")
		return nil
	}

	repoDir, _ := diff.RepoRoot()
	configPath, _ := cmd.Flags().GetString("config")
	cfg, res := config.Resolve(repoDir, configPath)
	if res.Warning != "" {
		fmt.Fprintf(os.Stderr, "riskgate: %s\n", res.Warning)
	}

	c := classify.Classify(changes.Paths(), cfg)
	checks, _, _ := classify.ChecksFor(cfg, c.MaxTier)

	result := &model.GateResult{
		SHA:            sha,
		Tier:           c.MaxTier,
		TierName:       c.MaxTier.String(),
		RequiredChecks: checks,
		ChangedFiles:   c,
		Stats:          changes.Stats(),
		// Classification only: review was never consulted.
		ReviewAgentStatus: model.ReviewSkipped,
	}

	format, _ := cmd.Flags().GetString("format")
	if format == "json" {
		return emit.JSON(os.Stdout, result)
	}
	fmt.Println(report.Render(result, changes))
	return nil
}

// classifyChanges produces the change set for the classify command: a
// piped diff, an explicit commit range, or the merge-base flow the gate
// uses.
func classifyChanges(cmd *cobra.Command, args []string) (*diff.ChangeSet, string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("reading stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return nil, "", nil
		}
		cs, err := diff.Parse(string(data))
		return cs, "", err
	}

	repoDir, err := diff.RepoRoot()
	if err != nil {
		return nil, "", fmt.Errorf("not in a git repository (or git not installed): %w", err)
	}

	head, err := diff.Head(repoDir)
	if err != nil {
		return nil, "", err
	}

	if len(args) == 1 {
		raw, err := diff.GitDiff(repoDir, args[0], 3)
		if err != nil {
			return nil, "", err
		}
		cs, err := diff.Parse(raw)
		return cs, head, err
	}

	baseRef, _ := cmd.Flags().GetString("base")
	cs, err := diff.ChangesSince(repoDir, baseRef, head)
	return cs, head, err
}
