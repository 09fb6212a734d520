package gate

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sprite-ai/riskgate/internal/model"
	"github.com/sprite-ai/riskgate/internal/review"
)

func TestVerify(t *testing.T) {
	tests := []struct {
		name         string
		expected     string
		actual       string
		enforceExact bool
		wantErr      bool
	}{
		{"no expectation is local mode", "", "def456", true, false},
		{"exact match", "abc123", "abc123", true, false},
		{"case-insensitive match", "abc123", "ABC123", true, false},
		{"mismatch fails hard", "def456", "abc123", true, true},
		{"prefix rejected when exact", "abc123d", "abc123def4567890", true, true},
		{"prefix accepted when relaxed", "abc123d", "abc123def4567890", false, false},
		{"short prefix rejected even relaxed", "abc", "abc123def4567890", false, true},
		{"relaxed still rejects mismatch", "def456aa", "abc123def4567890", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(tt.expected, tt.actual, tt.enforceExact)
			if tt.wantErr {
				if !errors.Is(err, ErrShaMismatch) {
					t.Errorf("Verify = %v, want ErrShaMismatch", err)
				}
			} else if err != nil {
				t.Errorf("Verify = %v, want nil", err)
			}
		})
	}
}

// --- pipeline integration over a real repository ---

func gitRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=riskgate-test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=riskgate-test", "GIT_COMMITTER_EMAIL=test@example.com",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
	return string(out)
}

func commitFile(t *testing.T, dir, path, content, msg string) {
	t.Helper()
	full := filepath.Join(dir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	gitRun(t, dir, "add", ".")
	gitRun(t, dir, "commit", "-m", msg)
}

// newRepo creates a repository with a main branch holding a README and a
// feature branch holding the given extra files.
func newRepo(t *testing.T, featureFiles map[string]string) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	gitRun(t, dir, "init", "-b", "main")
	commitFile(t, dir, "README.md", "# test\n", "initial")

	gitRun(t, dir, "checkout", "-b", "feature")
	for path, content := range featureFiles {
		commitFile(t, dir, path, content, "change "+path)
	}
	return dir
}

func headSHA(t *testing.T, dir string) string {
	t.Helper()
	return strings.TrimSpace(gitRun(t, dir, "rev-parse", "HEAD"))
}

func runOpts(dir string) Options {
	return Options{
		RepoDir: dir,
		BaseRef: "main",
	}
}

func TestRunClassifiesFeatureBranch(t *testing.T) {
	dir := newRepo(t, map[string]string{
		"src/utils/helpers.ts": "export const x = 1\n",
		"tests/foo.test.ts":    "test\n",
	})

	opts := runOpts(dir)
	opts.Strictness = model.StrictnessStandard

	outcome, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	res := outcome.Result

	if res.Tier != model.TierMedium {
		t.Errorf("Tier = %d, want 2", int(res.Tier))
	}
	if !res.DocsDrift.Detected {
		t.Error("expected docs drift under standard strictness")
	}
	if res.ReviewAgentStatus != model.ReviewSkipped {
		t.Errorf("review status = %s, want skipped below tier 3", res.ReviewAgentStatus)
	}
	if res.SHA != headSHA(t, dir) {
		t.Errorf("SHA = %q, want HEAD", res.SHA)
	}
	if len(res.Stats) != 2 {
		t.Errorf("expected 2 file stats, got %d", len(res.Stats))
	}
}

func TestRunStrictDriftFailsWithResult(t *testing.T) {
	dir := newRepo(t, map[string]string{
		"src/utils/helpers.ts": "export const x = 1\n",
	})

	opts := runOpts(dir)
	opts.Strictness = model.StrictnessStrict

	outcome, err := Run(context.Background(), opts)
	if !errors.Is(err, ErrDocsDrift) {
		t.Fatalf("Run = %v, want ErrDocsDrift", err)
	}
	if outcome == nil || outcome.Result == nil {
		t.Fatal("strict drift must still return the assembled result")
	}
	if !outcome.Result.DocsDrift.Detected {
		t.Error("result should record the drift")
	}
}

func TestRunShaMismatchAbortsEarly(t *testing.T) {
	dir := newRepo(t, map[string]string{"src/a.ts": "x\n"})

	opts := runOpts(dir)
	opts.ExpectedSHA = "0000000000000000000000000000000000000000"

	_, err := Run(context.Background(), opts)
	if !errors.Is(err, ErrShaMismatch) {
		t.Fatalf("Run = %v, want ErrShaMismatch", err)
	}
}

func TestRunNoExpectedSHAIsLocalMode(t *testing.T) {
	dir := newRepo(t, map[string]string{"src/a.ts": "x\n"})

	outcome, err := Run(context.Background(), runOpts(dir))
	if err != nil {
		t.Fatalf("Run without expected SHA: %v", err)
	}
	if outcome.Result.SHA == "" {
		t.Error("local mode should still record the checked-out SHA")
	}
}

func TestRunMissingBaseFailsSafe(t *testing.T) {
	dir := newRepo(t, map[string]string{"README2.md": "x\n"})

	opts := runOpts(dir)
	opts.BaseRef = "no-such-branch"

	outcome, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	res := outcome.Result

	if res.Tier != model.TierHigh {
		t.Errorf("Tier = %d, want 3 (fail toward maximum scrutiny)", int(res.Tier))
	}
	if res.ChangedFiles.Reason == "" {
		t.Error("fail-safe classification should record a reason")
	}
	if len(res.Warnings) == 0 {
		t.Error("fail-safe path should record a warning")
	}
}

func TestRunEmptyDiffIsTierOne(t *testing.T) {
	dir := newRepo(t, nil) // feature branch identical to main

	outcome, err := Run(context.Background(), runOpts(dir))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	res := outcome.Result

	if res.Tier != model.TierLow {
		t.Errorf("Tier = %d, want 1 for an empty diff", int(res.Tier))
	}
	if res.ChangedFiles.Total() != 0 {
		t.Errorf("expected no classified files, got %d", res.ChangedFiles.Total())
	}
}

func TestRunIdempotent(t *testing.T) {
	dir := newRepo(t, map[string]string{
		"src/core/engine.ts": "boom\n",
		"README.md":          "# updated\n",
	})

	opts := runOpts(dir)
	opts.StatusOverride = "approved"

	first, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	a, _ := json.Marshal(first.Result)
	b, _ := json.Marshal(second.Result)
	if string(a) != string(b) {
		t.Errorf("re-running the gate produced a different result:\n%s\n%s", a, b)
	}
}

func TestRunStatusOverride(t *testing.T) {
	dir := newRepo(t, map[string]string{"src/core/engine.ts": "boom\n"})

	opts := runOpts(dir)
	opts.StatusOverride = "rejected"
	// Resolver must not be consulted when an override is present.
	opts.Resolver = review.NewResolver("")
	opts.Resolver.BaseURL = "http://unreachable.invalid"

	outcome, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Result.Tier != model.TierHigh {
		t.Fatalf("Tier = %d, want 3", int(outcome.Result.Tier))
	}
	if outcome.Result.ReviewAgentStatus != model.ReviewRejected {
		t.Errorf("status = %s, want rejected", outcome.Result.ReviewAgentStatus)
	}
}
