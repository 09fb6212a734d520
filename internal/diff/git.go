package diff

import (
	"fmt"
	"os/exec"
	"strings"
)

// gitRaw runs a git subcommand in repoDir and returns stdout verbatim.
// Stderr is folded into the returned error rather than leaked to the
// terminal; most callers degrade on failure instead of surfacing it.
func gitRaw(repoDir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = repoDir

	var stderr strings.Builder
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("git %s: %s", args[0], msg)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return string(out), nil
}

// git runs a git subcommand and returns trimmed stdout, for plumbing
// commands whose output is a single token.
func git(repoDir string, args ...string) (string, error) {
	out, err := gitRaw(repoDir, args...)
	return strings.TrimSpace(out), err
}

// RepoRoot returns the top-level directory of the enclosing repository.
func RepoRoot() (string, error) {
	return git("", "rev-parse", "--show-toplevel")
}

// Head returns the full SHA of the currently checked-out commit.
func Head(repoDir string) (string, error) {
	return git(repoDir, "rev-parse", "HEAD")
}

// FetchRef fetches a ref from origin so a merge-base against it can be
// computed in shallow CI checkouts. Best effort: callers fall back to
// the fail-safe classification when it fails.
func FetchRef(repoDir, ref string) error {
	_, err := git(repoDir, "fetch", "--no-tags", "--depth=200", "origin", ref)
	return err
}

// MergeBase returns the most recent common ancestor of base and head.
func MergeBase(repoDir, base, head string) (string, error) {
	return git(repoDir, "merge-base", base, head)
}

// RangeDiff returns the raw unified diff between two commits with the
// given number of context lines.
func RangeDiff(repoDir, from, to string, contextLines int) (string, error) {
	return gitRaw(repoDir, "diff", fmt.Sprintf("-U%d", contextLines), from, to)
}

// GitDiff returns the raw unified diff for a range expression like
// "main...HEAD".
func GitDiff(repoDir, expr string, contextLines int) (string, error) {
	return gitRaw(repoDir, "diff", fmt.Sprintf("-U%d", contextLines), expr)
}

// ChangesSince resolves the merge-base of baseRef and head and parses the
// diff between them. The raw diff keeps enough context for the report's
// hunk previews.
func ChangesSince(repoDir, baseRef, head string) (*ChangeSet, error) {
	base, err := resolveMergeBase(repoDir, baseRef, head)
	if err != nil {
		return nil, err
	}

	raw, err := RangeDiff(repoDir, base, head, 3)
	if err != nil {
		return nil, fmt.Errorf("diffing %s..%s: %w", base, head, err)
	}

	return Parse(raw)
}

// resolveMergeBase finds the common ancestor of baseRef and head, trying
// the ref as given and under origin/, fetching once for shallow CI
// checkouts that do not have the base branch yet.
func resolveMergeBase(repoDir, baseRef, head string) (string, error) {
	short := strings.TrimPrefix(baseRef, "origin/")
	candidates := []string{baseRef}
	if baseRef == short {
		candidates = append(candidates, "origin/"+short)
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		for _, ref := range candidates {
			base, err := MergeBase(repoDir, ref, head)
			if err == nil {
				return base, nil
			}
			lastErr = err
		}
		if attempt == 0 {
			if err := FetchRef(repoDir, short); err != nil {
				break
			}
		}
	}
	return "", fmt.Errorf("resolving merge-base of %s and %s: %w", baseRef, head, lastErr)
}
