package classify

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/sprite-ai/riskgate/internal/config"
	"github.com/sprite-ai/riskgate/internal/model"
)

func TestClassifyScenarios(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		name     string
		paths    []string
		wantTier model.Tier
	}{
		{"readme only", []string{"README.md"}, model.TierLow},
		{"core path", []string{"src/core/engine.ts"}, model.TierHigh},
		{"utils and tests", []string{"src/utils/helpers.ts", "tests/foo.test.ts"}, model.TierMedium},
		{"empty diff", nil, model.TierLow},
		{"workflow change", []string{".github/workflows/ci.yml"}, model.TierHigh},
		{"mixed takes max", []string{"README.md", "src/core/engine.ts"}, model.TierHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.paths, cfg)
			if c.MaxTier != tt.wantTier {
				t.Errorf("MaxTier = %d (%s), want %d (%s)", int(c.MaxTier), c.MaxTier, int(tt.wantTier), tt.wantTier)
			}
			if c.Total() != len(tt.paths) {
				t.Errorf("classified %d files, want %d", c.Total(), len(tt.paths))
			}
		})
	}
}

// A path matching both a tier-3 and a tier-1 pattern classifies as
// tier 3: the configured sets overlap by construction and priority
// order is part of the contract.
func TestHighestTierWins(t *testing.T) {
	cfg := config.Default()

	// docs/schema.sql matches tier1 docs/** and tier3 **/*.sql.
	c := Classify([]string{"docs/schema.sql"}, cfg)
	if c.MaxTier != model.TierHigh {
		t.Fatalf("expected tier 3, got %d", int(c.MaxTier))
	}
	if len(c.Tier3Files) != 1 || len(c.Tier1Files) != 0 {
		t.Errorf("file landed in the wrong tier set: %+v", c)
	}
}

// A path matching no configured pattern gets medium scrutiny, never low.
func TestUnmatchedDefaultsToMedium(t *testing.T) {
	cfg := config.Default()

	c := Classify([]string{"weird/artifact.bin"}, cfg)
	if c.MaxTier != model.TierMedium {
		t.Fatalf("expected tier 2, got %d", int(c.MaxTier))
	}
	if len(c.Tier2Files) != 1 {
		t.Errorf("expected the file in tier 2, got %+v", c)
	}
}

func TestEveryFileInExactlyOneTier(t *testing.T) {
	cfg := config.Default()
	paths := []string{
		"README.md", "docs/guide.md", "src/core/engine.ts",
		"src/utils/helpers.ts", "tests/foo.test.ts", "mystery.xyz",
	}

	c := Classify(paths, cfg)

	seen := make(map[string]int)
	for _, p := range c.Tier1Files {
		seen[p]++
	}
	for _, p := range c.Tier2Files {
		seen[p]++
	}
	for _, p := range c.Tier3Files {
		seen[p]++
	}

	for _, p := range paths {
		if seen[p] != 1 {
			t.Errorf("path %q classified %d times, want exactly once", p, seen[p])
		}
	}
}

func TestClassifyIdempotent(t *testing.T) {
	cfg := config.Default()
	paths := []string{"src/b.ts", "src/a.ts", "README.md", "src/core/x.ts"}

	first := Classify(paths, cfg)
	second := Classify(paths, cfg)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("classification not byte-identical across runs:\n%s\n%s", a, b)
	}
}

func TestFailSafe(t *testing.T) {
	c := FailSafe("no merge-base")
	if c.MaxTier != model.TierHigh {
		t.Errorf("fail-safe MaxTier = %d, want 3", int(c.MaxTier))
	}
	if c.Reason != "no merge-base" {
		t.Errorf("Reason = %q", c.Reason)
	}
	if c.Total() != 0 {
		t.Errorf("fail-safe classification should carry no files")
	}
}

func TestChecksForMonotonic(t *testing.T) {
	cfg := config.Default()

	c1, _, _ := ChecksFor(cfg, model.TierLow)
	c2, _, _ := ChecksFor(cfg, model.TierMedium)
	c3, _, _ := ChecksFor(cfg, model.TierHigh)

	if !isSubset(c1, c2) {
		t.Errorf("tier 1 checks %v not a subset of tier 2 checks %v", c1, c2)
	}
	if !isSubset(c2, c3) {
		t.Errorf("tier 2 checks %v not a subset of tier 3 checks %v", c2, c3)
	}
	if len(c3) <= len(c2) || len(c2) <= len(c1) {
		t.Errorf("supersets should be strict: %d, %d, %d", len(c1), len(c2), len(c3))
	}
}

func TestChecksForDefaults(t *testing.T) {
	cfg := config.Default()

	c1, _, _ := ChecksFor(cfg, model.TierLow)
	if !reflect.DeepEqual(c1, []string{"lint", "harness-smoke"}) {
		t.Errorf("tier 1 checks = %v", c1)
	}

	c3, _, _ := ChecksFor(cfg, model.TierHigh)
	if !contains(c3, "manual-approval") {
		t.Errorf("tier 3 checks %v missing manual-approval", c3)
	}
}

func TestChecksForClampsOutOfRange(t *testing.T) {
	cfg := config.Default()

	for _, tier := range []model.Tier{0, 4, -1, 99} {
		checks, effective, warning := ChecksFor(cfg, tier)
		want, _, _ := ChecksFor(cfg, model.TierHigh)
		if !reflect.DeepEqual(checks, want) {
			t.Errorf("tier %d: checks = %v, want tier-3 set %v", int(tier), checks, want)
		}
		if effective != model.TierHigh {
			t.Errorf("tier %d: effective tier = %d, want %d", int(tier), int(effective), int(model.TierHigh))
		}
		if warning == "" {
			t.Errorf("tier %d: expected a clamp warning", int(tier))
		}
	}

	if _, effective, warning := ChecksFor(cfg, model.TierMedium); warning != "" || effective != model.TierMedium {
		t.Errorf("in-range tier: effective = %d, warning = %q", int(effective), warning)
	}
}

// ChecksFor must hand out a copy, not the config's backing slice.
func TestChecksForCopies(t *testing.T) {
	cfg := config.Default()

	checks, _, _ := ChecksFor(cfg, model.TierLow)
	checks[0] = "mutated"

	again, _, _ := ChecksFor(cfg, model.TierLow)
	if again[0] == "mutated" {
		t.Error("ChecksFor leaked the config's slice")
	}
}

func isSubset(sub, super []string) bool {
	set := make(map[string]bool, len(super))
	for _, s := range super {
		set[s] = true
	}
	for _, s := range sub {
		if !set[s] {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
