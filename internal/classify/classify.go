// Package classify assigns changed files to risk tiers and resolves the
// CI checks required for a tier.
package classify

import (
	"fmt"
	"sort"

	"github.com/sprite-ai/riskgate/internal/config"
	"github.com/sprite-ai/riskgate/internal/model"
)

// Classify assigns every path to exactly one tier. Tiers are tested
// highest first because the configured pattern sets are not mutually
// exclusive; the first (highest) match wins. Paths matching no pattern
// land in the medium tier so unrecognized file types get at least
// standard scrutiny. Pure: same paths and config always produce the
// same result.
func Classify(paths []string, cfg *config.Config) model.Classification {
	c := model.Classification{MaxTier: model.TierLow}

	for _, p := range paths {
		switch {
		case cfg.Tier(model.TierHigh).Matches(p):
			c.Tier3Files = append(c.Tier3Files, p)
		case cfg.Tier(model.TierMedium).Matches(p):
			c.Tier2Files = append(c.Tier2Files, p)
		case cfg.Tier(model.TierLow).Matches(p):
			c.Tier1Files = append(c.Tier1Files, p)
		default:
			c.Tier2Files = append(c.Tier2Files, p)
		}
	}

	// Deterministic output regardless of diff ordering.
	sort.Strings(c.Tier1Files)
	sort.Strings(c.Tier2Files)
	sort.Strings(c.Tier3Files)

	switch {
	case len(c.Tier3Files) > 0:
		c.MaxTier = model.TierHigh
	case len(c.Tier2Files) > 0:
		c.MaxTier = model.TierMedium
	default:
		c.MaxTier = model.TierLow
	}

	return c
}

// FailSafe returns the classification used when the changed-file list
// cannot be computed at all. An inability to diff must never read as
// "no risk", so the result pins the maximum tier.
func FailSafe(reason string) model.Classification {
	return model.Classification{
		MaxTier: model.TierHigh,
		Reason:  reason,
	}
}

// ChecksFor maps a tier to its required-check list from the resolved
// configuration. An out-of-range tier clamps to high and returns a
// warning; unreachable given Classify's output range, but the resolver
// does not trust its caller. The returned tier is the one the checks
// were resolved for, so callers report the clamped value rather than
// re-deriving it.
func ChecksFor(cfg *config.Config, t model.Tier) (checks []string, effective model.Tier, warning string) {
	effective = t
	if !t.Valid() {
		warning = fmt.Sprintf("tier %d out of range; clamped to %d (%s)", int(t), int(model.TierHigh), model.TierHigh)
		effective = model.TierHigh
	}
	def := cfg.Tier(effective)
	checks = make([]string, len(def.RequiredChecks))
	copy(checks, def.RequiredChecks)
	return checks, effective, warning
}
