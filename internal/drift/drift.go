// Package drift flags source changes that lack an accompanying
// documentation update. A quality signal under standard strictness, a
// hard gate under strict.
package drift

import (
	"fmt"
	"strings"

	"github.com/sprite-ai/riskgate/internal/config"
	"github.com/sprite-ai/riskgate/internal/model"
)

// Check inspects a classification for docs drift. Relaxed strictness
// skips the check entirely. With no tier-2 or tier-3 files the check is
// inapplicable. Otherwise drift is avoided when at least one tier-1 file
// is a documentation file.
func Check(strictness model.Strictness, c model.Classification, docs *config.DocsDrift) model.DriftResult {
	if strictness == model.StrictnessRelaxed {
		return model.DriftResult{}
	}
	if docs != nil && !docs.RequireUpdate() {
		return model.DriftResult{}
	}
	if len(c.Tier2Files) == 0 && len(c.Tier3Files) == 0 {
		return model.DriftResult{}
	}

	for _, p := range c.Tier1Files {
		if isDocPath(p) || (docs != nil && docs.TracksDoc(p)) {
			return model.DriftResult{}
		}
	}

	n := len(c.Tier2Files) + len(c.Tier3Files)
	return model.DriftResult{
		Detected: true,
		Warning: fmt.Sprintf(
			"%d source file(s) changed without a documentation update; update docs or README alongside code changes",
			n),
	}
}

// isDocPath reports whether a path is a markdown file or lives under a
// docs directory.
func isDocPath(p string) bool {
	lower := strings.ToLower(p)
	if strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".mdx") {
		return true
	}
	return strings.HasPrefix(lower, "docs/") || strings.Contains(lower, "/docs/")
}
