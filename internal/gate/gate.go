// Package gate runs the risk policy pipeline: resolve configuration,
// verify commit identity, classify the change set, derive required
// checks, detect docs drift, and resolve review-agent status. Each stage
// is a pure function of the previous stage's output plus one narrow
// external read; only two conditions abort the pipeline.
package gate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sprite-ai/riskgate/internal/classify"
	"github.com/sprite-ai/riskgate/internal/config"
	"github.com/sprite-ai/riskgate/internal/diff"
	"github.com/sprite-ai/riskgate/internal/drift"
	"github.com/sprite-ai/riskgate/internal/model"
	"github.com/sprite-ai/riskgate/internal/review"
)

// ErrShaMismatch is the single hard-stop condition of the pipeline:
// the checked-out commit is not the one an earlier decision was made
// about, so proceeding would apply stale-content decisions to new
// content.
var ErrShaMismatch = errors.New("checked-out commit does not match expected SHA")

// ErrDocsDrift aborts the gate under strict strictness when source
// changes carry no documentation update.
var ErrDocsDrift = errors.New("docs drift detected under strict mode")

// Options are the inputs of one gate invocation, typically sourced from
// CI environment variables.
type Options struct {
	RepoDir        string
	ConfigPath     string           // empty means config.DefaultPath
	ExpectedSHA    string           // empty means local mode
	BaseRef        string           // default "main"
	Strictness     model.Strictness // default relaxed
	StatusOverride string           // explicit review status, trusted verbatim
	Repository     string           // owner/name for the status API

	// Resolver performs the status-API call; nil uses the default
	// GitHub resolver with no token.
	Resolver *review.Resolver

	// Infof receives informational and degrade-path notes. Nil discards.
	Infof func(format string, args ...any)
}

func (o *Options) infof(format string, args ...any) {
	if o.Infof != nil {
		o.Infof(format, args...)
	}
}

// Outcome bundles the terminal result with the parsed change set that
// produced it, for callers that render hunk previews. Changes is nil
// when the diff was uncomputable.
type Outcome struct {
	Result  *model.GateResult
	Changes *diff.ChangeSet
}

// Run executes the full pipeline once. The returned result is complete
// and immutable. A non-nil error is one of the two fatal conditions (or
// a git environment failure); ErrDocsDrift is returned alongside the
// fully assembled outcome so the caller can still emit it.
func Run(ctx context.Context, opts Options) (*Outcome, error) {
	if opts.BaseRef == "" {
		opts.BaseRef = "main"
	}

	var warnings []string
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		warnings = append(warnings, msg)
		opts.infof("%s", msg)
	}

	cfg, res := config.Resolve(opts.RepoDir, opts.ConfigPath)
	if res.Warning != "" {
		warn("%s", res.Warning)
	}

	head, err := diff.Head(opts.RepoDir)
	if err != nil {
		return nil, fmt.Errorf("resolving checked-out commit: %w", err)
	}

	if err := Verify(opts.ExpectedSHA, head, cfg.EnforceExactSha()); err != nil {
		return nil, err
	}
	if opts.ExpectedSHA == "" {
		opts.infof("no expected SHA supplied; local mode, accepting %s", head)
	}

	var (
		classification model.Classification
		stats          []model.FileStat
	)
	changes, err := diff.ChangesSince(opts.RepoDir, opts.BaseRef, head)
	if err != nil {
		// An uncomputable diff must never read as "no risk".
		changes = nil
		classification = classify.FailSafe(err.Error())
		warn("cannot compute change set (%v); classifying as tier %d (%s)",
			err, int(model.TierHigh), model.TierHigh)
	} else {
		classification = classify.Classify(changes.Paths(), cfg)
		stats = changes.Stats()
	}

	checks, _, clampWarning := classify.ChecksFor(cfg, classification.MaxTier)
	if clampWarning != "" {
		warn("%s", clampWarning)
	}

	driftResult := drift.Check(opts.Strictness, classification, &cfg.DocsDrift)
	if driftResult.Detected && opts.Strictness != model.StrictnessStrict {
		opts.infof("docs drift: %s", driftResult.Warning)
	}

	resolver := opts.Resolver
	if resolver == nil {
		resolver = review.NewResolver("")
	}
	status, note := resolver.Resolve(ctx, opts.Repository, head, classification.MaxTier, opts.StatusOverride)
	if note != "" {
		opts.infof("review status: %s", note)
	}

	outcome := &Outcome{
		Result: &model.GateResult{
			SHA:               head,
			Tier:              classification.MaxTier,
			TierName:          classification.MaxTier.String(),
			RequiredChecks:    checks,
			ChangedFiles:      classification,
			Stats:             stats,
			DocsDrift:         driftResult,
			ReviewAgentStatus: status,
			Warnings:          warnings,
		},
		Changes: changes,
	}

	if driftResult.Detected && opts.Strictness == model.StrictnessStrict {
		return outcome, fmt.Errorf("%w: %s", ErrDocsDrift, driftResult.Warning)
	}

	return outcome, nil
}

// Verify enforces SHA discipline between an externally supplied expected
// commit and the actually checked-out one. An absent expectation means
// local mode: nothing to enforce. Comparison is case-insensitive; with
// exact enforcement off, the expectation may be a prefix of the actual
// SHA (a short SHA from an earlier pipeline stage).
func Verify(expected, actual string, enforceExact bool) error {
	if expected == "" {
		return nil
	}

	e := strings.ToLower(strings.TrimSpace(expected))
	a := strings.ToLower(strings.TrimSpace(actual))

	if e == a {
		return nil
	}
	if !enforceExact && len(e) >= 7 && strings.HasPrefix(a, e) {
		return nil
	}

	return fmt.Errorf("%w: expected %s, checked out %s", ErrShaMismatch, expected, actual)
}
