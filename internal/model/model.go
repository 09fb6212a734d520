// Package model defines the core data types shared across riskgate.
package model

import (
	"encoding/json"
	"fmt"
)

// Tier is a discrete scrutiny level assigned to changed files.
// Valid values are 1 (low) through 3 (high).
type Tier int

const (
	TierLow    Tier = 1
	TierMedium Tier = 2
	TierHigh   Tier = 3
)

func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Valid reports whether t is within the 1..3 range.
func (t Tier) Valid() bool {
	return t >= TierLow && t <= TierHigh
}

// Strictness controls how docs drift findings are treated.
type Strictness int

const (
	StrictnessRelaxed Strictness = iota
	StrictnessStandard
	StrictnessStrict
)

func (s Strictness) String() string {
	switch s {
	case StrictnessRelaxed:
		return "relaxed"
	case StrictnessStandard:
		return "standard"
	case StrictnessStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// ParseStrictness maps a configuration string to a Strictness.
// The empty string means relaxed, the zero-cost opt-out.
func ParseStrictness(s string) (Strictness, error) {
	switch s {
	case "", "relaxed":
		return StrictnessRelaxed, nil
	case "standard":
		return StrictnessStandard, nil
	case "strict":
		return StrictnessStrict, nil
	default:
		return StrictnessRelaxed, fmt.Errorf("unknown strictness %q", s)
	}
}

// ReviewStatus is the disposition of the external review agent for a commit.
// The four states are terminal; no transitions happen inside riskgate.
type ReviewStatus int

const (
	ReviewSkipped ReviewStatus = iota
	ReviewPending
	ReviewApproved
	ReviewRejected
)

func (r ReviewStatus) String() string {
	switch r {
	case ReviewSkipped:
		return "skipped"
	case ReviewPending:
		return "pending"
	case ReviewApproved:
		return "approved"
	case ReviewRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// ParseReviewStatus maps an explicit override string to a ReviewStatus.
func ParseReviewStatus(s string) (ReviewStatus, error) {
	switch s {
	case "skipped":
		return ReviewSkipped, nil
	case "pending":
		return ReviewPending, nil
	case "approved":
		return ReviewApproved, nil
	case "rejected":
		return ReviewRejected, nil
	default:
		return ReviewPending, fmt.Errorf("unknown review status %q", s)
	}
}

// MarshalJSON encodes the status as its string form; raw API strings never
// appear past the resolver boundary.
func (r ReviewStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes the string form produced by MarshalJSON.
func (r *ReviewStatus) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	status, err := ParseReviewStatus(s)
	if err != nil {
		return err
	}
	*r = status
	return nil
}

// FileStat carries per-file diff statistics.
type FileStat struct {
	Path    string `json:"path"`
	Added   int    `json:"added"`
	Deleted int    `json:"deleted"`
}

// Classification is the result of assigning changed files to tiers.
// Every changed file appears in exactly one tier list.
type Classification struct {
	Tier1Files []string `json:"tier1_files"`
	Tier2Files []string `json:"tier2_files"`
	Tier3Files []string `json:"tier3_files"`
	MaxTier    Tier     `json:"max_tier"`

	// Reason records why a fail-safe default was taken (e.g. an
	// unresolvable merge-base). Empty on the normal path.
	Reason string `json:"reason,omitempty"`
}

// FilesFor returns the file list for a tier.
func (c *Classification) FilesFor(t Tier) []string {
	switch t {
	case TierLow:
		return c.Tier1Files
	case TierMedium:
		return c.Tier2Files
	case TierHigh:
		return c.Tier3Files
	default:
		return nil
	}
}

// Total returns the number of classified files across all tiers.
func (c *Classification) Total() int {
	return len(c.Tier1Files) + len(c.Tier2Files) + len(c.Tier3Files)
}

// DriftResult is the outcome of the docs drift check.
type DriftResult struct {
	Detected bool   `json:"detected"`
	Warning  string `json:"warning,omitempty"`
}

// GateResult is the terminal record of one gate invocation. It is created
// once per run and never mutated after construction; the external CI
// orchestrator branches job execution on its fields.
type GateResult struct {
	SHA               string         `json:"sha"`
	Tier              Tier           `json:"tier"`
	TierName          string         `json:"tier_name"`
	RequiredChecks    []string       `json:"required_checks"`
	ChangedFiles      Classification `json:"changed_files"`
	Stats             []FileStat     `json:"stats,omitempty"`
	DocsDrift         DriftResult    `json:"docs_drift"`
	ReviewAgentStatus ReviewStatus   `json:"review_agent_status"`
	Warnings          []string       `json:"warnings,omitempty"`
}
