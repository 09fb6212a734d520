// Package config resolves the repository-local risk-tier configuration,
// falling back to built-in platform defaults when the file is absent or
// structurally invalid.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sprite-ai/riskgate/internal/match"
	"github.com/sprite-ai/riskgate/internal/model"
)

// DefaultPath is the repository-relative config file location.
const DefaultPath = ".riskgate.json"

// supportedVersion is the only config schema version this build reads.
const supportedVersion = 1

// TierDef describes one risk tier: its name, the glob patterns that route
// files into it, and the CI checks required when it is the maximum tier.
type TierDef struct {
	Name           string   `json:"name"`
	Patterns       []string `json:"patterns"`
	RequiredChecks []string `json:"requiredChecks"`

	compiled []match.Pattern
}

// Matches reports whether path matches any of the tier's patterns.
func (d *TierDef) Matches(path string) bool {
	return match.Any(path, d.compiled)
}

// DocsDrift holds the optional docs-drift tuning block.
type DocsDrift struct {
	TrackedDocs []string `json:"trackedDocs"`

	// RequireUpdateWithCodeChange defaults to true; false disables the
	// drift check regardless of strictness.
	RequireUpdateWithCodeChange *bool `json:"requireUpdateWithCodeChange"`

	compiled []match.Pattern
}

// RequireUpdate reports whether code changes are expected to carry a
// documentation update.
func (d *DocsDrift) RequireUpdate() bool {
	if d.RequireUpdateWithCodeChange == nil {
		return true
	}
	return *d.RequireUpdateWithCodeChange
}

// TracksDoc reports whether path matches a configured tracked-docs pattern.
func (d *DocsDrift) TracksDoc(path string) bool {
	return match.Any(path, d.compiled)
}

// ShaDiscipline holds the optional commit-identity tuning block.
type ShaDiscipline struct {
	// EnforceExactSha defaults to true. When false, a unique prefix of
	// the checked-out SHA is accepted as the expected SHA.
	EnforceExactSha *bool `json:"enforceExactSha"`
}

// Config is the resolved risk-tier configuration.
type Config struct {
	Version   int `json:"version"`
	RiskTiers struct {
		Tier1 TierDef `json:"tier1"`
		Tier2 TierDef `json:"tier2"`
		Tier3 TierDef `json:"tier3"`
	} `json:"riskTiers"`
	DocsDrift     DocsDrift     `json:"docsDrift"`
	ShaDiscipline ShaDiscipline `json:"shaDiscipline"`
}

// Tier returns the definition for a tier index.
func (c *Config) Tier(t model.Tier) *TierDef {
	switch t {
	case model.TierLow:
		return &c.RiskTiers.Tier1
	case model.TierMedium:
		return &c.RiskTiers.Tier2
	case model.TierHigh:
		return &c.RiskTiers.Tier3
	default:
		return nil
	}
}

// EnforceExactSha reports whether commit verification requires full
// SHA equality (the default) or accepts a unique prefix.
func (c *Config) EnforceExactSha() bool {
	if c.ShaDiscipline.EnforceExactSha == nil {
		return true
	}
	return *c.ShaDiscipline.EnforceExactSha
}

// Source records where a resolved configuration came from.
type Source int

const (
	SourceDefault Source = iota // built-in platform defaults
	SourceFile                  // repository config file
	SourceFallback              // file present but rejected; defaults used
)

func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceFile:
		return "file"
	case SourceFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Resolution describes the outcome of config resolution alongside the
// config itself.
type Resolution struct {
	Source  Source
	Path    string
	Warning string // non-empty when a present file was rejected
}

// Resolve loads the config file at path relative to repoDir. A missing
// file yields the built-in defaults silently; a present but malformed or
// structurally invalid file yields the defaults with a warning. Resolve
// never fails: some usable configuration always comes back.
func Resolve(repoDir, path string) (*Config, Resolution) {
	if path == "" {
		path = DefaultPath
	}
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(repoDir, path)
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), Resolution{Source: SourceDefault, Path: full}
		}
		return Default(), Resolution{
			Source:  SourceFallback,
			Path:    full,
			Warning: fmt.Sprintf("config %s unreadable (%v); using built-in defaults", path, err),
		}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), Resolution{
			Source:  SourceFallback,
			Path:    full,
			Warning: fmt.Sprintf("config %s is not valid JSON (%v); using built-in defaults", path, err),
		}
	}

	if err := cfg.validate(); err != nil {
		return Default(), Resolution{
			Source:  SourceFallback,
			Path:    full,
			Warning: fmt.Sprintf("config %s rejected (%v); using built-in defaults", path, err),
		}
	}

	cfg.compile()
	return &cfg, Resolution{Source: SourceFile, Path: full}
}

// validate checks the structural contract: supported version, all three
// tiers present with a name and at least one required check. The superset
// relation between tier check lists is part of the configuration contract
// and is not computed here.
func (c *Config) validate() error {
	if c.Version != supportedVersion {
		return fmt.Errorf("unsupported version %d", c.Version)
	}
	for i, tier := range []*TierDef{&c.RiskTiers.Tier1, &c.RiskTiers.Tier2, &c.RiskTiers.Tier3} {
		if tier.Name == "" {
			return fmt.Errorf("riskTiers.tier%d missing name", i+1)
		}
		if len(tier.RequiredChecks) == 0 {
			return fmt.Errorf("riskTiers.tier%d (%s) has no required checks", i+1, tier.Name)
		}
	}
	return nil
}

// compile builds the glob matchers for every pattern list. Called once
// per resolution; matchers are immutable afterwards.
func (c *Config) compile() {
	c.RiskTiers.Tier1.compiled = match.CompileAll(c.RiskTiers.Tier1.Patterns)
	c.RiskTiers.Tier2.compiled = match.CompileAll(c.RiskTiers.Tier2.Patterns)
	c.RiskTiers.Tier3.compiled = match.CompileAll(c.RiskTiers.Tier3.Patterns)
	c.DocsDrift.compiled = match.CompileAll(c.DocsDrift.TrackedDocs)
}

// Default returns the built-in platform policy configuration.
func Default() *Config {
	cfg := &Config{Version: supportedVersion}
	cfg.RiskTiers.Tier1 = TierDef{
		Name: "low",
		Patterns: []string{
			"**/*.md",
			"**/*.mdx",
			"docs/**",
			"LICENSE",
			".gitignore",
		},
		RequiredChecks: []string{"lint", "harness-smoke"},
	}
	cfg.RiskTiers.Tier2 = TierDef{
		Name: "medium",
		Patterns: []string{
			"src/**",
			"lib/**",
			"tests/**",
			"test/**",
			"**/*.ts",
			"**/*.js",
			"**/*.go",
			"**/*.py",
		},
		RequiredChecks: []string{"lint", "harness-smoke", "unit-tests"},
	}
	cfg.RiskTiers.Tier3 = TierDef{
		Name: "high",
		Patterns: []string{
			"src/core/**",
			"**/auth/**",
			"**/security/**",
			".github/workflows/**",
			"**/*.sql",
			"Dockerfile",
			"**/Dockerfile",
			"go.mod",
			"go.sum",
			"package.json",
			"pnpm-lock.yaml",
		},
		RequiredChecks: []string{
			"lint", "harness-smoke", "unit-tests",
			"integration-tests", "manual-approval", "review-agent",
		},
	}
	cfg.DocsDrift = DocsDrift{
		TrackedDocs: []string{"README.md", "docs/**", "**/*.md"},
	}
	cfg.compile()
	return cfg
}
