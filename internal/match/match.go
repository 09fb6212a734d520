// Package match compiles a restricted glob syntax into anchored full-path
// matchers. The syntax covers exactly what CI path policies need:
//
//	**/  at a segment boundary matches zero or more leading directories
//	**   elsewhere matches any run of characters, including /
//	*    matches any run of characters excluding /
//	?    matches exactly one character
//	.    and every other character match literally
//
// Patterns are case-sensitive and anchored at both ends; a pattern must
// cover the entire path, never a substring. Unsupported glob extensions
// (brace sets, character classes) degrade to literal matching, which may
// under-match but never errors.
package match

import (
	"regexp"
	"strings"
)

// Pattern is a compiled matcher for a single glob string. Compile once,
// reuse for every path tested against it.
type Pattern struct {
	raw string
	re  *regexp.Regexp
}

// Compile builds a Pattern from a glob string. It never fails: every
// input compiles to some matcher, including a trailing bare "**" which
// is treated as "any remainder".
func Compile(glob string) Pattern {
	var b strings.Builder
	b.WriteString("^")

	for i := 0; i < len(glob); {
		switch {
		case strings.HasPrefix(glob[i:], "**/") && atSegmentStart(glob, i):
			// Optional directory prefix: zero or more whole segments.
			b.WriteString("(?:.*/)?")
			i += 3
		case strings.HasPrefix(glob[i:], "**"):
			b.WriteString(".*")
			i += 2
		case glob[i] == '*':
			b.WriteString("[^/]*")
			i++
		case glob[i] == '?':
			b.WriteString(".")
			i++
		default:
			// Quote the whole literal run at once so multi-byte UTF-8
			// characters stay intact.
			j := i
			for j < len(glob) && glob[j] != '*' && glob[j] != '?' {
				j++
			}
			b.WriteString(regexp.QuoteMeta(glob[i:j]))
			i = j
		}
	}

	b.WriteString("$")
	return Pattern{raw: glob, re: regexp.MustCompile(b.String())}
}

// atSegmentStart reports whether position i begins a path segment.
func atSegmentStart(glob string, i int) bool {
	return i == 0 || glob[i-1] == '/'
}

// String returns the original glob string.
func (p Pattern) String() string {
	return p.raw
}

// Match reports whether the pattern covers the entire path.
func (p Pattern) Match(path string) bool {
	if p.re == nil {
		return false
	}
	return p.re.MatchString(path)
}

// CompileAll compiles each glob in order.
func CompileAll(globs []string) []Pattern {
	patterns := make([]Pattern, 0, len(globs))
	for _, g := range globs {
		patterns = append(patterns, Compile(g))
	}
	return patterns
}

// Any reports whether any pattern matches the path. An empty pattern
// list never matches.
func Any(path string, patterns []Pattern) bool {
	for _, p := range patterns {
		if p.Match(path) {
			return true
		}
	}
	return false
}
