// Package diff turns git history into the structured change set the gate
// classifies: it shells out to git for merge-base and diff plumbing and
// parses unified diffs with go-gitdiff.
package diff

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/sprite-ai/riskgate/internal/model"
)

// File is a single changed file with its parsed fragments and line stats.
type File struct {
	OldPath      string
	NewPath      string
	IsNew        bool
	IsDeleted    bool
	IsRenamed    bool
	IsBinary     bool
	Fragments    []*gitdiff.TextFragment
	AddedLines   int
	DeletedLines int
}

// Path returns the repository-relative path used for classification.
// Deleted files classify under their old path; everything else under
// the new one.
func (f *File) Path() string {
	if f.IsDeleted || f.NewPath == "" {
		return f.OldPath
	}
	return f.NewPath
}

// ChangeSet holds every file changed between two commits.
type ChangeSet struct {
	Files []*File
	Raw   string // the raw unified diff text
}

// Paths returns the classification paths of all changed files, in diff
// order.
func (cs *ChangeSet) Paths() []string {
	paths := make([]string, 0, len(cs.Files))
	for _, f := range cs.Files {
		paths = append(paths, f.Path())
	}
	return paths
}

// Stats returns per-file line statistics in diff order.
func (cs *ChangeSet) Stats() []model.FileStat {
	stats := make([]model.FileStat, 0, len(cs.Files))
	for _, f := range cs.Files {
		stats = append(stats, model.FileStat{
			Path:    f.Path(),
			Added:   f.AddedLines,
			Deleted: f.DeletedLines,
		})
	}
	return stats
}

// Totals returns aggregate counts across the change set.
func (cs *ChangeSet) Totals() (files, added, deleted int) {
	files = len(cs.Files)
	for _, f := range cs.Files {
		added += f.AddedLines
		deleted += f.DeletedLines
	}
	return
}

// FileFor returns the changed file for a classification path, or nil.
func (cs *ChangeSet) FileFor(path string) *File {
	for _, f := range cs.Files {
		if f.Path() == path {
			return f
		}
	}
	return nil
}

// Parse reads a unified diff string into a ChangeSet.
func Parse(raw string) (*ChangeSet, error) {
	parsed, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	cs := &ChangeSet{Raw: raw}
	for _, f := range parsed {
		cf := &File{
			OldPath:   f.OldName,
			NewPath:   f.NewName,
			IsNew:     f.IsNew,
			IsDeleted: f.IsDelete,
			IsRenamed: f.IsRename,
			IsBinary:  f.IsBinary,
		}

		for _, frag := range f.TextFragments {
			cf.Fragments = append(cf.Fragments, frag)
			for _, line := range frag.Lines {
				switch line.Op {
				case gitdiff.OpAdd:
					cf.AddedLines++
				case gitdiff.OpDelete:
					cf.DeletedLines++
				}
			}
		}

		cs.Files = append(cs.Files, cf)
	}

	return cs, nil
}
