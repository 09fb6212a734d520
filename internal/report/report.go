// Package report renders a gate result for humans: a styled terminal
// summary with per-tier file lists, required checks, and highlighted
// previews of the highest-risk hunks.
package report

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/sprite-ai/riskgate/internal/diff"
	"github.com/sprite-ai/riskgate/internal/model"
)

// previewLines caps how many added lines are shown per high-tier file.
const previewLines = 8

// Render produces the styled terminal report. changes may be nil (e.g.
// after a fail-safe classification); previews are skipped then.
func Render(res *model.GateResult, changes *diff.ChangeSet) string {
	var b strings.Builder

	// A piped diff has no commit to name.
	commit := shortSHA(res.SHA)
	if commit == "" {
		commit = "piped diff"
	}
	b.WriteString(titleStyle.Render("riskgate"))
	b.WriteString(dimStyle.Render("  " + commit))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s %s   %s %s\n",
		sectionStyle.Render("risk tier:"),
		tierBadge(res.Tier),
		sectionStyle.Render("review agent:"),
		statusBadge(res.ReviewAgentStatus)))

	if res.ChangedFiles.Reason != "" {
		b.WriteString(warnStyle.Render("  fail-safe: "+res.ChangedFiles.Reason) + "\n")
	}
	b.WriteString("\n")

	writeTierFiles(&b, res, model.TierHigh)
	writeTierFiles(&b, res, model.TierMedium)
	writeTierFiles(&b, res, model.TierLow)

	b.WriteString(sectionStyle.Render("required checks") + "\n")
	for _, c := range res.RequiredChecks {
		b.WriteString("  " + checkStyle.Render(c) + "\n")
	}
	b.WriteString("\n")

	if res.DocsDrift.Detected {
		b.WriteString(warnStyle.Render("docs drift: "+res.DocsDrift.Warning) + "\n\n")
	}
	for _, w := range res.Warnings {
		b.WriteString(warnStyle.Render("warning: "+w) + "\n")
	}

	if changes != nil && len(res.ChangedFiles.Tier3Files) > 0 {
		b.WriteString("\n" + sectionStyle.Render("high-risk previews") + "\n")
		for _, path := range res.ChangedFiles.Tier3Files {
			if f := changes.FileFor(path); f != nil {
				b.WriteString(renderPreview(f))
			}
		}
	}

	return b.String()
}

func writeTierFiles(b *strings.Builder, res *model.GateResult, t model.Tier) {
	files := res.ChangedFiles.FilesFor(t)
	if len(files) == 0 {
		return
	}

	b.WriteString(sectionStyle.Render(fmt.Sprintf("tier %d (%s)", int(t), t)) + "\n")
	stats := statsByPath(res.Stats)
	for _, f := range files {
		line := "  " + fileStyle.Render(f)
		if s, ok := stats[f]; ok {
			line += "  " + statAddStyle.Render(fmt.Sprintf("+%d", s.Added)) +
				" " + statDelStyle.Render(fmt.Sprintf("-%d", s.Deleted))
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}

func statsByPath(stats []model.FileStat) map[string]model.FileStat {
	m := make(map[string]model.FileStat, len(stats))
	for _, s := range stats {
		m[s.Path] = s
	}
	return m
}

// renderPreview shows the first added lines of a file, syntax
// highlighted, inside a bordered panel.
func renderPreview(f *diff.File) string {
	var added []string
	for _, frag := range f.Fragments {
		for _, line := range frag.Lines {
			if line.Op == gitdiff.OpAdd {
				added = append(added, strings.TrimRight(line.Line, "\n"))
			}
			if len(added) >= previewLines {
				break
			}
		}
		if len(added) >= previewLines {
			break
		}
	}
	if len(added) == 0 {
		return dimStyle.Render("  "+f.Path()+" (no added lines)") + "\n"
	}

	highlighted := highlightLines(f.Path(), added)
	body := fileStyle.Render(f.Path()) + "\n" + strings.Join(highlighted, "\n")
	return panelStyle.Render(body) + "\n"
}

func tierBadge(t model.Tier) string {
	label := fmt.Sprintf("%d (%s)", int(t), t)
	switch t {
	case model.TierLow:
		return badgeLowStyle.Render(label)
	case model.TierMedium:
		return badgeMediumStyle.Render(label)
	default:
		return badgeHighStyle.Render(label)
	}
}

func statusBadge(s model.ReviewStatus) string {
	switch s {
	case model.ReviewApproved:
		return badgeLowStyle.Render(s.String())
	case model.ReviewRejected:
		return badgeHighStyle.Render(s.String())
	case model.ReviewPending:
		return badgeMediumStyle.Render(s.String())
	default:
		return dimStyle.Render(s.String())
	}
}

func shortSHA(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}
