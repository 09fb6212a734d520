package report

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// highlightLines applies syntax highlighting to source lines for a given
// filename, returning one ANSI-styled string per input line. Files with
// no matching lexer come back unstyled.
func highlightLines(filename string, lines []string) []string {
	lexer := lexerForFile(filename)
	if lexer == nil {
		return lines
	}

	iterator, err := lexer.Tokenise(nil, strings.Join(lines, "\n"))
	if err != nil {
		return lines
	}

	style := styles.Get("dracula")
	if style == nil {
		style = styles.Fallback
	}

	out := make([]string, 0, len(lines))
	var current strings.Builder

	for _, token := range iterator.Tokens() {
		parts := strings.Split(token.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				out = append(out, current.String())
				current.Reset()
			}
			if part == "" {
				continue
			}
			if c := tokenColor(style, token.Type); c != "" {
				current.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(part))
			} else {
				current.WriteString(part)
			}
		}
	}
	out = append(out, current.String())

	for len(out) < len(lines) {
		out = append(out, "")
	}
	return out[:len(lines)]
}

func lexerForFile(filename string) chroma.Lexer {
	lexer := lexers.Match(filename)
	if lexer == nil {
		if ext := filepath.Ext(filename); ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer != nil {
		lexer = chroma.Coalesce(lexer)
	}
	return lexer
}

func tokenColor(style *chroma.Style, tt chroma.TokenType) string {
	entry := style.Get(tt)
	if entry.Colour.IsSet() {
		return entry.Colour.String()
	}
	return ""
}
