// Package render turns example markdown into terminal text: optional blank
// line squeezing and optional colorization of headings and code.
package render

import (
	"io"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Options selects the transformations applied by Render.
type Options struct {
	Color   bool
	Squeeze bool
}

// Render applies squeezing first, then colorization, so the colorizer sees
// the final line layout.
func Render(content string, opts Options) string {
	if opts.Squeeze {
		content = Squeeze(content)
	}
	if opts.Color {
		content = Colorize(content)
	}
	return content
}

// Squeeze removes the blank line between an example's description and its
// indented command, and shrinks the gaps between examples and between
// sections by one line each.
func Squeeze(content string) string {
	content = strings.ReplaceAll(content, "\n\n    ", "\n    ")
	content = strings.ReplaceAll(content, "\n\n\n", "\n\n")
	content = strings.ReplaceAll(content, "\n\n\n\n", "\n\n\n")
	return content
}

// ---------------------------------------------------------------------------
// Colorization
// ---------------------------------------------------------------------------

// The goldmark parser is configured once and shared; Parse keeps its state
// per call.
var (
	markdownOnce   sync.Once
	markdownParser goldmark.Markdown
)

func getMarkdownParser() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownParser = goldmark.New()
	})
	return markdownParser
}

// Colors are always emitted when asked for: the caller decided on color, so
// terminal detection is bypassed.
var (
	styleOnce sync.Once
	heading   lipgloss.Style
	note      lipgloss.Style
)

func styles() (lipgloss.Style, lipgloss.Style) {
	styleOnce.Do(func() {
		r := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(termenv.ANSI256))
		r.SetColorProfile(termenv.ANSI256)
		heading = r.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
		note = r.NewStyle().Foreground(lipgloss.Color("244"))
	})
	return heading, note
}

type lineKind int

const (
	kindText lineKind = iota
	kindHeading
	kindCode
)

// Colorize styles heading lines and syntax-highlights code blocks as shell.
// Every other line is passed through verbatim.
func Colorize(content string) string {
	if content == "" {
		return ""
	}
	source := []byte(content)
	lines := strings.SplitAfter(content, "\n")
	kinds := classify(source, lines)

	headingStyle, _ := styles()
	var out strings.Builder
	for i := 0; i < len(lines); {
		switch kinds[i] {
		case kindHeading:
			body, nl := splitNewline(lines[i])
			out.WriteString(headingStyle.Render(body))
			out.WriteString(nl)
			i++
		case kindCode:
			j := i
			for j < len(lines) && kinds[j] == kindCode {
				j++
			}
			out.WriteString(highlight(strings.Join(lines[i:j], "")))
			i = j
		default:
			out.WriteString(lines[i])
			i++
		}
	}
	return out.String()
}

// Note styles a secondary line such as the legend banner.
func Note(s string, color bool) string {
	if !color {
		return s
	}
	_, noteStyle := styles()
	return noteStyle.Render(s)
}

// classify maps every line to heading, code or plain text. Headings and code
// blocks come from the markdown AST rather than line patterns.
func classify(source []byte, lines []string) []lineKind {
	starts := make([]int, len(lines))
	offset := 0
	for i, l := range lines {
		starts[i] = offset
		offset += len(l)
	}
	lineOf := func(pos int) int {
		lo, hi := 0, len(starts)-1
		for lo < hi {
			mid := (lo + hi + 1) / 2
			if starts[mid] <= pos {
				lo = mid
			} else {
				hi = mid - 1
			}
		}
		return lo
	}

	kinds := make([]lineKind, len(lines))
	doc := getMarkdownParser().Parser().Parse(text.NewReader(source))
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		var kind lineKind
		switch node.Kind() {
		case ast.KindHeading:
			kind = kindHeading
		case ast.KindCodeBlock, ast.KindFencedCodeBlock:
			kind = kindCode
		default:
			return ast.WalkContinue, nil
		}
		segs := node.Lines()
		for k := 0; k < segs.Len(); k++ {
			kinds[lineOf(segs.At(k).Start)] = kind
		}
		return ast.WalkSkipChildren, nil
	})
	return kinds
}

func highlight(code string) string {
	var sb strings.Builder
	if err := quick.Highlight(&sb, code, "bash", "terminal256", "monokai"); err != nil {
		return code
	}
	return sb.String()
}

func splitNewline(line string) (body, newline string) {
	if strings.HasSuffix(line, "\n") {
		return line[:len(line)-1], "\n"
	}
	return line, ""
}
