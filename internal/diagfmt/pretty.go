package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"taskml/internal/diag"
	"taskml/internal/source"
)

const tabStop = 4

type palette struct {
	err, warn, info, code, gutter, caret, hint *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed),
		hint:   color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.hint} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Format renders a single diagnostic:
//
//	error[E200]: expected task status marker, found 'x' (3:1)
//	  suggestion: start the line with a status marker such as [ ] or [x]
//	   3 | x
//	     | ^
//
// The excerpt is printed only when src is non-empty and contains the line.
func Format(d diag.Diagnostic, src string, useColor bool) string {
	p := newPalette(useColor)
	var sb strings.Builder
	writeHeader(&sb, p, "", d)
	if d.Suggestion != "" {
		fmt.Fprintf(&sb, "  %s %s\n", p.hint.Sprint("suggestion:"), d.Suggestion)
	}
	if src != "" && d.Line > 0 {
		lines := strings.Split(src, "\n")
		if d.Line <= len(lines) {
			writeExcerpt(&sb, p, lines, d.Line, d.Column, d.Length, 0, 0)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает заголовок с путём, контекст строки с
// подчёркиванием ^~~~, затем Notes и suggestion.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		var sb strings.Builder
		path := displayPath(fs, d.Primary.File, opts.PathMode)
		writeHeader(&sb, p, path, d)

		if f := sourceFile(fs, d.Primary.File); f != nil && d.Line > 0 {
			lines := fileLines(f)
			if d.Line <= len(lines) {
				writeExcerpt(&sb, p, lines, d.Line, d.Column, d.Length, int(max(opts.Context, 0)), int(opts.Width))
			}
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(&sb, "  %s %s", p.gutter.Sprint("note:"), n.Msg)
				if n.Loc.Line > 0 {
					fmt.Fprintf(&sb, " (%d:%d)", n.Loc.Line, n.Loc.Column)
				}
				sb.WriteByte('\n')
			}
		}
		if d.Suggestion != "" && !opts.HideSuggestions {
			fmt.Fprintf(&sb, "  %s %s\n", p.hint.Sprint("suggestion:"), d.Suggestion)
		}
		io.WriteString(w, sb.String())
	}
}

// Short prints one line per diagnostic: path:line:col: severity[code]: message.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) {
	for _, d := range bag.Items() {
		path := displayPath(fs, d.Primary.File, mode)
		if path == "" {
			path = "<input>"
		}
		fmt.Fprintf(w, "%s:%d:%d: %s[%s]: %s\n", path, d.Line, d.Column, d.Severity.Label(), d.Code.ID(), d.Message)
	}
}

func writeHeader(sb *strings.Builder, p palette, path string, d diag.Diagnostic) {
	sev := p.severity(d.Severity)
	if path != "" {
		fmt.Fprintf(sb, "%s:%d:%d: ", path, d.Line, d.Column)
	}
	fmt.Fprintf(sb, "%s%s: %s", sev.Sprint(d.Severity.Label()), p.code.Sprintf("[%s]", d.Code.ID()), d.Message)
	if path == "" && d.Line > 0 {
		fmt.Fprintf(sb, " (%d:%d)", d.Line, d.Column)
	}
	sb.WriteByte('\n')
}

// writeExcerpt prints up to context lines before line, the line itself
// and a caret underline under [col, col+length).
func writeExcerpt(sb *strings.Builder, p palette, lines []string, line, col, length, context, width int) {
	gw := len(fmt.Sprint(line))
	from := max(line-context, 1)
	for n := from; n <= line; n++ {
		text := expandTabs(lines[n-1])
		if width > 0 {
			text = runewidth.Truncate(text, width, "…")
		}
		fmt.Fprintf(sb, "  %s %s\n", p.gutter.Sprintf("%*d |", gw, n), text)
	}
	pad, span := underline(lines[line-1], col, length)
	if width > 0 && pad >= width {
		return
	}
	marks := "^" + strings.Repeat("~", span-1)
	fmt.Fprintf(sb, "  %s %s%s\n", p.gutter.Sprintf("%*s |", gw, ""), strings.Repeat(" ", pad), p.caret.Sprint(marks))
}

// underline returns the display offset of byte column col (1-based) and
// the display width of the underlined range, at least 1.
func underline(text string, col, length int) (pad, span int) {
	start := min(max(col-1, 0), len(text))
	end := min(start+max(length, 0), len(text))
	pad = runewidth.StringWidth(expandTabs(text[:start]))
	span = runewidth.StringWidth(expandTabs(text[start:end]))
	if span < 1 {
		span = 1
	}
	return pad, span
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabStop))
}

func fileLines(f *source.File) []string {
	return strings.Split(string(f.Content), "\n")
}
