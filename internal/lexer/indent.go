package lexer

import (
	"taskml/internal/diag"
	"taskml/internal/token"
)

const tabWidth = 4

// scanIndent consumes leading blanks and returns their width.
func (lx *Lexer) scanIndent() (width int, mixed bool) {
	var spaces, tabs bool
	for {
		switch lx.cursor.Peek() {
		case ' ':
			width++
			spaces = true
		case '\t':
			width += tabWidth
			tabs = true
		default:
			return width, spaces && tabs
		}
		lx.cursor.Bump()
	}
}

// applyIndent compares width with the indentation stack and queues
// INDENT/DEDENT tokens. A dedent that lands between two levels is reported
// and the line continues at the nearest enclosing level.
func (lx *Lexer) applyIndent(width int) {
	sp := lx.spanAt(lx.lineStart, lx.content)
	top := lx.indents[len(lx.indents)-1]

	switch {
	case width > top:
		lx.indents = append(lx.indents, width)
		lx.push(token.Indent, "", "", sp)
	case width < top:
		for len(lx.indents) > 1 && lx.indents[len(lx.indents)-1] > width {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.push(token.Dedent, "", "", sp)
		}
		if nearest := lx.indents[len(lx.indents)-1]; nearest != width {
			// в сообщении колонки, а не ширина отступа
			lx.errLex(diag.LexInconsistentIndent, sp, width+1, nearest+1)
		}
	}
}

// Depth returns the current nesting depth (0 at top level).
func (lx *Lexer) Depth() int {
	return len(lx.indents) - 1
}
