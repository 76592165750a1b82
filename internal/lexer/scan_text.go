package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"taskml/internal/diag"
	"taskml/internal/token"
)

// scanText consumes a TEXT run. The first byte is always taken, so a sigil
// that failed to form a token starts the run. With stopAtSigils the run ends
// before the next unescaped trigger sigil, wherever it stands in the word.
// Escapes are resolved into Value; Raw keeps the source slice.
func (lx *Lexer) scanText(stopAtSigils bool) {
	c := &lx.cursor
	start := c.Off
	var sb strings.Builder

	for first := true; !lx.atLineEnd(); first = false {
		off := c.Off
		ch := c.Peek()
		if !first && (lx.atComment() || stopAtSigils && lx.atTrigger()) {
			break
		}

		switch {
		case ch == '\\':
			c.Bump()
			if next := c.Peek(); isEscapable(next) {
				sb.WriteByte(next)
				c.Bump()
			} else {
				// не экранирует: обратный слэш остаётся как есть
				sb.WriteByte('\\')
			}
		case ch < 0x20 && ch != '\t':
			c.Bump()
			lx.errLex(diag.LexUnexpectedChar, lx.spanAt(off, c.Off), printable(rune(ch)))
		case ch >= utf8RuneSelf:
			r, size := utf8.DecodeRune(lx.file.Content[off:c.Limit])
			if r == utf8.RuneError && size == 1 {
				c.Bump()
				lx.errLex(diag.LexUnexpectedChar, lx.spanAt(off, c.Off), printable(r))
				continue
			}
			sb.Write(lx.file.Content[off : off+uint32(size)])
			c.BumpN(size)
		default:
			sb.WriteByte(ch)
			c.Bump()
		}
	}

	if sb.Len() == 0 {
		return
	}
	lx.emit(token.Text, sb.String(), string(lx.file.Content[start:c.Off]), lx.spanAt(start, c.Off))
}

// scanDeps lexes the rest of a depends:/blocked-by: line: ^ids, bare words,
// and the punctuation that may separate them.
func (lx *Lexer) scanDeps() {
	c := &lx.cursor
	for {
		lx.skipBlanks()
		if lx.atLineEnd() {
			return
		}
		if lx.atComment() {
			lx.scanComment()
			return
		}
		start := c.Off
		switch ch := c.Peek(); ch {
		case ',':
			c.Bump()
			lx.emit(token.Comma, ",", "", lx.spanAt(start, c.Off))
			continue
		case ':':
			c.Bump()
			lx.emit(token.Colon, ":", "", lx.spanAt(start, c.Off))
			continue
		case '=':
			c.Bump()
			lx.emit(token.Equals, "=", "", lx.spanAt(start, c.Off))
			continue
		case '^':
			if lx.scanWordSigil(token.TaskID) {
				continue
			}
		}
		for !lx.atLineEnd() && !isDepStop(c.Peek()) {
			c.Bump()
		}
		word := string(lx.file.Content[start:c.Off])
		lx.emit(token.Text, word, word, lx.spanAt(start, c.Off))
	}
}

func isDepStop(b byte) bool {
	switch b {
	case ' ', '\t', ',', ':', '=':
		return true
	}
	return false
}

func printable(r rune) string {
	if r == utf8.RuneError {
		return "\\ufffd"
	}
	if r < 0x20 {
		return fmt.Sprintf("\\x%02x", r)
	}
	return string(r)
}
