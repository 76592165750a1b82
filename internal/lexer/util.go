package lexer

import (
	"taskml/internal/source"
)

const utf8RuneSelf = 0x80

func isDec(b byte) bool { return b >= '0' && b <= '9' }

// isWordByte matches the ASCII word characters allowed in names, tags and
// ids: letters, digits, '_' and '-'.
func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || isDec(b) || b == '_' || b == '-'
}

func isBlank(b byte) bool { return b == ' ' || b == '\t' }

func isBlankOrNewline(b byte) bool { return isBlank(b) || b == '\n' }

func isSigil(b byte) bool {
	switch b {
	case '#', '@', '~', '!', '^':
		return true
	}
	return false
}

// atTrigger reports whether the cursor stands on a sigil that ends a TEXT
// run: one of `# @ ~ ! ^ [` or a criterion mark.
func (lx *Lexer) atTrigger() bool {
	ch := lx.cursor.Peek()
	if isSigil(ch) || ch == '[' {
		return true
	}
	return ch >= utf8RuneSelf && criterionMarkAt(lx.file.Content[lx.cursor.Off:lx.cursor.Limit])
}

func isEscapable(b byte) bool {
	return isSigil(b) || b == '[' || b == '\\'
}

func (lx *Lexer) atLineEnd() bool {
	return lx.cursor.EOF() || lx.cursor.Peek() == '\n'
}

// atBoundary reports whether the cursor is at the start of the line content
// or right after a blank.
func (lx *Lexer) atBoundary() bool {
	off := lx.cursor.Off
	if off <= lx.content {
		return true
	}
	return isBlank(lx.file.Content[off-1])
}

func (lx *Lexer) atComment() bool {
	return lx.cursor.HasPrefix("//") && lx.atBoundary()
}

func (lx *Lexer) skipBlanks() {
	for isBlank(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

// lineEnd returns the offset of the '\n' ending the current line, or the
// end of input.
func (lx *Lexer) lineEnd() uint32 {
	p := lx.cursor.Off
	for p < lx.cursor.Limit && lx.file.Content[p] != '\n' {
		p++
	}
	return p
}

func (lx *Lexer) skipToLineEnd() {
	lx.cursor.Off = lx.lineEnd()
}

// commentStart returns the offset of the first `//` comment in [from, end)
// that follows a blank, or end.
func (lx *Lexer) commentStart(from, end uint32) uint32 {
	content := lx.file.Content
	for p := from; p+1 < end; p++ {
		if content[p] == '/' && content[p+1] == '/' && (p == lx.content || isBlank(content[p-1])) {
			return p
		}
	}
	return end
}

// wordEnd returns the end of the word-character run starting at from.
func (lx *Lexer) wordEnd(from uint32) uint32 {
	p := from
	for p < lx.cursor.Limit && isWordByte(lx.file.Content[p]) {
		p++
	}
	return p
}

func (lx *Lexer) spanAt(start, end uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: start, End: end}
}

func trimRightOff(content []byte, start, end uint32) uint32 {
	for end > start && isBlank(content[end-1]) {
		end--
	}
	return end
}
