package lexer

import (
	"taskml/internal/diag"
	"taskml/internal/token"
)

// scanMeta tries the inline sigils at the cursor. It returns false when the
// sigil does not start a metadata token; the caller lexes it as text.
func (lx *Lexer) scanMeta() bool {
	switch lx.cursor.Peek() {
	case '#':
		return lx.scanHash()
	case '~':
		return lx.scanEstimate()
	case '!':
		return lx.scanDue()
	case '^':
		return lx.scanWordSigil(token.TaskID)
	case '@':
		return lx.scanWordSigil(token.Assignee)
	default:
		return false
	}
}

// scanHash lexes #p0..#p3 as Priority and any other #word as Tag.
func (lx *Lexer) scanHash() bool {
	c := &lx.cursor
	start := c.Off
	end := lx.wordEnd(start + 1)
	if end == start+1 {
		return false
	}
	word := string(lx.file.Content[start+1 : end])
	c.Off = end
	sp := lx.spanAt(start, end)
	if len(word) == 2 && word[0] == 'p' && word[1] >= '0' && word[1] <= '3' {
		lx.emit(token.Priority, word[1:], "", sp)
		return true
	}
	lx.emit(token.Tag, word, "", sp)
	return true
}

// scanEstimate lexes ~<digits><h|d>. A number with another unit is reported
// and left for the text scanner; "~" before a non-digit is plain text.
func (lx *Lexer) scanEstimate() bool {
	c := &lx.cursor
	start := c.Off
	p := start + 1
	for p < c.Limit && isDec(lx.file.Content[p]) {
		p++
	}
	if p == start+1 {
		return false
	}
	unitEnd := lx.wordEnd(p)
	unit := string(lx.file.Content[p:unitEnd])
	if unit != "h" && unit != "d" {
		lx.errLex(diag.LexInvalidEstimate, lx.spanAt(start, unitEnd), string(lx.file.Content[start:unitEnd]))
		return false
	}
	c.Off = unitEnd
	lx.emit(token.Estimate, string(lx.file.Content[start+1:unitEnd]), "", lx.spanAt(start, unitEnd))
	return true
}

// scanDue lexes !YYYY-MM-DD. Calendar validity is checked later; here only
// the shape matters.
func (lx *Lexer) scanDue() bool {
	c := &lx.cursor
	start := c.Off
	if !isDec(c.PeekAt(1)) {
		return false
	}
	end := lx.wordEnd(start + 1)
	lit := lx.file.Content[start+1 : end]
	if !isDateShape(lit) {
		lx.errLex(diag.LexInvalidDate, lx.spanAt(start, end), string(lx.file.Content[start:end]))
		return false
	}
	c.Off = end
	lx.emit(token.DueDate, string(lit), "", lx.spanAt(start, end))
	return true
}

func (lx *Lexer) scanWordSigil(kind token.Kind) bool {
	c := &lx.cursor
	start := c.Off
	end := lx.wordEnd(start + 1)
	if end == start+1 {
		return false
	}
	c.Off = end
	lx.emit(kind, string(lx.file.Content[start+1:end]), "", lx.spanAt(start, end))
	return true
}

func isDateShape(b []byte) bool {
	if len(b) != 10 || b[4] != '-' || b[7] != '-' {
		return false
	}
	for i, ch := range b {
		if i == 4 || i == 7 {
			continue
		}
		if !isDec(ch) {
			return false
		}
	}
	return true
}
