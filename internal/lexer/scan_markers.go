package lexer

import (
	"bytes"
	"strings"

	"taskml/internal/token"
)

// statusKind maps the character inside `[.]` to its status token kind.
func statusKind(ch byte) (token.Kind, bool) {
	switch ch {
	case ' ':
		return token.StatusPending, true
	case 'x', 'X':
		return token.StatusCompleted, true
	case '~':
		return token.StatusInProgress, true
	case '!':
		return token.StatusBlocked, true
	case '-':
		return token.StatusCancelled, true
	case '?':
		return token.StatusReview, true
	default:
		return token.Invalid, false
	}
}

var criterionMarkers = []struct {
	lit  string
	kind token.Kind
}{
	{"[✓]", token.CriterionVerified},
	{"[✗]", token.CriterionFailed},
	{"[○]", token.CriterionPending},
	{"✓", token.CriterionVerified},
	{"✗", token.CriterionFailed},
	{"○", token.CriterionPending},
}

// scanLeading recognizes constructs that are only valid as the first token
// of a line. When nothing matches the cursor is left untouched.
func (lx *Lexer) scanLeading() rest {
	c := &lx.cursor
	switch ch := c.Peek(); {
	case ch == '@':
		if lx.scanDirective() {
			return restDone
		}
	case ch == '[':
		if lx.scanStatus() {
			return restInline
		}
		if lx.scanCriterion() {
			return restText
		}
	case ch == '-':
		if c.HasPrefix("---") {
			if lx.scanFence() {
				return restDone
			}
			return restInline
		}
		if lx.scanNotePrefix() {
			return restText
		}
	case ch == '=':
		if c.HasPrefix("==") {
			lx.scanSection()
			return restDone
		}
	case ch >= utf8RuneSelf:
		if lx.scanCriterion() {
			return restText
		}
	default:
		if k, ok := lx.scanKeyword(); ok {
			if k == token.Evidence {
				return restText
			}
			return restDeps
		}
	}
	return restInline
}

func (lx *Lexer) scanStatus() bool {
	c := &lx.cursor
	if c.Off+3 > c.Limit {
		return false
	}
	start := c.Off
	raw := lx.file.Content[start : start+3]
	if raw[0] != '[' || raw[2] != ']' {
		return false
	}
	kind, ok := statusKind(raw[1])
	if !ok {
		return false
	}
	lit := string(raw)
	c.BumpN(3)
	lx.emit(kind, lit, "", lx.spanAt(start, c.Off))
	return true
}

func (lx *Lexer) scanCriterion() bool {
	c := &lx.cursor
	for _, m := range criterionMarkers {
		if !c.HasPrefix(m.lit) {
			continue
		}
		start := c.Off
		c.BumpN(len(m.lit))
		lx.emit(m.kind, m.lit, "", lx.spanAt(start, c.Off))
		return true
	}
	return false
}

// criterionMarkAt reports whether b starts with a bare criterion mark.
func criterionMarkAt(b []byte) bool {
	for _, m := range criterionMarkers[3:] {
		if bytes.HasPrefix(b, []byte(m.lit)) {
			return true
		}
	}
	return false
}

// scanMarker lexes a status or criterion marker met in the middle of a line.
// The parser folds such tokens back into the description.
func (lx *Lexer) scanMarker() bool {
	switch ch := lx.cursor.Peek(); {
	case ch == '[':
		return lx.scanStatus() || lx.scanCriterion()
	case ch >= utf8RuneSelf:
		return lx.scanCriterion()
	}
	return false
}

// scanNotePrefix accepts "-" followed by a blank or the end of line;
// "--" and "->" stay text.
func (lx *Lexer) scanNotePrefix() bool {
	c := &lx.cursor
	next := c.PeekAt(1)
	if next != ' ' && next != '\t' && next != '\n' && next != 0 {
		return false
	}
	start := c.Off
	c.Bump()
	lx.emit(token.NotePrefix, "-", "", lx.spanAt(start, c.Off))
	return true
}

func (lx *Lexer) scanKeyword() (token.Kind, bool) {
	c := &lx.cursor
	for _, kw := range token.Keywords() {
		if !c.HasPrefix(kw) {
			continue
		}
		kind, _ := token.LookupKeyword(kw)
		start := c.Off
		c.BumpN(len(kw))
		lx.emit(kind, kw, "", lx.spanAt(start, c.Off))
		return kind, true
	}
	return token.Invalid, false
}

// scanDirective lexes `@name payload`. Value is the name, Raw the trimmed
// payload with any trailing comment removed.
func (lx *Lexer) scanDirective() bool {
	c := &lx.cursor
	start := c.Off
	nameEnd := start + 1
	for nameEnd < c.Limit && isWordByte(lx.file.Content[nameEnd]) {
		nameEnd++
	}
	if nameEnd == start+1 {
		return false
	}
	if nameEnd < c.Limit && !isBlankOrNewline(lx.file.Content[nameEnd]) {
		return false
	}
	name := string(lx.file.Content[start+1 : nameEnd])

	end := lx.lineEnd()
	payloadEnd := lx.commentStart(nameEnd, end)
	payload := strings.TrimSpace(string(lx.file.Content[nameEnd:payloadEnd]))
	c.Off = payloadEnd

	lx.emit(token.Directive, name, payload, lx.spanAt(start, trimRightOff(lx.file.Content, start, payloadEnd)))
	return true
}

// scanSection lexes `== Title ==`. Raw holds the opening '=' run so the
// parser can derive the level.
func (lx *Lexer) scanSection() {
	c := &lx.cursor
	start := c.Off
	for c.Peek() == '=' {
		c.Bump()
	}
	marks := string(lx.file.Content[start:c.Off])

	end := lx.lineEnd()
	bodyEnd := lx.commentStart(c.Off, end)
	title := strings.TrimSpace(string(lx.file.Content[c.Off:bodyEnd]))
	title = strings.TrimSpace(strings.TrimRight(title, "="))
	c.Off = bodyEnd

	lx.emit(token.SectionHeader, title, marks, lx.spanAt(start, trimRightOff(lx.file.Content, start, bodyEnd)))
}
