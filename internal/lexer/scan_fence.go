package lexer

import (
	"strings"

	"taskml/internal/token"
)

// scanFence handles lines starting with "---". It returns false when the
// line is not a fence, leaving the cursor in place.
func (lx *Lexer) scanFence() bool {
	c := &lx.cursor
	start := c.Off
	end := lx.lineEnd()
	line := string(lx.file.Content[start:end])

	switch {
	case strings.HasPrefix(line, "---view:"):
		nameStart := start + uint32(len("---view:"))
		nameEnd := nameStart
		for nameEnd < end && isWordByte(lx.file.Content[nameEnd]) {
			nameEnd++
		}
		optsEnd := lx.commentStart(nameEnd, end)
		opts := strings.TrimSpace(string(lx.file.Content[nameEnd:optsEnd]))
		c.Off = optsEnd
		lx.emit(token.ViewFence, string(lx.file.Content[nameStart:nameEnd]), opts,
			lx.spanAt(start, trimRightOff(lx.file.Content, start, optsEnd)))
		return true

	case fenceWord(line, "---context"):
		c.Off = end
		lx.openBlock(token.ContextFence, blockContext, start, start+uint32(len("---context")))
		return true

	case fenceWord(line, "---handoff"):
		c.Off = end
		lx.openBlock(token.HandoffFence, blockHandoff, start, start+uint32(len("---handoff")))
		return true
	}

	// bare fence: a run of three or more dashes
	n := 0
	for n < len(line) && line[n] == '-' {
		n++
	}
	if strings.TrimSpace(line[n:]) != "" && !strings.HasPrefix(strings.TrimSpace(line[n:]), "//") {
		return false
	}
	c.BumpN(n)
	lx.emit(token.Fence, "---", "", lx.spanAt(start, c.Off))
	return true
}

func (lx *Lexer) openBlock(kind token.Kind, block blockKind, start, end uint32) {
	sp := lx.spanAt(start, end)
	lx.emit(kind, "", "", sp)
	lx.block = block
	lx.blockOpen = sp
}

// fenceWord reports whether line is word optionally followed by blanks.
func fenceWord(line, word string) bool {
	if !strings.HasPrefix(line, word) {
		return false
	}
	return strings.TrimSpace(line[len(word):]) == ""
}
