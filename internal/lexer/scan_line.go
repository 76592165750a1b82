package lexer

import (
	"strings"

	"taskml/internal/diag"
	"taskml/internal/token"
)

// rest describes how the remainder of a line is scanned once its leading
// construct is known.
type rest uint8

const (
	restInline rest = iota // metadata + text
	restText               // one TEXT token to end of line
	restDeps               // dependency list
	restDone               // nothing left to scan
)

func (lx *Lexer) scanLine() {
	lx.lineStart = lx.cursor.Off
	lx.emitted = 0

	if lx.block != blockNone {
		lx.scanRawLine()
		lx.endLine()
		return
	}

	width, mixed := lx.scanIndent()
	lx.content = lx.cursor.Off

	// пустая строка или строка-комментарий не трогают стек отступов
	if lx.atLineEnd() {
		lx.endLine()
		return
	}
	if lx.atComment() {
		lx.scanComment()
		lx.endLine()
		return
	}

	if mixed {
		lx.warnLex(diag.LexMixedIndent, lx.spanAt(lx.lineStart, lx.content))
	}
	lx.applyIndent(width)

	switch lx.scanLeading() {
	case restText:
		lx.scanRestText()
	case restDeps:
		lx.scanDeps()
	case restInline:
		lx.scanInline()
	case restDone:
		if lx.atComment() {
			lx.scanComment()
		}
	}
	lx.endLine()
}

// endLine queues NEWLINE when the line produced tokens and steps over '\n'.
func (lx *Lexer) endLine() {
	if lx.emitted > 0 {
		off := lx.cursor.Off
		end := off
		if !lx.cursor.EOF() {
			end++
		}
		lx.push(token.Newline, "", "", lx.spanAt(off, end))
	}
	lx.skipToLineEnd()
	lx.cursor.Eat('\n')
}

// scanRawLine handles one line inside ---context / ---handoff.
func (lx *Lexer) scanRawLine() {
	start := lx.cursor.Off
	end := lx.lineEnd()
	line := string(lx.file.Content[start:end])
	lx.cursor.Off = end

	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "---":
		lead := uint32(strings.Index(line, "---"))
		lx.emit(token.Fence, "---", "", lx.spanAt(start+lead, start+lead+3))
		lx.block = blockNone
	case trimmed != "":
		val := strings.TrimRight(line, " \t")
		lx.emit(token.Text, val, val, lx.spanAt(start, start+uint32(len(val))))
	}
}

func (lx *Lexer) scanInline() {
	for {
		lx.skipBlanks()
		if lx.atLineEnd() {
			return
		}
		if lx.atComment() {
			lx.scanComment()
			return
		}
		if lx.scanMeta() || lx.scanMarker() {
			continue
		}
		lx.scanText(true)
	}
}

// scanRestText scans everything up to a comment or the end of line as one
// TEXT token; sigils do not split it.
func (lx *Lexer) scanRestText() {
	lx.skipBlanks()
	if lx.atLineEnd() {
		return
	}
	if lx.atComment() {
		lx.scanComment()
		return
	}
	lx.scanText(false)
	if lx.atComment() {
		lx.scanComment()
	}
}

func (lx *Lexer) scanComment() {
	start := lx.cursor.Off
	end := lx.lineEnd()
	lx.cursor.Off = end
	if !lx.opts.PreserveComments {
		return
	}
	raw := string(lx.file.Content[start:end])
	body := strings.TrimSpace(strings.TrimPrefix(raw, "//"))
	lx.emit(token.Comment, body, raw, lx.spanAt(start, end))
}
