package lexer

import (
	"taskml/internal/diag"
	"taskml/internal/source"
)

type Options struct {
	// PreserveComments emits `//` comments as token.Comment instead of
	// dropping them.
	PreserveComments bool
	// Reporter receives lexical diagnostics; nil drops them (lexing continues).
	Reporter diag.Reporter
}

func (lx *Lexer) report(sev diag.Severity, code diag.Code, sp source.Span, args ...any) {
	if lx.opts.Reporter == nil {
		return
	}
	pos := lx.file.Position(sp.Start)
	lx.opts.Reporter.Report(diag.New(sev, code, diag.Location{
		Line:   int(pos.Line),
		Column: int(pos.Col),
		Length: int(sp.Len()),
		Span:   sp,
	}, args...))
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, args ...any) {
	lx.report(diag.SevError, code, sp, args...)
}

func (lx *Lexer) warnLex(code diag.Code, sp source.Span, args ...any) {
	lx.report(diag.SevWarning, code, sp, args...)
}
