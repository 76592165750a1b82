package diag

// New builds a diagnostic whose message and suggestion come from the code
// tables, with args substituted into both.
func New(sev Severity, code Code, at Location, args ...any) Diagnostic {
	return Diagnostic{
		Severity:   sev,
		Code:       code,
		Message:    Message(code, args...),
		Line:       at.Line,
		Column:     at.Column,
		Length:     at.Length,
		Suggestion: Suggestion(code, args...),
		Primary:    at.Span,
	}
}

func NewError(code Code, at Location, args ...any) Diagnostic {
	return New(SevError, code, at, args...)
}

func NewWarning(code Code, at Location, args ...any) Diagnostic {
	return New(SevWarning, code, at, args...)
}

func (d Diagnostic) WithNote(at Location, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Loc: at, Msg: msg})
	return d
}

// WithSuggestion overrides the canned suggestion.
func (d Diagnostic) WithSuggestion(s string) Diagnostic {
	d.Suggestion = s
	return d
}
