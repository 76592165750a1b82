package diag

import (
	"taskml/internal/source"
)

// Location pins a diagnostic to source. Line and Column are 1-based;
// Length is the byte length of the offending span (0 means a point).
type Location struct {
	Line   int
	Column int
	Length int
	Span   source.Span
}

type Note struct {
	Loc Location
	Msg string
}

type Diagnostic struct {
	Severity   Severity
	Code       Code
	Message    string
	Line       int
	Column     int
	Length     int
	Suggestion string
	Primary    source.Span
	Notes      []Note
}

// Location returns the diagnostic position as a Location.
func (d Diagnostic) Location() Location {
	return Location{Line: d.Line, Column: d.Column, Length: d.Length, Span: d.Primary}
}

// IsError reports whether d blocks consumers that require a clean parse.
func (d Diagnostic) IsError() bool {
	return d.Severity >= SevError
}
