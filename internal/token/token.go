package token

import (
	"taskml/internal/source"
)

// Token is a single lexical unit with its position.
type Token struct {
	Kind   Kind
	Value  string
	Raw    string
	Line   int
	Column int
	Span   source.Span
}

// Len returns the byte length of the source text the token covers.
func (t Token) Len() int {
	return int(t.Span.Len())
}

// IsStatus reports whether the token is a task status marker.
func (t Token) IsStatus() bool { return t.Kind.IsStatus() }

// IsCriterion reports whether the token is a criterion marker.
func (t Token) IsCriterion() bool { return t.Kind.IsCriterion() }

// IsMetadata reports whether the token carries inline task metadata.
func (t Token) IsMetadata() bool { return t.Kind.IsMetadata() }

// IsLineEnd reports whether the token ends a logical line.
func (t Token) IsLineEnd() bool {
	return t.Kind == Newline || t.Kind == EOF
}
