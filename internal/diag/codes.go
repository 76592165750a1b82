package diag

import (
	"fmt"
	"slices"
)

// Code is a stable numeric diagnostic identifier. The hundreds digit names
// the producing stage: 1 lexical, 2 syntax, 3 semantic, 4 interchange,
// 5 renderer.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexUnexpectedChar     Code = 100
	LexInconsistentIndent Code = 101
	LexUnterminatedBlock  Code = 102
	LexInvalidDate        Code = 103
	LexInvalidEstimate    Code = 104
	LexMixedIndent        Code = 105

	// Syntax
	SynMissingStatus       Code = 200
	SynUnexpectedToken     Code = 201
	SynUnexpectedIndent    Code = 202
	SynInvalidViewOption   Code = 203
	SynMisplacedDirective  Code = 204
	SynEmptyDescription    Code = 205
	SynInvalidHandoffField Code = 206
	SynMissingViewName     Code = 207
	SynEmptyDependencyList Code = 208
	SynInternal            Code = 299

	// Semantic; produced by internal/sema, never by the parser itself
	// (E305 is the exception: strict-mode ordering is checked inline).
	SemaUnknownDirective     Code = 300
	SemaDuplicateTaskID      Code = 301
	SemaUnresolvedDependency Code = 302
	SemaCircularDependency   Code = 303
	SemaInvalidDueDate       Code = 304
	SemaTokenOrder           Code = 305
	SemaContextSchema        Code = 306
	SemaUnknownViewType      Code = 307

	// Interchange
	InterInvalidJSON Code = 400
	InterSchemaLoad  Code = 401

	// Renderer
	RenderUnknownView Code = 500
	RenderFailed      Code = 501
)

// Stage groups codes by the pipeline phase that owns them.
type Stage uint8

const (
	StageUnknown Stage = iota
	StageLexical
	StageSyntax
	StageSemantic
	StageInterchange
	StageRenderer
)

func (s Stage) String() string {
	switch s {
	case StageLexical:
		return "lexical"
	case StageSyntax:
		return "syntax"
	case StageSemantic:
		return "semantic"
	case StageInterchange:
		return "interchange"
	case StageRenderer:
		return "renderer"
	}
	return "unknown"
}

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	LexUnexpectedChar:     "Unexpected character",
	LexInconsistentIndent: "Inconsistent indentation",
	LexUnterminatedBlock:  "Unterminated block",
	LexInvalidDate:        "Invalid due date",
	LexInvalidEstimate:    "Invalid estimate",
	LexMixedIndent:        "Mixed tabs and spaces",

	SynMissingStatus:       "Missing status marker",
	SynUnexpectedToken:     "Unexpected token",
	SynUnexpectedIndent:    "Unexpected indentation",
	SynInvalidViewOption:   "Invalid view option",
	SynMisplacedDirective:  "Misplaced directive",
	SynEmptyDescription:    "Empty task description",
	SynInvalidHandoffField: "Invalid handoff field",
	SynMissingViewName:     "Missing view name",
	SynEmptyDependencyList: "Empty dependency list",
	SynInternal:            "Internal parser error",

	SemaUnknownDirective:     "Unknown directive",
	SemaDuplicateTaskID:      "Duplicate task ID",
	SemaUnresolvedDependency: "Unresolved dependency",
	SemaCircularDependency:   "Circular dependency",
	SemaInvalidDueDate:       "Invalid calendar date",
	SemaTokenOrder:           "Non-canonical token order",
	SemaContextSchema:        "Agent context schema violation",
	SemaUnknownViewType:      "Unknown view type",

	InterInvalidJSON: "Invalid JSON",
	InterSchemaLoad:  "Schema load failure",

	RenderUnknownView: "Unknown view",
	RenderFailed:      "Render failure",
}

// ID returns the stable external form, e.g. "E204".
func (c Code) ID() string {
	return fmt.Sprintf("E%03d", uint16(c))
}

// Stage reports which pipeline phase owns the code.
func (c Code) Stage() Stage {
	switch ic := int(c); {
	case ic >= 100 && ic < 200:
		return StageLexical
	case ic >= 200 && ic < 300:
		return StageSyntax
	case ic >= 300 && ic < 400:
		return StageSemantic
	case ic >= 400 && ic < 500:
		return StageInterchange
	case ic >= 500 && ic < 600:
		return StageRenderer
	}
	return StageUnknown
}

// Known reports whether c belongs to the closed code set.
func (c Code) Known() bool {
	_, ok := codeDescription[c]
	return ok && c != UnknownCode
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Codes returns every known code in ascending order.
func Codes() []Code {
	out := make([]Code, 0, len(codeDescription))
	for c := range codeDescription {
		if c != UnknownCode {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return out
}
