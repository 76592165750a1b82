package diag

import (
	"fmt"
	"strconv"
	"strings"
)

// messageTemplates hold positional placeholders {0}, {1}, ... that Format
// substitutes from caller arguments.
var messageTemplates = map[Code]string{
	LexUnexpectedChar:     "unexpected character '{0}'",
	LexInconsistentIndent: "inconsistent indentation: dedent to column {0} does not match any enclosing level (nearest is column {1})",
	LexUnterminatedBlock:  "unterminated {0} block: missing closing '---'",
	LexInvalidDate:        "invalid due date '{0}': expected !YYYY-MM-DD",
	LexInvalidEstimate:    "invalid estimate '{0}': unit must be 'h' or 'd'",
	LexMixedIndent:        "indentation mixes tabs and spaces",

	SynMissingStatus:       "expected task status marker, found {0}",
	SynUnexpectedToken:     "unexpected {0}",
	SynUnexpectedIndent:    "unexpected indentation at top level",
	SynInvalidViewOption:   "invalid view option '{0}': expected key=value",
	SynMisplacedDirective:  "directive '@{0}' must appear before tasks",
	SynEmptyDescription:    "task has no description",
	SynInvalidHandoffField: "unknown handoff field '{0}'",
	SynMissingViewName:     "view fence requires a view name",
	SynEmptyDependencyList: "'{0}' has no task references",
	SynInternal:            "internal parser error: {0}",

	SemaUnknownDirective:     "unknown directive '@{0}'",
	SemaDuplicateTaskID:      "duplicate task ID '^{0}' (first declared on line {1})",
	SemaUnresolvedDependency: "task references unknown task '^{0}'",
	SemaCircularDependency:   "circular dependency: {0}",
	SemaInvalidDueDate:       "due date '{0}' is not a valid calendar date",
	SemaTokenOrder:           "{0} should come before {1}",
	SemaContextSchema:        "agent context does not match schema: {0}",
	SemaUnknownViewType:      "unknown view type '{0}'",

	InterInvalidJSON: "invalid JSON in {0}: {1}",
	InterSchemaLoad:  "cannot load schema '{0}': {1}",

	RenderUnknownView: "unknown view type '{0}'",
	RenderFailed:      "render failed: {0}",
}

var suggestions = map[Code]string{
	LexInconsistentIndent: "indent each nesting level by the same number of spaces",
	LexUnterminatedBlock:  "close the block with a line containing only ---",
	LexInvalidDate:        "write dates as !YYYY-MM-DD, e.g. !2025-03-01",
	LexInvalidEstimate:    "use ~<number>h for hours or ~<number>d for days",
	LexMixedIndent:        "indent with spaces only",

	SynMissingStatus:      "start the line with a status marker such as [ ] or [x]",
	SynUnexpectedIndent:   "nest lines under a task or remove the indentation",
	SynInvalidViewOption:  "write options as key=value separated by spaces",
	SynMisplacedDirective: "move directives to the top of the document",
	SynMissingViewName:    "name the view, e.g. ---view:kanban",

	SemaDuplicateTaskID:      "give each task a unique ^id",
	SemaUnresolvedDependency: "declare the referenced task with ^{0}",
	SemaCircularDependency:   "remove one dependency to break the cycle",
	SemaTokenOrder:           "order inline metadata as: description #p ~estimate @assignee #tag !due ^id",
	SemaUnknownViewType:      "known views are list, board, kanban, timeline, gantt, graph and table",
}

// Message renders the template for code with args substituted.
// Unknown codes fall back to the code title.
func Message(code Code, args ...any) string {
	tmpl, ok := messageTemplates[code]
	if !ok {
		return strings.ToLower(code.Title())
	}
	return substitute(tmpl, args)
}

// Suggestion renders the canned remediation for code, or "" if none exists.
func Suggestion(code Code, args ...any) string {
	tmpl, ok := suggestions[code]
	if !ok {
		return ""
	}
	return substitute(tmpl, args)
}

// substitute replaces {N} with args[N]. Placeholders without an argument
// are left verbatim so missing data stays visible.
func substitute(tmpl string, args []any) string {
	if !strings.Contains(tmpl, "{") {
		return tmpl
	}
	var b strings.Builder
	b.Grow(len(tmpl))
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '{' {
			b.WriteByte(tmpl[i])
			continue
		}
		end := strings.IndexByte(tmpl[i:], '}')
		if end < 0 {
			b.WriteString(tmpl[i:])
			break
		}
		idx, err := strconv.Atoi(tmpl[i+1 : i+end])
		if err != nil || idx < 0 || idx >= len(args) {
			b.WriteString(tmpl[i : i+end+1])
		} else {
			fmt.Fprint(&b, args[idx])
		}
		i += end
	}
	return b.String()
}
