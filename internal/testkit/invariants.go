package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"taskml/internal/ast"
	"taskml/internal/source"
	"taskml/internal/token"
)

// CheckTokenInvariants runs a minimal set of invariants on a token stream
// produced for sf:
// 1) the stream ends with exactly one EOF
// 2) INDENT/DEDENT are balanced and never go below zero
// 3) every span is well-formed, inside the content and points at sf
// 4) spans and lines never move backwards
func CheckTokenInvariants(toks []token.Token, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	if len(toks) == 0 {
		return fmt.Errorf("empty token stream")
	}
	if last := toks[len(toks)-1]; last.Kind != token.EOF {
		return fmt.Errorf("stream ends with %s, want EOF", last.Kind)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	depth := 0
	var prevStart uint32
	prevLine := 1
	for i, tok := range toks {
		if tok.Kind == token.EOF && i != len(toks)-1 {
			return fmt.Errorf("EOF at %d before end of stream", i)
		}
		switch tok.Kind {
		case token.Indent:
			depth++
		case token.Dedent:
			depth--
			if depth < 0 {
				return fmt.Errorf("unbalanced DEDENT at %d:%d", tok.Line, tok.Column)
			}
		}

		sp := tok.Span
		if sp.File != sf.ID {
			return fmt.Errorf("token %d span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.End < sp.Start || sp.End > lenContent {
			return fmt.Errorf("token %d has bad span %v (content %d)", i, sp, lenContent)
		}
		if sp.Start < prevStart {
			return fmt.Errorf("token %d starts at %d before previous %d", i, sp.Start, prevStart)
		}
		if tok.Line < prevLine || tok.Column < 1 {
			return fmt.Errorf("token %d at %d:%d goes backwards", i, tok.Line, tok.Column)
		}
		prevStart, prevLine = sp.Start, tok.Line
	}
	if depth != 0 {
		return fmt.Errorf("%d INDENT(s) left open at EOF", depth)
	}
	return nil
}

// CheckDocumentInvariants verifies the structural shape of a parsed
// document: tasks carry a line, nested items come after their owner and
// priorities stay within p0..p3.
func CheckDocumentInvariants(doc *ast.Document) error {
	if doc == nil {
		return fmt.Errorf("nil document")
	}
	var err error
	ast.Walk(doc, func(t *ast.Task, _ int) bool {
		if err != nil {
			return false
		}
		err = checkTask(t)
		return err == nil
	})
	return err
}

func checkTask(t *ast.Task) error {
	if t.Line < 1 {
		return fmt.Errorf("task %q has no line", t.Description)
	}
	if t.Priority != nil && (*t.Priority < 0 || *t.Priority > 3) {
		return fmt.Errorf("task %q has priority %d", t.Description, *t.Priority)
	}
	for _, sub := range t.Subtasks {
		if sub.Line <= t.Line {
			return fmt.Errorf("subtask %q (line %d) precedes parent %q (line %d)", sub.Description, sub.Line, t.Description, t.Line)
		}
	}
	for _, c := range t.Criteria {
		if c.Line <= t.Line {
			return fmt.Errorf("criterion %q (line %d) precedes task %q (line %d)", c.Description, c.Line, t.Description, t.Line)
		}
	}
	return nil
}
