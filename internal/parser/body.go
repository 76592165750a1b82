package parser

import (
	"strings"

	"taskml/internal/ast"
	"taskml/internal/diag"
	"taskml/internal/token"
)

// parseTaskBody consumes items until the DEDENT that closes t. Nested
// INDENTs that do not follow a task line are flattened into t.
func (p *Parser) parseTaskBody(t *ast.Task) {
	extra := 0
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.EOF:
			return
		case tok.Kind == token.Dedent:
			p.advance()
			if extra == 0 {
				return
			}
			extra--
		case tok.Kind == token.Indent:
			p.advance()
			extra++
		case tok.Kind == token.Newline:
			p.advance()
		case tok.Kind == token.Comment:
			p.takeComment()
		case tok.IsStatus():
			t.Subtasks = append(t.Subtasks, p.parseTask())
		case tok.Kind == token.NotePrefix:
			p.advance()
			if note := p.lineText(); note != "" {
				t.Notes = append(t.Notes, note)
			}
		case tok.Kind == token.Depends:
			t.DependsOn = append(t.DependsOn, p.parseDepList()...)
		case tok.Kind == token.BlockedBy:
			t.BlockedBy = append(t.BlockedBy, p.parseDepList()...)
		case tok.IsCriterion():
			p.advance()
			t.Criteria = append(t.Criteria, &ast.Criterion{
				Status:      criterionOf(tok.Kind),
				Description: p.lineText(),
				Line:        tok.Line,
			})
		case tok.Kind == token.Evidence:
			p.advance()
			p.attachEvidence(t, p.lineText())
		case tok.Kind == token.Directive && tok.Value == "include":
			p.parseLateDirective()
		case tok.Kind == token.ViewFence:
			p.parseView()
		case tok.Kind == token.ContextFence:
			p.parseContext()
		case tok.Kind == token.HandoffFence:
			p.parseHandoff()
		default:
			// прочие строки в теле задачи (в том числе "@кто-то ...")
			// молча пропускаются
			p.skipLine()
		}
	}
}

// attachEvidence amends the most recent criterion of t. Without one the
// evidence is dropped.
func (p *Parser) attachEvidence(t *ast.Task, text string) {
	if len(t.Criteria) == 0 || text == "" {
		return
	}
	c := t.Criteria[len(t.Criteria)-1]
	if c.Evidence == "" {
		c.Evidence = text
		return
	}
	c.Evidence += "\n" + text
}

// parseDepList parses `depends: ^a, ^b` style lists. Bare words are accepted
// as ids; a leading '^' is stripped.
func (p *Parser) parseDepList() []string {
	kw := p.advance()
	var ids []string
	for !p.atLineEnd() {
		tok := p.advance()
		switch tok.Kind {
		case token.TaskID:
			ids = append(ids, tok.Value)
		case token.Text:
			if id := strings.TrimPrefix(strings.TrimSpace(tok.Value), "^"); id != "" {
				ids = append(ids, id)
			}
		case token.Comment:
			p.addComment(tok)
		}
	}
	p.endLine()
	if len(ids) == 0 {
		p.report(diag.SevWarning, diag.SynEmptyDependencyList, kw, kw.Value)
	}
	return ids
}
