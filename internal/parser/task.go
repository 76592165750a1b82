package parser

import (
	"strconv"
	"strings"

	"taskml/internal/ast"
	"taskml/internal/diag"
	"taskml/internal/token"
)

// statusOf — исчерпывающий switch по маркерам статуса.
func statusOf(k token.Kind) (ast.Status, bool) {
	switch k {
	case token.StatusPending:
		return ast.StatusPending, true
	case token.StatusInProgress:
		return ast.StatusInProgress, true
	case token.StatusCompleted:
		return ast.StatusCompleted, true
	case token.StatusBlocked:
		return ast.StatusBlocked, true
	case token.StatusCancelled:
		return ast.StatusCancelled, true
	case token.StatusReview:
		return ast.StatusReview, true
	default:
		return ast.StatusPending, false
	}
}

func criterionOf(k token.Kind) ast.CriterionStatus {
	switch k {
	case token.CriterionVerified:
		return ast.CriterionVerified
	case token.CriterionFailed:
		return ast.CriterionFailed
	default:
		return ast.CriterionPending
	}
}

// parseTask parses a status line and, when an INDENT follows, its body.
func (p *Parser) parseTask() *ast.Task {
	st := p.advance()
	status, _ := statusOf(st.Kind)
	t := &ast.Task{Status: status, Line: st.Line}

	p.parseTaskContent(t, st)
	// строки-комментарии не влияют на отступы и могут стоять перед INDENT
	for p.at(token.Comment) {
		p.takeComment()
	}
	if p.at(token.Indent) {
		p.advance()
		p.parseTaskBody(t)
	}
	return t
}

// parseTaskContent consumes the rest of the status line.
func (p *Parser) parseTaskContent(t *ast.Task, status token.Token) {
	var desc strings.Builder
	order := orderTracker{enabled: p.opts.Strict}
	prevEnd := status.Span.End

	for !p.atLineEnd() {
		tok := p.peek()
		if before, bad := order.check(tok); bad {
			p.warn(diag.SemaTokenOrder, kindLabels[tok.Kind], kindLabels[before])
		}
		p.advance()
		gap := tok.Span.Start > prevEnd
		prevEnd = tok.Span.End

		switch tok.Kind {
		case token.Text:
			appendDesc(&desc, tok.Value, gap)
		case token.Priority:
			if n, err := strconv.Atoi(tok.Value); err == nil && n >= 0 && n <= 3 {
				t.Priority = &n
			}
		case token.Estimate:
			t.Estimate = tok.Value
		case token.Assignee:
			t.Assignee = tok.Value
		case token.Tag:
			t.Tags = append(t.Tags, tok.Value)
		case token.DueDate:
			t.Due = tok.Value
		case token.TaskID:
			t.ID = tok.Value
		case token.Comment:
			p.addComment(tok)
		default:
			// неизвестные виды токенов попадают в описание
			appendDesc(&desc, tok.Value, gap)
		}
	}
	p.endLine()

	t.Description = strings.TrimSpace(desc.String())
	if t.Description == "" {
		p.report(diag.SevWarning, diag.SynEmptyDescription, status)
	}
}

// appendDesc adds a description fragment. A fragment separated from the
// previous token by blanks in the source is joined with one space.
func appendDesc(desc *strings.Builder, text string, gap bool) {
	if gap && desc.Len() > 0 {
		if last := desc.String()[desc.Len()-1]; last != ' ' && last != '\t' {
			desc.WriteByte(' ')
		}
	}
	desc.WriteString(text)
}
