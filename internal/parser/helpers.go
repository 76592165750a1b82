package parser

import (
	"slices"
	"strings"

	"taskml/internal/diag"
	"taskml/internal/token"
)

// peek возвращает текущий токен; за концом потока — синтетический EOF.
func (p *Parser) peek() token.Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	eof := token.Token{Kind: token.EOF}
	if n := len(p.toks); n > 0 {
		last := p.toks[n-1]
		eof.Line, eof.Column = last.Line, last.Column
		eof.Span = last.Span
		eof.Span.Start = eof.Span.End
	}
	return eof
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atAny(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

func (p *Parser) atLineEnd() bool {
	return p.atAny(token.Newline, token.EOF)
}

// advance — съедает текущий токен; EOF не съедается никогда.
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
	}
	return tok
}

// endLine съедает NEWLINE в конце логической строки, если он есть.
func (p *Parser) endLine() {
	if p.at(token.Newline) {
		p.advance()
	}
}

// skipLine пропускает всё до конца строки включительно. Структурные
// INDENT/DEDENT внутри строки не встречаются, поэтому их не трогаем.
func (p *Parser) skipLine() {
	for !p.atLineEnd() {
		if p.at(token.Comment) {
			p.takeComment()
			continue
		}
		p.advance()
	}
	p.endLine()
}

// lineText collects the TEXT of the rest of the line, trimmed.
func (p *Parser) lineText() string {
	var sb strings.Builder
	for !p.atLineEnd() {
		tok := p.advance()
		switch tok.Kind {
		case token.Comment:
			p.addComment(tok)
		default:
			sb.WriteString(tok.Value)
		}
	}
	p.endLine()
	return strings.TrimSpace(sb.String())
}

func (p *Parser) takeComment() {
	p.addComment(p.advance())
	if p.at(token.Newline) {
		p.advance()
	}
}

func (p *Parser) addComment(tok token.Token) {
	p.doc.Comments = append(p.doc.Comments, commentOf(tok))
}

func locOf(tok token.Token) diag.Location {
	return diag.Location{
		Line:   tok.Line,
		Column: tok.Column,
		Length: tok.Len(),
		Span:   tok.Span,
	}
}

// репортует ошибку на текущем токене
func (p *Parser) err(code diag.Code, args ...any) bool {
	return p.report(diag.SevError, code, p.peek(), args...)
}

// репортует warning на текущем токене
func (p *Parser) warn(code diag.Code, args ...any) bool {
	return p.report(diag.SevWarning, code, p.peek(), args...)
}

func (p *Parser) report(sev diag.Severity, code diag.Code, at token.Token, args ...any) bool {
	if sev == diag.SevError {
		if p.opts.Enough() {
			return false // достигли максимального количества ошибок
		}
		p.opts.CurrentErrors++
	}
	d := diag.New(sev, code, locOf(at), args...)
	if sev == diag.SevError {
		p.errs = append(p.errs, d)
	} else {
		p.warns = append(p.warns, d)
	}
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(d)
	}
	return true
}

var kindLabels = map[token.Kind]string{
	token.EOF:           "end of file",
	token.Newline:       "end of line",
	token.Indent:        "indentation",
	token.Dedent:        "dedent",
	token.Comment:       "comment",
	token.Directive:     "directive",
	token.SectionHeader: "section header",
	token.Fence:         "'---'",
	token.ViewFence:     "view fence",
	token.ContextFence:  "context block",
	token.HandoffFence:  "handoff block",
	token.NotePrefix:    "note",
	token.Priority:      "priority",
	token.Tag:           "tag",
	token.Estimate:      "estimate",
	token.DueDate:       "due date",
	token.TaskID:        "task id",
	token.Assignee:      "assignee",
	token.Depends:       "'depends:'",
	token.BlockedBy:     "'blocked-by:'",
	token.Evidence:      "'evidence:'",
	token.Colon:         "':'",
	token.Equals:        "'='",
	token.Comma:         "','",
	token.Text:          "description",
}

// describe renders a token for diagnostics.
func describe(tok token.Token) string {
	switch {
	case tok.Kind == token.Text:
		return "'" + truncate(strings.TrimSpace(tok.Value), 32) + "'"
	case tok.IsCriterion():
		return "criterion"
	case tok.IsStatus():
		return "status " + tok.Value
	}
	if l, ok := kindLabels[tok.Kind]; ok {
		return l
	}
	return tok.Kind.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
