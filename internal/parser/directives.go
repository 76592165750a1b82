package parser

import (
	"taskml/internal/ast"
	"taskml/internal/diag"
	"taskml/internal/token"
)

// parseLeadingDirectives consumes the directive block at the top of the
// document. Blank lines and comments may be interleaved.
func (p *Parser) parseLeadingDirectives() {
	for {
		switch p.peek().Kind {
		case token.Directive:
			p.applyDirective(p.advance())
			p.skipLine()
		case token.Newline:
			p.advance()
		case token.Comment:
			p.takeComment()
		default:
			return
		}
	}
}

// parseLateDirective handles a directive after content: only @include is
// allowed there.
func (p *Parser) parseLateDirective() {
	tok := p.peek()
	if tok.Value == "include" {
		p.applyDirective(p.advance())
	} else {
		p.err(diag.SynMisplacedDirective, tok.Value)
	}
	p.skipLine()
}

func (p *Parser) applyDirective(tok token.Token) {
	name, value := tok.Value, tok.Raw
	doc := p.doc
	switch name {
	case "include":
		if value != "" {
			doc.Includes = append(doc.Includes, value)
		}
		return
	case "project":
		doc.Project = value
	case "sprint":
		doc.Sprint = value
	case "version":
		if value != "" {
			doc.Version = value
		}
	case "author":
		doc.Author = value
	case "agent":
		p.agentContext(tok.Line).Agent = value
	case "agent-id":
		p.agentContext(tok.Line).AgentID = value
	}
	doc.Directives[name] = value
	doc.DirectiveLines[name] = tok.Line
}

// agentContext returns the document's agent context, creating it on first
// use.
func (p *Parser) agentContext(line int) *ast.AgentContext {
	if p.doc.AgentContext == nil {
		p.doc.AgentContext = &ast.AgentContext{Line: line}
	}
	return p.doc.AgentContext
}

func commentOf(tok token.Token) ast.Comment {
	return ast.Comment{Text: tok.Value, Line: tok.Line}
}
