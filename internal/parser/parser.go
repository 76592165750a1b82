package parser

import (
	"fmt"

	"taskml/internal/ast"
	"taskml/internal/diag"
	"taskml/internal/token"
)

type Options struct {
	// Strict enables canonical-order warnings for inline metadata.
	Strict bool
	// MaxErrors caps reported errors; 0 means unlimited.
	MaxErrors     uint
	CurrentErrors uint
	// Reporter additionally receives every diagnostic kept in Result.
	Reporter diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Result holds the parsed document and the diagnostics split by severity.
// Document is nil only after an internal failure.
type Result struct {
	Document *ast.Document
	Errors   []diag.Diagnostic
	Warnings []diag.Diagnostic
}

// Parser — состояние парсера на один поток токенов
type Parser struct {
	toks []token.Token
	pos  int
	opts Options

	doc     *ast.Document
	section *ast.Section // текущая секция; nil — корень документа
	stray   int          // непарные INDENT на верхнем уровне

	errs  []diag.Diagnostic
	warns []diag.Diagnostic
}

// Parse builds a Document from a token stream. It never returns a nil
// Result; a panic inside the parser is converted into a single E299 error.
func Parse(tokens []token.Token, opts Options) Result {
	p := &Parser{
		toks: tokens,
		opts: opts,
		doc:  ast.NewDocument(),
	}

	if fatal := runGuarded(p.parseDocument); fatal != nil {
		d := diag.NewError(diag.SynInternal, diag.Location{Line: p.peek().Line, Column: p.peek().Column}, fatal)
		if opts.Reporter != nil {
			opts.Reporter.Report(d)
		}
		return Result{Errors: []diag.Diagnostic{d}}
	}

	return Result{
		Document: p.doc,
		Errors:   p.errs,
		Warnings: p.warns,
	}
}

// runGuarded calls fn and converts a panic into an error value.
func runGuarded(fn func()) (fatal error) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				fatal = err
				return
			}
			fatal = fmt.Errorf("%v", r)
		}
	}()
	fn()
	return nil
}

// parseDocument — директивы в начале, затем элементы верхнего уровня до EOF.
func (p *Parser) parseDocument() {
	p.parseLeadingDirectives()
	for !p.at(token.EOF) {
		p.parseTopItem()
	}
}

// parseTopItem выбирает по первому токену строки нужный распознаватель.
func (p *Parser) parseTopItem() {
	tok := p.peek()
	switch {
	case tok.Kind == token.Newline:
		p.advance()
	case tok.Kind == token.Comment:
		p.takeComment()
	case tok.Kind == token.Indent:
		p.err(diag.SynUnexpectedIndent)
		p.advance()
		p.stray++
	case tok.Kind == token.Dedent:
		p.advance()
		if p.stray > 0 {
			p.stray--
		}
	case tok.Kind == token.Directive:
		p.parseLateDirective()
	case tok.Kind == token.SectionHeader:
		p.parseSection()
	case tok.IsStatus():
		p.addTopTask(p.parseTask())
	case tok.Kind == token.ViewFence:
		p.parseView()
	case tok.Kind == token.ContextFence:
		p.parseContext()
	case tok.Kind == token.HandoffFence:
		p.parseHandoff()
	case tok.Kind == token.Fence:
		// горизонтальный разделитель
		p.skipLine()
	case tok.Kind == token.NotePrefix, tok.IsCriterion(),
		tok.Kind == token.Depends, tok.Kind == token.BlockedBy, tok.Kind == token.Evidence:
		p.err(diag.SynUnexpectedToken, describe(tok)+" outside of a task")
		p.skipLine()
	default:
		p.err(diag.SynMissingStatus, describe(tok))
		p.skipLine()
	}
}

func (p *Parser) addTopTask(t *ast.Task) {
	if p.section != nil {
		p.section.Tasks = append(p.section.Tasks, t)
		return
	}
	p.doc.Tasks = append(p.doc.Tasks, t)
}

func (p *Parser) parseSection() {
	tok := p.advance()
	s := &ast.Section{
		Title: tok.Value,
		Level: len(tok.Raw),
		Tasks: make([]*ast.Task, 0),
		Line:  tok.Line,
	}
	if s.Level == 0 {
		s.Level = 2
	}
	p.doc.Sections = append(p.doc.Sections, s)
	p.section = s
	p.skipLine()
}
