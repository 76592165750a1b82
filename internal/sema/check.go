package sema

import (
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"taskml/internal/ast"
	"taskml/internal/diag"
	"taskml/internal/source"
)

// Options configure a semantic pass over a document.
type Options struct {
	Reporter diag.Reporter
	// KnownDirectives extends the built-in directive names accepted without
	// an E300 warning.
	KnownDirectives []string
	// ContextSchema validates the agent context data when set.
	ContextSchema *jsonschema.Schema
	// File is stamped on every diagnostic span.
	File source.FileID
}

// Result stores the diagnostics produced by the checker.
type Result struct {
	Errors   []diag.Diagnostic
	Warnings []diag.Diagnostic
}

// HasErrors reports whether any error was produced.
func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// Check validates what the parser cannot see on a single line: identifier
// uniqueness, dependency resolution and cycles, calendar dates, directive
// and view names, block payloads.
func Check(doc *ast.Document, opts Options) Result {
	var res Result
	if doc == nil {
		return res
	}
	c := checker{
		doc:    doc,
		opts:   opts,
		result: &res,
		ids:    make(map[string]*ast.Task),
	}
	c.run()
	return res
}

type checker struct {
	doc    *ast.Document
	opts   Options
	result *Result
	ids    map[string]*ast.Task // первое объявление каждого ID
}

func (c *checker) run() {
	c.checkDirectives()
	c.collectIDs()
	c.checkDependencies()
	c.checkCycles()
	c.checkDates()
	c.checkView()
	c.checkContext()
	c.checkHandoff()
}

func (c *checker) report(sev diag.Severity, code diag.Code, line int, args ...any) {
	d := diag.New(sev, code, diag.Location{Line: line, Column: 1, Span: source.Span{File: c.opts.File}}, args...)
	if sev == diag.SevError {
		c.result.Errors = append(c.result.Errors, d)
	} else {
		c.result.Warnings = append(c.result.Warnings, d)
	}
	if c.opts.Reporter != nil {
		c.opts.Reporter.Report(d)
	}
}

func (c *checker) errorf(code diag.Code, line int, args ...any) {
	c.report(diag.SevError, code, line, args...)
}

func (c *checker) warnf(code diag.Code, line int, args ...any) {
	c.report(diag.SevWarning, code, line, args...)
}
