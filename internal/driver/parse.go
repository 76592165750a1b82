// Package driver runs the lex, parse and check pipeline over strings,
// files and directories.
package driver

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"fortio.org/safecast"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"taskml/internal/ast"
	"taskml/internal/diag"
	"taskml/internal/lexer"
	"taskml/internal/observ"
	"taskml/internal/parser"
	"taskml/internal/sema"
	"taskml/internal/source"
	"taskml/internal/token"
	"taskml/internal/trace"
)

// ParseOptions control a single parse.
type ParseOptions struct {
	Strict           bool
	PreserveComments bool
	// MaxDiagnostics caps errors and warnings separately; 0 means no cap.
	MaxDiagnostics int

	// Check runs the semantic pass after a successful parse.
	Check           bool
	KnownDirectives []string
	ContextSchema   *jsonschema.Schema

	// Timer, when set, receives lex/parse/check phase durations.
	Timer *observ.Timer
}

// ParseResult is the outcome of one parse. Document is nil only after an
// internal parser failure (E299). Tokens is nil for results served from the
// disk cache.
type ParseResult struct {
	Document *ast.Document
	Errors   []diag.Diagnostic
	Warnings []diag.Diagnostic
	Tokens   []token.Token

	FileSet *source.FileSet
	File    *source.File
}

// OK reports whether a document was produced without errors.
func (r *ParseResult) OK() bool {
	return r != nil && r.Document != nil && len(r.Errors) == 0
}

// Bag returns errors and warnings merged and sorted by position.
func (r *ParseResult) Bag() *diag.Bag {
	bag := diag.NewBag(0)
	if r == nil {
		return bag
	}
	for _, d := range r.Errors {
		bag.Add(d)
	}
	for _, d := range r.Warnings {
		bag.Add(d)
	}
	bag.Sort()
	return bag
}

// ParseString parses text as an anonymous document.
func ParseString(text string, opts ParseOptions) *ParseResult {
	return ParseSource(context.Background(), "<input>", []byte(text), opts)
}

// ParseSource parses content registered under name in a fresh FileSet.
func ParseSource(ctx context.Context, name string, content []byte, opts ParseOptions) *ParseResult {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, content)
	return runPipeline(ctx, fs, fs.Get(id), opts)
}

// ParseFile loads path from disk and parses it.
func ParseFile(ctx context.Context, path string, opts ParseOptions) (*ParseResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return runPipeline(ctx, fs, fs.Get(id), opts), nil
}

// runPipeline lexes, parses and optionally checks file.
func runPipeline(ctx context.Context, fs *source.FileSet, file *source.File, opts ParseOptions) *ParseResult {
	res := &ParseResult{FileSet: fs, File: file}

	// lex
	_, span := trace.Start(ctx, trace.ScopePhase, "lex")
	done := opts.Timer.Track("lex")
	lexed := lexer.TokenizeFile(file, lexer.Options{PreserveComments: opts.PreserveComments})
	res.Tokens = lexed.Tokens
	for _, d := range lexed.Errors {
		res.add(d)
	}
	done(strconv.Itoa(len(lexed.Tokens)) + " tokens")
	span.WithExtra("tokens", strconv.Itoa(len(lexed.Tokens))).End("")

	// parse
	_, span = trace.Start(ctx, trace.ScopePhase, "parse")
	done = opts.Timer.Track("parse")
	popts := parser.Options{Strict: opts.Strict}
	if opts.MaxDiagnostics > 0 {
		if limit, err := safecast.Conv[uint](opts.MaxDiagnostics); err == nil {
			popts.MaxErrors = limit
		}
	}
	parsed := parser.Parse(lexed.Tokens, popts)
	res.Document = parsed.Document
	res.Errors = append(res.Errors, parsed.Errors...)
	res.Warnings = append(res.Warnings, parsed.Warnings...)
	done("")
	span.End(statusDetail(res.Document != nil))

	// check
	if opts.Check && res.Document != nil {
		_, span = trace.Start(ctx, trace.ScopePhase, "check")
		done = opts.Timer.Track("check")
		checked := sema.Check(res.Document, sema.Options{
			KnownDirectives: opts.KnownDirectives,
			ContextSchema:   opts.ContextSchema,
			File:            file.ID,
		})
		res.Errors = append(res.Errors, checked.Errors...)
		res.Warnings = append(res.Warnings, checked.Warnings...)
		done("")
		span.End("")
	}

	res.finish(opts.MaxDiagnostics)
	return res
}

func (r *ParseResult) add(d diag.Diagnostic) {
	if d.IsError() {
		r.Errors = append(r.Errors, d)
	} else {
		r.Warnings = append(r.Warnings, d)
	}
}

// finish sorts both lists by position and applies the cap.
func (r *ParseResult) finish(limit int) {
	byPos := func(a, b diag.Diagnostic) int {
		if a.Line != b.Line {
			return a.Line - b.Line
		}
		return a.Column - b.Column
	}
	slices.SortStableFunc(r.Errors, byPos)
	slices.SortStableFunc(r.Warnings, byPos)
	if limit > 0 {
		if len(r.Errors) > limit {
			r.Errors = r.Errors[:limit]
		}
		if len(r.Warnings) > limit {
			r.Warnings = r.Warnings[:limit]
		}
	}
}

func statusDetail(ok bool) string {
	if ok {
		return "ok"
	}
	return "fatal"
}
