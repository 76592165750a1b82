package sema_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskml/internal/ast"
	"taskml/internal/diag"
	"taskml/internal/lexer"
	"taskml/internal/parser"
	"taskml/internal/sema"
)

func parseDoc(t *testing.T, src string) *ast.Document {
	t.Helper()
	lx := lexer.Tokenize(src, lexer.Options{})
	res := parser.Parse(lx.Tokens, parser.Options{})
	if res.Document == nil || len(res.Errors) != 0 {
		t.Fatalf("parse failed: %v", res.Errors)
	}
	return res.Document
}

func codesOf(ds []diag.Diagnostic) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Code.ID()
	}
	return out
}

func expect(t *testing.T, got []diag.Diagnostic, want ...string) {
	t.Helper()
	if strings.Join(codesOf(got), ",") != strings.Join(want, ",") {
		msgs := make([]string, len(got))
		for i, d := range got {
			msgs[i] = d.Code.ID() + " " + d.Message
		}
		t.Fatalf("diagnostics = %v, want %v", msgs, want)
	}
}

func TestCleanDocument(t *testing.T) {
	doc := parseDoc(t, "@project X\n[ ] a ^a\n[ ] b ^b !2025-02-28\n  depends: ^a\n")
	res := sema.Check(doc, sema.Options{})
	expect(t, res.Errors)
	expect(t, res.Warnings)
}

func TestDuplicateIDs(t *testing.T) {
	doc := parseDoc(t, "[ ] a ^auth\n  [ ] nested ^auth\n[ ] c ^auth\n")
	res := sema.Check(doc, sema.Options{})
	expect(t, res.Errors, "E301", "E301")
	if res.Errors[0].Line != 2 || res.Errors[0].Message != "duplicate task ID '^auth' (first declared on line 1)" {
		t.Fatalf("first duplicate: line %d %q", res.Errors[0].Line, res.Errors[0].Message)
	}
}

func TestUnresolvedDependency(t *testing.T) {
	doc := parseDoc(t, "[ ] a ^a\n  depends: ^a, ^ghost\n  blocked-by: ^phantom\n")
	res := sema.Check(doc, sema.Options{})
	expect(t, res.Warnings, "E302", "E302")
	if !strings.Contains(res.Warnings[0].Message, "^ghost") || res.Warnings[0].Suggestion == "" {
		t.Fatalf("warning = %+v", res.Warnings[0])
	}
}

func TestCycles(t *testing.T) {
	src := strings.Join([]string{
		"[ ] a ^a",
		"  depends: ^b",
		"[ ] b ^b",
		"  depends: ^c",
		"[ ] c ^c",
		"  blocked-by: ^a",
		"[ ] self ^s",
		"  depends: ^s",
	}, "\n")
	res := sema.Check(parseDoc(t, src), sema.Options{})
	expect(t, res.Errors, "E303", "E303")
	if res.Errors[0].Message != "circular dependency: ^a -> ^b -> ^c -> ^a" {
		t.Fatalf("message = %q", res.Errors[0].Message)
	}
	if res.Errors[0].Line != 5 {
		t.Fatalf("cycle reported on line %d, want 5", res.Errors[0].Line)
	}
	if res.Errors[1].Message != "circular dependency: ^s -> ^s" {
		t.Fatalf("message = %q", res.Errors[1].Message)
	}
}

func TestCalendarDates(t *testing.T) {
	doc := parseDoc(t, "[ ] a !2025-02-30\n[ ] b !2024-02-29\n[ ] c !2025-13-01\n")
	res := sema.Check(doc, sema.Options{})
	expect(t, res.Errors, "E304", "E304")
	if res.Errors[0].Line != 1 || res.Errors[1].Line != 3 {
		t.Fatalf("lines: %d %d", res.Errors[0].Line, res.Errors[1].Line)
	}
}

func TestUnknownDirectives(t *testing.T) {
	doc := parseDoc(t, "@project X\n@zeta 1\n@color blue\n[ ] a\n")
	res := sema.Check(doc, sema.Options{})
	expect(t, res.Warnings, "E300", "E300")
	if res.Warnings[0].Message != "unknown directive '@color'" || res.Warnings[0].Line != 3 {
		t.Fatalf("warning = %+v", res.Warnings[0])
	}

	res = sema.Check(doc, sema.Options{KnownDirectives: []string{"zeta", "color"}})
	expect(t, res.Warnings)
}

func TestUnknownViewType(t *testing.T) {
	res := sema.Check(parseDoc(t, "---view:spiral\n"), sema.Options{})
	expect(t, res.Warnings, "E307")
	res = sema.Check(parseDoc(t, "---view:gantt\n"), sema.Options{})
	expect(t, res.Warnings)
}

func TestContextJSON(t *testing.T) {
	res := sema.Check(parseDoc(t, "---context\n{\"a\": 1,}\n---\n"), sema.Options{})
	expect(t, res.Warnings, "E400")

	// free text is a legitimate raw context
	res = sema.Check(parseDoc(t, "---context\nplain notes\n---\n"), sema.Options{})
	expect(t, res.Warnings)

	res = sema.Check(parseDoc(t, "---handoff\nfrom: a\ncontext: {broken\n---\n"), sema.Options{})
	expect(t, res.Warnings, "E400")
}

const contextSchema = `{
  "type": "object",
  "required": ["sprint"],
  "properties": {
    "sprint": {"type": "integer", "minimum": 1},
    "goal": {"type": "string"}
  }
}`

func TestContextSchema(t *testing.T) {
	schema, err := sema.CompileSchema("mem://context.schema.json", contextSchema)
	if err != nil {
		t.Fatal(err)
	}
	ok := parseDoc(t, "---context\n{\"sprint\": 3, \"goal\": \"ship\"}\n---\n")
	expect(t, sema.Check(ok, sema.Options{ContextSchema: schema}).Errors)

	bad := parseDoc(t, "---context\n{\"sprint\": 0, \"goal\": 7}\n---\n")
	res := sema.Check(bad, sema.Options{ContextSchema: schema})
	expect(t, res.Errors, "E306", "E306")
	joined := res.Errors[0].Message + res.Errors[1].Message
	if !strings.Contains(joined, "/sprint") || !strings.Contains(joined, "/goal") {
		t.Fatalf("messages = %q", joined)
	}
}

func TestLoadSchemaFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ctx.json")
	if err := os.WriteFile(path, []byte(contextSchema), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := sema.LoadSchema(path); err != nil {
		t.Fatalf("LoadSchema: %v", err)
	}

	_, err := sema.LoadSchema(filepath.Join(dir, "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing schema")
	}
	d := sema.SchemaLoadDiagnostic("missing.json", err)
	if d.Code != diag.InterSchemaLoad || !strings.HasPrefix(d.Message, "cannot load schema 'missing.json'") {
		t.Fatalf("diagnostic = %+v", d)
	}
}

func TestNilDocument(t *testing.T) {
	if res := sema.Check(nil, sema.Options{}); res.HasErrors() || len(res.Warnings) != 0 {
		t.Fatal("nil document must be a no-op")
	}
}
