package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskml/internal/diag"
	"taskml/internal/driver"
	"taskml/internal/observ"
	"taskml/internal/token"
)

func codes(ds []diag.Diagnostic) string {
	ids := make([]string, len(ds))
	for i, d := range ds {
		ids[i] = d.Code.ID()
	}
	return strings.Join(ids, ",")
}

func TestParseStringBasic(t *testing.T) {
	res := driver.ParseString("[ ] Task #p0\n", driver.ParseOptions{})
	if !res.OK() {
		t.Fatalf("unexpected diagnostics: %s", codes(res.Errors))
	}
	if len(res.Document.Tasks) != 1 {
		t.Fatalf("tasks = %d", len(res.Document.Tasks))
	}
	task := res.Document.Tasks[0]
	if task.Description != "Task" || task.Priority == nil || *task.Priority != 0 {
		t.Errorf("unexpected task: %+v", task)
	}
	if n := len(res.Tokens); n == 0 || res.Tokens[n-1].Kind != token.EOF {
		t.Errorf("token stream must end with EOF")
	}
}

func TestParseStringStrictWarnsOnly(t *testing.T) {
	res := driver.ParseString("[ ] T ~2h #p0\n", driver.ParseOptions{Strict: true})
	if !res.OK() {
		t.Fatalf("strict mode must not reject: %s", codes(res.Errors))
	}
	if len(res.Warnings) == 0 || res.Warnings[0].Code != diag.SemaTokenOrder {
		t.Errorf("expected E305 warning, got %s", codes(res.Warnings))
	}
	if res.Document.Tasks[0].Estimate != "2h" {
		t.Errorf("estimate = %q", res.Document.Tasks[0].Estimate)
	}
}

func TestParseStringMergesAndSorts(t *testing.T) {
	res := driver.ParseString("x bad\n[ ] Ok ~3w\n", driver.ParseOptions{})
	if got := codes(res.Errors); got != "E200,E104" {
		t.Fatalf("errors = %s, want E200,E104", got)
	}
	if res.OK() {
		t.Error("result with errors must not be OK")
	}
	bag := res.Bag()
	if bag.Len() != 2 || bag.Items()[0].Line != 1 {
		t.Errorf("bag not sorted: %+v", bag.Items())
	}
}

func TestParseStringMaxDiagnostics(t *testing.T) {
	res := driver.ParseString("a\nb\nc\nd\n", driver.ParseOptions{MaxDiagnostics: 2})
	if len(res.Errors) != 2 {
		t.Fatalf("errors = %s", codes(res.Errors))
	}
}

func TestParseStringCheck(t *testing.T) {
	src := "[ ] a ^a\n[ ] b ^a\n  depends: ^ghost\n"

	plain := driver.ParseString(src, driver.ParseOptions{})
	if !plain.OK() || len(plain.Warnings) != 0 {
		t.Fatalf("semantic checks must be opt-in: %s / %s", codes(plain.Errors), codes(plain.Warnings))
	}

	checked := driver.ParseString(src, driver.ParseOptions{Check: true})
	if got := codes(checked.Errors); got != "E301" {
		t.Errorf("errors = %s", got)
	}
	if got := codes(checked.Warnings); got != "E302" {
		t.Errorf("warnings = %s", got)
	}
	if checked.Errors[0].Primary.File != checked.File.ID {
		t.Errorf("semantic diagnostic not attached to file")
	}
}

func TestParseStringKnownDirectives(t *testing.T) {
	src := "@milestone M1\n[ ] a\n"
	res := driver.ParseString(src, driver.ParseOptions{Check: true})
	if got := codes(res.Warnings); got != "E300" {
		t.Fatalf("warnings = %s", got)
	}
	res = driver.ParseString(src, driver.ParseOptions{Check: true, KnownDirectives: []string{"milestone"}})
	if len(res.Warnings) != 0 {
		t.Errorf("known directive still reported: %s", codes(res.Warnings))
	}
}

func TestParseStringTimer(t *testing.T) {
	timer := observ.NewTimer()
	driver.ParseString("[ ] a\n", driver.ParseOptions{Check: true, Timer: timer})
	var names []string
	for _, p := range timer.Phases() {
		names = append(names, p.Name)
	}
	if strings.Join(names, ",") != "lex,parse,check" {
		t.Errorf("phases = %v", names)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.tm")
	if err := os.WriteFile(path, []byte("@project Demo\n[x] done\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := driver.ParseFile(context.Background(), path, driver.ParseOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK() || res.Document.Project != "Demo" {
		t.Fatalf("unexpected result: %s %+v", codes(res.Errors), res.Document)
	}
	if res.File.Path == "" || res.FileSet.Len() != 1 {
		t.Errorf("file not registered")
	}

	if _, err := driver.ParseFile(context.Background(), filepath.Join(t.TempDir(), "missing.tm"), driver.ParseOptions{}); err == nil {
		t.Error("expected load error")
	}
}

func TestTokenizeString(t *testing.T) {
	res := driver.TokenizeString("[ ] a // note\n", true, 0)
	var comments int
	for _, tok := range res.Tokens {
		if tok.Kind == token.Comment {
			comments++
		}
	}
	if comments != 1 {
		t.Errorf("comments = %d", comments)
	}
	res = driver.TokenizeString("[ ] a ~5x\n", false, 0)
	if res.Bag.Len() != 1 || res.Bag.Items()[0].Code != diag.LexInvalidEstimate {
		t.Errorf("bag = %+v", res.Bag.Items())
	}
}
