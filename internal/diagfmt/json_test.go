package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"taskml/internal/diag"
	"taskml/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	bag, fs := testBag(t)

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 2 || output.Errors != 1 || output.Warnings != 1 {
		t.Fatalf("unexpected counts: %+v", output)
	}

	first := output.Diagnostics[0]
	if first.Severity != "error" || first.Code != "E200" {
		t.Errorf("unexpected first diagnostic: %+v", first)
	}
	if first.Title != diag.SynMissingStatus.Title() {
		t.Errorf("title = %q", first.Title)
	}
	if first.Location.File != "sprint.tm" {
		t.Errorf("file = %q", first.Location.File)
	}
	if first.Location.Line != 2 || first.Location.Column != 1 || first.Location.Length != 1 {
		t.Errorf("position = %+v", first.Location)
	}
	if first.Location.StartByte != 14 || first.Location.EndByte != 15 {
		t.Errorf("bytes = %d-%d", first.Location.StartByte, first.Location.EndByte)
	}
	if first.Suggestion == "" {
		t.Error("expected suggestion to be carried over")
	}
}

func TestJSONWithoutPositions(t *testing.T) {
	bag, fs := testBag(t)
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	if out.Diagnostics[0].Location.Line != 0 {
		t.Errorf("line should be omitted, got %d", out.Diagnostics[0].Location.Line)
	}

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), `"line"`) {
		t.Errorf("line key should be omitted:\n%s", buf.String())
	}
}

func TestJSONMax(t *testing.T) {
	bag, fs := testBag(t)
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", out.Count)
	}
	if out.Warnings != 0 {
		t.Errorf("truncated warnings must not be counted")
	}
}

func TestJSONNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("dup.tm", []byte("[ ] A ^a\n[ ] B ^a\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SemaDuplicateTaskID, diag.Location{Line: 2, Column: 1, Span: source.Span{File: id}}, "a", 1).
		WithNote(diag.Location{Line: 1, Column: 1, Span: source.Span{File: id}}, "first declared here"))

	without := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	if len(without.Diagnostics[0].Notes) != 0 {
		t.Error("notes must be excluded by default")
	}
	with := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludeNotes: true, IncludePositions: true})
	notes := with.Diagnostics[0].Notes
	if len(notes) != 1 || notes[0].Message != "first declared here" || notes[0].Location.Line != 1 {
		t.Errorf("unexpected notes: %+v", notes)
	}
}
