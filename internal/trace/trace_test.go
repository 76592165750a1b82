package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, l := range []Level{LevelOff, LevelError, LevelPhase, LevelDetail, LevelDebug} {
		got, err := ParseLevel(l.String())
		if err != nil || got != l {
			t.Errorf("ParseLevel(%q) = %v, %v", l.String(), got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeCommand, false},
		{LevelError, ScopeCommand, false},
		{LevelPhase, ScopePhase, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%v.ShouldEmit(%v) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestStreamText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	root := Begin(tr, ScopeCommand, "check", 0)
	child := Begin(tr, ScopePhase, "parse", root.ID())
	child.WithExtra("tasks", "3").End("ok")
	Begin(tr, ScopeFile, "file:a.tm", root.ID()).End("")
	root.End("")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines (file scope filtered), got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "→ check") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[2], "  ← parse (ok) {tasks=3}") {
		t.Errorf("line 2 = %q", lines[2])
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeNode, "token", "Text", 0)

	var ev jsonEvent
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("invalid NDJSON: %v\n%s", err, buf.String())
	}
	if ev.Kind != "point" || ev.Scope != "node" || ev.Name != "token" || ev.Detail != "Text" || ev.Seq == 0 {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestRingWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopePhase, name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 events, got %d", len(snap))
	}
	for i, want := range []string{"c", "d", "e"} {
		if snap[i].Name != want {
			t.Errorf("snap[%d] = %q, want %q", i, snap[i].Name, want)
		}
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Errorf("dump:\n%s", buf.String())
	}
}

func TestNewByLevel(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("LevelOff should give disabled tracer: %v", err)
	}
	tr, err = New(Config{Level: LevelError})
	if err != nil || RingOf(tr) == nil {
		t.Fatalf("LevelError should keep a ring: %v", err)
	}
	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopePhase, "lex", 0).End("")
	if buf.Len() == 0 || len(RingOf(tr).Snapshot()) != 2 {
		t.Errorf("expected stream output and 2 ring events")
	}
}

func TestContextPropagation(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	ctx, outer := Start(ctx, ScopeCommand, "parse")
	if ParentID(ctx) != outer.ID() || outer.ID() == 0 {
		t.Fatalf("parent not stored: %d vs %d", ParentID(ctx), outer.ID())
	}
	_, inner := Start(ctx, ScopePhase, "lex")
	inner.End("")
	outer.End("")

	if FromContext(context.Background()) != Nop {
		t.Error("empty context should give Nop")
	}
	if !strings.Contains(buf.String(), `"parent_id":`) {
		t.Errorf("inner span should carry parent id:\n%s", buf.String())
	}
}

func TestNopSpan(t *testing.T) {
	s := Begin(Nop, ScopeCommand, "x", 0)
	if s.ID() != 0 {
		t.Error("nop span must have zero id")
	}
	s.WithExtra("k", "v")
	if s.End("") < 0 {
		t.Error("negative duration")
	}
}
