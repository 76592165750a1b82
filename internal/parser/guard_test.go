package parser

import (
	"errors"
	"testing"

	"taskml/internal/diag"
	"taskml/internal/token"
)

func TestRunGuardedRecovers(t *testing.T) {
	if err := runGuarded(func() {}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	err := runGuarded(func() { panic("boom") })
	if err == nil || err.Error() != "boom" {
		t.Fatalf("err = %v", err)
	}
	sentinel := errors.New("sentinel")
	if err := runGuarded(func() { panic(sentinel) }); !errors.Is(err, sentinel) {
		t.Fatalf("err = %v", err)
	}
}

func TestOrderTracker(t *testing.T) {
	o := orderTracker{enabled: true}
	seq := []token.Kind{token.Text, token.Priority, token.Tag, token.Estimate, token.TaskID, token.Text}
	var bad []token.Kind
	for _, k := range seq {
		if before, ok := o.check(token.Token{Kind: k}); ok {
			bad = append(bad, k, before)
		}
	}
	want := []token.Kind{token.Estimate, token.Tag, token.Text, token.TaskID}
	if len(bad) != len(want) {
		t.Fatalf("violations = %v", bad)
	}
	for i := range want {
		if bad[i] != want[i] {
			t.Fatalf("violations = %v, want %v", bad, want)
		}
	}
}

func TestDescribe(t *testing.T) {
	cases := map[string]token.Token{
		"'hello'":     {Kind: token.Text, Value: " hello "},
		"tag":         {Kind: token.Tag, Value: "x"},
		"end of file": {Kind: token.EOF},
		"criterion":   {Kind: token.CriterionVerified},
	}
	for want, tok := range cases {
		if got := describe(tok); got != want {
			t.Errorf("describe(%v) = %q, want %q", tok.Kind, got, want)
		}
	}
	d := diag.NewError(diag.SynMissingStatus, diag.Location{}, describe(token.Token{Kind: token.Text, Value: "x"}))
	if d.Message != "expected task status marker, found 'x'" {
		t.Fatalf("message = %q", d.Message)
	}
}
