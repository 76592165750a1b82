package token_test

import (
	"testing"

	"taskml/internal/token"
)

func TestKindPredicates(t *testing.T) {
	statuses := []token.Kind{
		token.StatusPending, token.StatusInProgress, token.StatusCompleted,
		token.StatusBlocked, token.StatusCancelled, token.StatusReview,
	}
	for _, k := range statuses {
		if !k.IsStatus() {
			t.Errorf("%v should be a status", k)
		}
		if k.IsCriterion() || k.IsMetadata() {
			t.Errorf("%v must not be criterion/metadata", k)
		}
	}
	for _, k := range []token.Kind{token.CriterionPending, token.CriterionVerified, token.CriterionFailed} {
		if !k.IsCriterion() {
			t.Errorf("%v should be a criterion", k)
		}
	}
	for _, k := range []token.Kind{token.Priority, token.Tag, token.Estimate, token.DueDate, token.TaskID, token.Assignee} {
		if !k.IsMetadata() {
			t.Errorf("%v should be metadata", k)
		}
	}
	if token.Text.IsMetadata() || token.Text.IsStatus() {
		t.Fatalf("Text must be plain")
	}
}

func TestKindStringCoversAllKinds(t *testing.T) {
	for k := token.Invalid; k <= token.Text; k++ {
		if s := k.String(); s == "" || s == "Kind(?)" {
			t.Errorf("kind %d has no name", k)
		}
	}
}

func TestLookupKeyword(t *testing.T) {
	for _, kw := range token.Keywords() {
		if _, ok := token.LookupKeyword(kw); !ok {
			t.Errorf("LookupKeyword(%q) = !ok", kw)
		}
	}
	for _, s := range []string{"depends", "Depends:", "blocked_by:", "evidence :"} {
		if _, ok := token.LookupKeyword(s); ok {
			t.Errorf("LookupKeyword(%q) must fail", s)
		}
	}
}
