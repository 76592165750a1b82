package parser

import "taskml/internal/token"

// canonical order of inline task content
var orderRank = map[token.Kind]int{
	token.Text:     0,
	token.Priority: 1,
	token.Estimate: 2,
	token.Assignee: 3,
	token.Tag:      4,
	token.DueDate:  5,
	token.TaskID:   6,
}

// orderTracker remembers the highest-ranked token seen on a task line.
type orderTracker struct {
	enabled bool
	max     int
	maxKind token.Kind
}

// check reports the token that tok should have preceded, if any.
func (o *orderTracker) check(tok token.Token) (token.Kind, bool) {
	if !o.enabled {
		return token.Invalid, false
	}
	rank, ok := orderRank[tok.Kind]
	if !ok {
		return token.Invalid, false
	}
	if rank < o.max {
		return o.maxKind, true
	}
	o.max = rank
	o.maxKind = tok.Kind
	return token.Invalid, false
}
