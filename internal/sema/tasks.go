package sema

import (
	"strings"
	"time"

	"taskml/internal/ast"
	"taskml/internal/diag"
)

func (c *checker) collectIDs() {
	ast.Walk(c.doc, func(t *ast.Task, _ int) bool {
		if t.ID == "" {
			return true
		}
		if first, dup := c.ids[t.ID]; dup {
			c.errorf(diag.SemaDuplicateTaskID, t.Line, t.ID, first.Line)
			return true
		}
		c.ids[t.ID] = t
		return true
	})
}

func (c *checker) checkDependencies() {
	ast.Walk(c.doc, func(t *ast.Task, _ int) bool {
		for _, list := range [][]string{t.DependsOn, t.BlockedBy} {
			for _, id := range list {
				if _, ok := c.ids[id]; !ok {
					c.warnf(diag.SemaUnresolvedDependency, t.Line, id)
				}
			}
		}
		return true
	})
}

const (
	white = iota
	grey
	black
)

// checkCycles reports each dependency cycle once, at the task where the
// depth-first search closes it.
func (c *checker) checkCycles() {
	color := make(map[string]int, len(c.ids))
	var stack []string

	var visit func(id string)
	visit = func(id string) {
		color[id] = grey
		stack = append(stack, id)
		t := c.ids[id]
		for _, list := range [][]string{t.DependsOn, t.BlockedBy} {
			for _, dep := range list {
				if _, ok := c.ids[dep]; !ok {
					continue
				}
				switch color[dep] {
				case white:
					visit(dep)
				case grey:
					c.errorf(diag.SemaCircularDependency, t.Line, cyclePath(stack, dep))
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
	}

	// обход в порядке объявления, чтобы сообщения были детерминированы
	ast.Walk(c.doc, func(t *ast.Task, _ int) bool {
		if t.ID != "" && c.ids[t.ID] == t && color[t.ID] == white {
			visit(t.ID)
		}
		return true
	})
}

func cyclePath(stack []string, back string) string {
	start := 0
	for i, id := range stack {
		if id == back {
			start = i
			break
		}
	}
	parts := make([]string, 0, len(stack)-start+1)
	for _, id := range stack[start:] {
		parts = append(parts, "^"+id)
	}
	parts = append(parts, "^"+back)
	return strings.Join(parts, " -> ")
}

func (c *checker) checkDates() {
	ast.Walk(c.doc, func(t *ast.Task, _ int) bool {
		if t.Due == "" {
			return true
		}
		if _, err := time.Parse(time.DateOnly, t.Due); err != nil {
			c.errorf(diag.SemaInvalidDueDate, t.Line, t.Due)
		}
		return true
	})
}
