package sema

import (
	"slices"

	"taskml/internal/diag"
)

// builtinDirectives are the directive names understood without
// configuration.
var builtinDirectives = []string{
	"project", "sprint", "version", "author",
	"agent", "agent-id", "include",
	"title", "description", "date", "owner", "team",
}

// KnownViewTypes lists the view names render engines accept.
var KnownViewTypes = []string{"list", "board", "kanban", "timeline", "gantt", "graph", "table"}

func (c *checker) checkDirectives() {
	names := make([]string, 0, len(c.doc.Directives))
	for name := range c.doc.Directives {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if slices.Contains(builtinDirectives, name) || slices.Contains(c.opts.KnownDirectives, name) {
			continue
		}
		c.warnf(diag.SemaUnknownDirective, c.doc.DirectiveLines[name], name)
	}
}

func (c *checker) checkView() {
	v := c.doc.View
	if v == nil || slices.Contains(KnownViewTypes, v.Type) {
		return
	}
	c.warnf(diag.SemaUnknownViewType, v.Line, v.Type)
}
