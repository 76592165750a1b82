package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"taskml/internal/ast"
)

type treeNode struct {
	label    string
	children []*treeNode
}

func (n *treeNode) add(label string, children ...*treeNode) *treeNode {
	c := &treeNode{label: label, children: children}
	n.children = append(n.children, c)
	return c
}

func (n *treeNode) addf(format string, args ...any) *treeNode {
	return n.add(fmt.Sprintf(format, args...))
}

// FormatDocumentTree печатает документ в виде дерева:
//
//	Document v1.0
//	├─ Directives
//	│  └─ project = Demo
//	└─ Task[0] [x] Write tests (line 3)
//	   └─ ID: t1
func FormatDocumentTree(w io.Writer, doc *ast.Document) error {
	if doc == nil {
		return fmt.Errorf("document is nil")
	}
	root := buildDocumentNode(doc)
	if _, err := fmt.Fprintln(w, root.label); err != nil {
		return err
	}
	var sb strings.Builder
	writeChildren(&sb, root, "")
	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatDocumentJSON выводит документ в JSON формате.
func FormatDocumentJSON(w io.Writer, doc *ast.Document) error {
	if doc == nil {
		return fmt.Errorf("document is nil")
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func writeChildren(sb *strings.Builder, node *treeNode, prefix string) {
	for i, child := range node.children {
		isLast := i == len(node.children)-1
		branch, next := "├─ ", "│  "
		if isLast {
			branch, next = "└─ ", "   "
		}
		sb.WriteString(prefix)
		sb.WriteString(branch)
		sb.WriteString(child.label)
		sb.WriteByte('\n')
		writeChildren(sb, child, prefix+next)
	}
}

func buildDocumentNode(doc *ast.Document) *treeNode {
	root := &treeNode{label: "Document v" + doc.Version}

	if len(doc.Directives) > 0 {
		dirs := root.add("Directives")
		for _, name := range slices.Sorted(maps.Keys(doc.Directives)) {
			dirs.addf("%s = %s", name, doc.Directives[name])
		}
	}
	if len(doc.Includes) > 0 {
		inc := root.add("Includes")
		for _, path := range doc.Includes {
			inc.add(path)
		}
	}
	if doc.View != nil {
		view := root.addf("View: %s (line %d)", doc.View.Type, doc.View.Line)
		for _, k := range slices.Sorted(maps.Keys(doc.View.Options)) {
			view.addf("%s = %s", k, doc.View.Options[k])
		}
	}
	if ac := doc.AgentContext; ac != nil {
		node := root.addf("AgentContext (line %d)", ac.Line)
		if ac.Agent != "" {
			node.addf("Agent: %s", ac.Agent)
		}
		if ac.AgentID != "" {
			node.addf("AgentID: %s", ac.AgentID)
		}
		addData(node, ac.Data)
	}
	if h := doc.Handoff; h != nil {
		node := root.addf("Handoff (line %d)", h.Line)
		if h.From != "" {
			node.addf("From: %s", h.From)
		}
		if h.To != "" {
			node.addf("To: %s", h.To)
		}
		if h.Reason != "" {
			node.addf("Reason: %s", h.Reason)
		}
		if h.Context != nil {
			addData(node, h.Context)
		} else if h.RawContext != "" {
			node.addf("Context: %q", h.RawContext)
		}
	}

	for i, t := range doc.Tasks {
		root.children = append(root.children, buildTaskNode(t, i))
	}
	for _, s := range doc.Sections {
		sec := root.addf("Section %q (level %d, line %d)", s.Title, s.Level, s.Line)
		for i, t := range s.Tasks {
			sec.children = append(sec.children, buildTaskNode(t, i))
		}
	}
	if len(doc.Comments) > 0 {
		comments := root.add("Comments")
		for _, c := range doc.Comments {
			comments.addf("%d: %s", c.Line, c.Text)
		}
	}
	return root
}

func buildTaskNode(t *ast.Task, idx int) *treeNode {
	node := &treeNode{label: fmt.Sprintf("Task[%d] %s %s (line %d)", idx, t.Status.Marker(), t.Description, t.Line)}
	if t.ID != "" {
		node.addf("ID: %s", t.ID)
	}
	if t.Priority != nil {
		node.addf("Priority: p%d", *t.Priority)
	}
	if t.Estimate != "" {
		node.addf("Estimate: %s", t.Estimate)
	}
	if t.Assignee != "" {
		node.addf("Assignee: %s", t.Assignee)
	}
	if len(t.Tags) > 0 {
		node.addf("Tags: %s", strings.Join(t.Tags, ", "))
	}
	if t.Due != "" {
		node.addf("Due: %s", t.Due)
	}
	if len(t.DependsOn) > 0 {
		node.addf("DependsOn: %s", strings.Join(t.DependsOn, ", "))
	}
	if len(t.BlockedBy) > 0 {
		node.addf("BlockedBy: %s", strings.Join(t.BlockedBy, ", "))
	}
	for _, c := range t.Criteria {
		crit := node.addf("Criterion %s %s (line %d)", c.Status.Marker(), c.Description, c.Line)
		if c.Evidence != "" {
			crit.addf("Evidence: %s", strings.ReplaceAll(c.Evidence, "\n", " / "))
		}
	}
	for _, n := range t.Notes {
		node.addf("Note: %s", n)
	}
	for i, sub := range t.Subtasks {
		node.children = append(node.children, buildTaskNode(sub, i))
	}
	return node
}

func addData(node *treeNode, data map[string]any) {
	if len(data) == 0 {
		return
	}
	d := node.add("Data")
	for _, k := range slices.Sorted(maps.Keys(data)) {
		v, err := json.Marshal(data[k])
		if err != nil {
			d.addf("%s: %v", k, data[k])
			continue
		}
		d.addf("%s: %s", k, v)
	}
}
