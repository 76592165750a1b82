package ast

// DefaultVersion is the document version assumed when no @version
// directive is present.
const DefaultVersion = "1.0"

// Document is the root of a parsed task file.
type Document struct {
	Version    string            `json:"version" msgpack:"version"`
	Project    string            `json:"project,omitempty" msgpack:"project"`
	Sprint     string            `json:"sprint,omitempty" msgpack:"sprint"`
	Author     string            `json:"author,omitempty" msgpack:"author"`
	Directives map[string]string `json:"directives" msgpack:"directives"`

	// DirectiveLines maps each directive name to the line it was last set on.
	DirectiveLines map[string]int `json:"-" msgpack:"directive_lines"`

	Tasks    []*Task    `json:"tasks" msgpack:"tasks"`
	Sections []*Section `json:"sections,omitempty" msgpack:"sections"`
	Includes []string   `json:"includes,omitempty" msgpack:"includes"`

	View         *ViewConfig   `json:"view,omitempty" msgpack:"view"`
	AgentContext *AgentContext `json:"agent_context,omitempty" msgpack:"agent_context"`
	Handoff      *HandoffInfo  `json:"handoff,omitempty" msgpack:"handoff"`
	Comments     []Comment     `json:"comments,omitempty" msgpack:"comments"`
}

// NewDocument returns an empty document with defaults applied.
func NewDocument() *Document {
	return &Document{
		Version:        DefaultVersion,
		Directives:     make(map[string]string),
		DirectiveLines: make(map[string]int),
		Tasks:          make([]*Task, 0),
	}
}

// Section groups the top-level tasks that follow a `== Title ==` header.
type Section struct {
	Title string  `json:"title" msgpack:"title"`
	Level int     `json:"level" msgpack:"level"`
	Tasks []*Task `json:"tasks" msgpack:"tasks"`
	Line  int     `json:"line" msgpack:"line"`
}

type ViewConfig struct {
	Type    string            `json:"type" msgpack:"type"`
	Options map[string]string `json:"options,omitempty" msgpack:"options"`
	Line    int               `json:"line" msgpack:"line"`
}

// AgentContext is the payload of a ---context block. Data holds the decoded
// JSON object; when decoding fails Data["raw"] and Raw keep the text.
type AgentContext struct {
	Agent   string         `json:"agent,omitempty" msgpack:"agent"`
	AgentID string         `json:"agent_id,omitempty" msgpack:"agent_id"`
	Data    map[string]any `json:"data,omitempty" msgpack:"data"`
	Raw     string         `json:"raw,omitempty" msgpack:"raw"`
	Line    int            `json:"line" msgpack:"line"`
}

type HandoffInfo struct {
	From       string         `json:"from,omitempty" msgpack:"from"`
	To         string         `json:"to,omitempty" msgpack:"to"`
	Reason     string         `json:"reason,omitempty" msgpack:"reason"`
	Context    map[string]any `json:"context,omitempty" msgpack:"context"`
	RawContext string         `json:"raw_context,omitempty" msgpack:"raw_context"`
	Line       int            `json:"line" msgpack:"line"`
}

type Comment struct {
	Text string `json:"text" msgpack:"text"`
	Line int    `json:"line" msgpack:"line"`
}

// Stats counts tasks per status across the whole document.
type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"by_status"`
	MaxDepth int            `json:"max_depth"`
}

// Stats walks every task once.
func (d *Document) Stats() Stats {
	st := Stats{ByStatus: make(map[Status]int)}
	Walk(d, func(t *Task, depth int) bool {
		st.Total++
		st.ByStatus[t.Status]++
		if depth > st.MaxDepth {
			st.MaxDepth = depth
		}
		return true
	})
	return st
}
