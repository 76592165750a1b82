package token

// Kind represents the category of a lexical token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the input.
	EOF
	// Newline ends a logical line.
	Newline
	// Indent opens a deeper nesting level.
	Indent
	// Dedent closes a nesting level.
	Dedent

	// Comment is a `//` comment, emitted only with PreserveComments.
	Comment
	// Directive is `@name value` at the start of a line.
	Directive
	// SectionHeader is `== Title ==`.
	SectionHeader

	// StatusPending is `[ ]`.
	StatusPending
	// StatusInProgress is `[~]`.
	StatusInProgress
	// StatusCompleted is `[x]` or `[X]`.
	StatusCompleted
	// StatusBlocked is `[!]`.
	StatusBlocked
	// StatusCancelled is `[-]`.
	StatusCancelled
	// StatusReview is `[?]`.
	StatusReview

	// CriterionPending is `○` or `[○]`.
	CriterionPending
	// CriterionVerified is `✓` or `[✓]`.
	CriterionVerified
	// CriterionFailed is `✗` or `[✗]`.
	CriterionFailed

	// Fence is a bare `---`.
	Fence
	// ViewFence is `---view:NAME`.
	ViewFence
	// ContextFence is `---context`.
	ContextFence
	// HandoffFence is `---handoff`.
	HandoffFence

	// NotePrefix is a leading `- `.
	NotePrefix
	Priority  // #p0..#p3
	Tag       // #word
	Estimate  // ~2h, ~3d
	DueDate   // !2025-01-31
	TaskID    // ^auth-1
	Assignee  // @alice
	Depends   // depends:
	BlockedBy // blocked-by:
	Evidence  // evidence:

	Colon  // :
	Equals // =
	Comma  // ,

	// Text is free prose.
	Text
)

var kindNames = [...]string{
	Invalid:           "Invalid",
	EOF:               "EOF",
	Newline:           "Newline",
	Indent:            "Indent",
	Dedent:            "Dedent",
	Comment:           "Comment",
	Directive:         "Directive",
	SectionHeader:     "SectionHeader",
	StatusPending:     "StatusPending",
	StatusInProgress:  "StatusInProgress",
	StatusCompleted:   "StatusCompleted",
	StatusBlocked:     "StatusBlocked",
	StatusCancelled:   "StatusCancelled",
	StatusReview:      "StatusReview",
	CriterionPending:  "CriterionPending",
	CriterionVerified: "CriterionVerified",
	CriterionFailed:   "CriterionFailed",
	Fence:             "Fence",
	ViewFence:         "ViewFence",
	ContextFence:      "ContextFence",
	HandoffFence:      "HandoffFence",
	NotePrefix:        "NotePrefix",
	Priority:          "Priority",
	Tag:               "Tag",
	Estimate:          "Estimate",
	DueDate:           "DueDate",
	TaskID:            "TaskID",
	Assignee:          "Assignee",
	Depends:           "Depends",
	BlockedBy:         "BlockedBy",
	Evidence:          "Evidence",
	Colon:             "Colon",
	Equals:            "Equals",
	Comma:             "Comma",
	Text:              "Text",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsEOF reports whether k terminates the stream.
func (k Kind) IsEOF() bool { return k == EOF }

// IsStatus reports whether k is one of the six task status markers.
func (k Kind) IsStatus() bool {
	switch k {
	case StatusPending, StatusInProgress, StatusCompleted, StatusBlocked, StatusCancelled, StatusReview:
		return true
	default:
		return false
	}
}

// IsCriterion reports whether k is a criterion marker.
func (k Kind) IsCriterion() bool {
	switch k {
	case CriterionPending, CriterionVerified, CriterionFailed:
		return true
	default:
		return false
	}
}

// IsMetadata reports whether k is inline task metadata.
func (k Kind) IsMetadata() bool {
	switch k {
	case Priority, Tag, Estimate, DueDate, TaskID, Assignee:
		return true
	default:
		return false
	}
}

// IsFence reports whether k opens or closes a fenced block.
func (k Kind) IsFence() bool {
	switch k {
	case Fence, ViewFence, ContextFence, HandoffFence:
		return true
	default:
		return false
	}
}
