package ast

import "fmt"

// Status is the lifecycle state of a task.
type Status uint8

const (
	StatusPending Status = iota
	StatusInProgress
	StatusCompleted
	StatusBlocked
	StatusCancelled
	StatusReview
)

var statusNames = [...]string{
	StatusPending:    "pending",
	StatusInProgress: "in_progress",
	StatusCompleted:  "completed",
	StatusBlocked:    "blocked",
	StatusCancelled:  "cancelled",
	StatusReview:     "review",
}

var statusMarkers = [...]string{
	StatusPending:    "[ ]",
	StatusInProgress: "[~]",
	StatusCompleted:  "[x]",
	StatusBlocked:    "[!]",
	StatusCancelled:  "[-]",
	StatusReview:     "[?]",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Marker returns the canonical source marker for s.
func (s Status) Marker() string {
	if int(s) < len(statusMarkers) {
		return statusMarkers[s]
	}
	return "[ ]"
}

// ParseStatus maps a status name back to its value.
func ParseStatus(name string) (Status, bool) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), true
		}
	}
	return StatusPending, false
}

func (s Status) MarshalText() ([]byte, error) {
	if int(s) >= len(statusNames) {
		return nil, fmt.Errorf("ast: invalid status %d", uint8(s))
	}
	return []byte(statusNames[s]), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	v, ok := ParseStatus(string(b))
	if !ok {
		return fmt.Errorf("ast: unknown status %q", b)
	}
	*s = v
	return nil
}

// CriterionStatus is the verification state of an acceptance criterion.
type CriterionStatus uint8

const (
	CriterionPending CriterionStatus = iota
	CriterionVerified
	CriterionFailed
)

var criterionNames = [...]string{
	CriterionPending:  "pending",
	CriterionVerified: "verified",
	CriterionFailed:   "failed",
}

func (s CriterionStatus) String() string {
	if int(s) < len(criterionNames) {
		return criterionNames[s]
	}
	return fmt.Sprintf("CriterionStatus(%d)", uint8(s))
}

// Marker returns the canonical source marker for s.
func (s CriterionStatus) Marker() string {
	switch s {
	case CriterionVerified:
		return "✓"
	case CriterionFailed:
		return "✗"
	default:
		return "○"
	}
}

func (s CriterionStatus) MarshalText() ([]byte, error) {
	if int(s) >= len(criterionNames) {
		return nil, fmt.Errorf("ast: invalid criterion status %d", uint8(s))
	}
	return []byte(criterionNames[s]), nil
}

func (s *CriterionStatus) UnmarshalText(b []byte) error {
	for i, n := range criterionNames {
		if n == string(b) {
			*s = CriterionStatus(i)
			return nil
		}
	}
	return fmt.Errorf("ast: unknown criterion status %q", b)
}
