package ast

// Task is one status line together with everything nested under it.
// Subtasks are owned; there are no parent pointers.
type Task struct {
	Status      Status   `json:"status" msgpack:"status"`
	Description string   `json:"description" msgpack:"description"`
	ID          string   `json:"id,omitempty" msgpack:"id"`
	Priority    *int     `json:"priority,omitempty" msgpack:"priority"`
	Estimate    string   `json:"estimate,omitempty" msgpack:"estimate"`
	Assignee    string   `json:"assignee,omitempty" msgpack:"assignee"`
	Tags        []string `json:"tags,omitempty" msgpack:"tags"`
	Due         string   `json:"due,omitempty" msgpack:"due"`

	DependsOn []string `json:"depends_on,omitempty" msgpack:"depends_on"`
	BlockedBy []string `json:"blocked_by,omitempty" msgpack:"blocked_by"`

	Subtasks []*Task      `json:"subtasks,omitempty" msgpack:"subtasks"`
	Criteria []*Criterion `json:"criteria,omitempty" msgpack:"criteria"`
	Notes    []string     `json:"notes,omitempty" msgpack:"notes"`

	Line int `json:"line" msgpack:"line"`
}

// Criterion is an acceptance check attached to a task.
type Criterion struct {
	Status      CriterionStatus `json:"status" msgpack:"status"`
	Description string          `json:"description" msgpack:"description"`
	Evidence    string          `json:"evidence,omitempty" msgpack:"evidence"`
	Line        int             `json:"line" msgpack:"line"`
}

// HasTag reports whether the task carries tag.
func (t *Task) HasTag(tag string) bool {
	for _, x := range t.Tags {
		if x == tag {
			return true
		}
	}
	return false
}

// Done reports whether the task needs no further work.
func (t *Task) Done() bool {
	return t.Status == StatusCompleted || t.Status == StatusCancelled
}

// Progress counts completed tasks in the subtree rooted at t, including t.
// Cancelled tasks are excluded from both numbers.
func (t *Task) Progress() (done, total int) {
	if t.Status != StatusCancelled {
		total++
		if t.Status == StatusCompleted {
			done++
		}
	}
	for _, sub := range t.Subtasks {
		d, n := sub.Progress()
		done += d
		total += n
	}
	return done, total
}

// CriteriaProgress counts verified criteria of t.
func (t *Task) CriteriaProgress() (verified, total int) {
	for _, c := range t.Criteria {
		total++
		if c.Status == CriterionVerified {
			verified++
		}
	}
	return verified, total
}
