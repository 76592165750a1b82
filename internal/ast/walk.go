package ast

// Visitor is called for every task with its nesting depth (0 for top-level
// tasks). Returning false skips the task's subtasks.
type Visitor func(t *Task, depth int) bool

// Walk visits root tasks, then the tasks of each section, pre-order.
func Walk(d *Document, fn Visitor) {
	if d == nil {
		return
	}
	for _, t := range d.Tasks {
		walkTask(t, 0, fn)
	}
	for _, s := range d.Sections {
		for _, t := range s.Tasks {
			walkTask(t, 0, fn)
		}
	}
}

// WalkTask visits t and its subtree starting at depth.
func WalkTask(t *Task, depth int, fn Visitor) {
	walkTask(t, depth, fn)
}

func walkTask(t *Task, depth int, fn Visitor) {
	if t == nil || !fn(t, depth) {
		return
	}
	for _, sub := range t.Subtasks {
		walkTask(sub, depth+1, fn)
	}
}

// AllTasks returns every task of the document in visit order.
func (d *Document) AllTasks() []*Task {
	var out []*Task
	Walk(d, func(t *Task, _ int) bool {
		out = append(out, t)
		return true
	})
	return out
}

// FindTask returns the first task declared with id, or nil.
func (d *Document) FindTask(id string) *Task {
	var found *Task
	Walk(d, func(t *Task, _ int) bool {
		if found != nil {
			return false
		}
		if t.ID == id {
			found = t
			return false
		}
		return true
	})
	return found
}
