package models

import "time"

// DefaultCategory is assigned when a task is added without a category
const DefaultCategory = "General"

// Task represents a single todo item belonging to one user.
// The JSON field names are the persisted snapshot format and must not change.
type Task struct {
	ID          int        `json:"Id"`
	UserID      int        `json:"UserId"`
	Title       string     `json:"Title"`
	IsCompleted bool       `json:"IsCompleted"`
	Category    string     `json:"Category"`
	Priority    Priority   `json:"Priority"`
	DueDate     *time.Time `json:"DueDate,omitempty"`
}

// Clone returns an independent copy of the task.
func (t Task) Clone() Task {
	out := t
	if t.DueDate != nil {
		due := *t.DueDate
		out.DueDate = &due
	}
	return out
}
