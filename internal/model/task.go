package model

import "time"

// Task priority levels.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidPriority reports whether p is one of the known priority levels.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task is a schedulable work item owned by exactly one user.
// Tasks are never shared between users; delegation copies them
// instead (see Assignment).
type Task struct {
	// ID is the unique identifier for this task.
	ID string `json:"id" db:"id"`

	// Title is the human-readable summary of the task.
	Title string `json:"title" db:"title"`

	// Description is the full body/description text.
	Description string `json:"description" db:"description"`

	// StartTime and EndTime bound the task's scheduled window.
	StartTime time.Time `json:"start_time" db:"start_time"`
	EndTime   time.Time `json:"end_time" db:"end_time"`

	// Priority is one of the Priority* constants.
	Priority string `json:"priority" db:"priority"`

	// Category is the user-defined grouping label.
	Category string `json:"category" db:"category"`

	// OwnerID is the user who owns this task. Ownership is exclusive.
	OwnerID string `json:"owner_id" db:"owner_id"`

	// Completed marks the task as done.
	Completed bool `json:"completed" db:"completed"`

	// IsPinned keeps the task at the top of list views.
	IsPinned bool `json:"is_pinned" db:"is_pinned"`

	// AssignedBy records the delegating user on a task that was
	// replicated from an accepted assignment. Empty for tasks the
	// owner created directly.
	AssignedBy string `json:"assigned_by,omitempty" db:"assigned_by"`

	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is when the task was last modified.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ReplicaOf returns an independent copy of template owned by ownerID,
// suitable for insertion as a brand-new task. The copy keeps the
// template's descriptive fields and scheduling window, starts out
// incomplete and un-pinned, and records assignerID for provenance.
// It carries no reference back to the template.
func ReplicaOf(template Task, ownerID, assignerID string) Task {
	return Task{
		Title:       template.Title,
		Description: template.Description,
		StartTime:   template.StartTime,
		EndTime:     template.EndTime,
		Priority:    template.Priority,
		Category:    template.Category,
		OwnerID:     ownerID,
		Completed:   false,
		IsPinned:    false,
		AssignedBy:  assignerID,
	}
}
