package model

import "time"

// Assignment status values. An assignment starts out pending and
// transitions exactly once, to either accepted or rejected. Neither
// terminal status ever transitions again.
const (
	AssignmentPending  = "pending"
	AssignmentAccepted = "accepted"
	AssignmentRejected = "rejected"
)

// Assignment records one user delegating a task to another. It
// references the template task by id; the task itself is only copied
// when the assignee accepts.
type Assignment struct {
	// ID is the unique identifier for this assignment.
	ID string `json:"id" db:"id"`

	// TaskID references the template task being delegated.
	// The template is never mutated by the response workflow.
	TaskID string `json:"task_id" db:"task_id"`

	// AssignedBy is the user who created the delegation.
	AssignedBy string `json:"assigned_by" db:"assigned_by"`

	// AssignedTo is the user expected to respond. Always distinct
	// from AssignedBy.
	AssignedTo string `json:"assigned_to" db:"assigned_to"`

	// Status is one of the Assignment* constants.
	Status string `json:"status" db:"status"`

	// RejectionReason is the free-text reason recorded when the
	// assignee rejects. Empty otherwise.
	RejectionReason string `json:"rejection_reason,omitempty" db:"rejection_reason"`

	// CreatedAt is when the assignment was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is when the assignment last changed, i.e. creation
	// or the single status transition.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Pending reports whether the assignment still awaits a response.
func (a Assignment) Pending() bool {
	return a.Status == AssignmentPending
}
