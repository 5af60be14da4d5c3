package store

import (
	"context"
	"errors"

	"github.com/nhle/task-delegation/internal/model"
)

// ErrNotFound is wrapped by store methods when the referenced record
// does not exist (or, for scoped updates, does not exist for the
// caller — the two cases are deliberately indistinguishable).
var ErrNotFound = errors.New("record not found")

// Table names as they appear on the change feed.
const (
	TableTasks         = "tasks"
	TableAssignments   = "assignments"
	TableNotifications = "notifications"
)

// TaskFilter controls filtering for task queries.
type TaskFilter struct {
	OwnerID   string // required: tasks are always listed per owner
	Completed *bool
	Category  *string
}

// AssignmentFilter controls filtering for assignment queries.
type AssignmentFilter struct {
	// ParticipantID matches assignments where the user is either the
	// assigner or the assignee.
	ParticipantID string
	Status        *string
}

// TaskStore persists tasks. Writes are scoped to the task's owner.
type TaskStore interface {
	CreateTask(ctx context.Context, task model.Task) (model.Task, error)
	GetTaskByID(ctx context.Context, id string) (*model.Task, error)
	UpdateTask(ctx context.Context, task model.Task) error
	GetTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error)
}

// AssignmentStore persists assignments. The status transition is a
// conditional update matching the assignee and the pending status; it
// is the subsystem's only concurrency control.
type AssignmentStore interface {
	CreateAssignment(ctx context.Context, a model.Assignment) (model.Assignment, error)
	GetAssignmentByID(ctx context.Context, id string) (*model.Assignment, error)
	RespondToAssignment(ctx context.Context, id, assigneeID, status, reason string) (int64, error)
	GetAssignments(ctx context.Context, filter AssignmentFilter) ([]model.Assignment, error)
}

// NotificationStore persists notifications. The delegation subsystem
// only creates them; reading and marking read belong to the suite's
// notification views.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error)
	GetUnreadNotifications(ctx context.Context, userID string) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}

// IdentityLookup resolves account identifiers.
type IdentityLookup interface {
	// FindUserIDByEmail returns the canonical user id for email, or
	// "" with a nil error when no account exists.
	FindUserIDByEmail(ctx context.Context, email string) (string, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// Store is the full persistence surface the delegation subsystem
// consumes.
type Store interface {
	TaskStore
	AssignmentStore
	NotificationStore
	IdentityLookup
}
