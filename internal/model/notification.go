package model

import "time"

// NotificationType tags the event a notification describes.
type NotificationType string

const (
	// NotificationTaskAssignment is sent to an assignee when a new
	// assignment is created for them.
	NotificationTaskAssignment NotificationType = "task_assignment"

	// NotificationTaskResponse is sent back to the assigner when an
	// assignee accepts or rejects.
	NotificationTaskResponse NotificationType = "task_response"
)

// Notification is an alert addressed to a single user about delegation
// activity. Notifications are append-only from the delegation
// subsystem's perspective; only the owning user marks them read.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id" db:"id"`

	// UserID is the recipient.
	UserID string `json:"user_id" db:"user_id"`

	// Type identifies the kind of event (use Notification* constants).
	Type NotificationType `json:"type" db:"type"`

	// Title is the short heading shown in list views.
	Title string `json:"title" db:"title"`

	// Message is the human-readable notification text.
	Message string `json:"message" db:"message"`

	// RelatedID points at the entity the notification concerns: the
	// assignment's task for a task_assignment, the assigner for a
	// task_response.
	RelatedID string `json:"related_id" db:"related_id"`

	// Read indicates whether the recipient has seen this notification.
	Read bool `json:"read" db:"read"`

	// CreatedAt is when this notification was generated.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
