// Package delegation implements the task delegation workflow: fanning
// an assignment out to a set of assignees, and applying the accept or
// reject response with its side effects (task replication and
// counter-notification).
package delegation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/nhle/task-delegation/internal/identity"
	"github.com/nhle/task-delegation/internal/model"
	"github.com/nhle/task-delegation/internal/store"
)

// Orchestrator coordinates the delegation workflows on top of the
// store. It holds no state of its own; every call resolves the caller
// through the session.
type Orchestrator struct {
	store    store.Store
	resolver *identity.Resolver
	session  Session
	logger   *log.Logger
	notify   bool
}

// New returns an Orchestrator over s for the given session. A nil
// logger discards the best-effort failure log. Notifications are
// written by default; see SetNotificationsEnabled.
func New(s store.Store, session Session, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Orchestrator{
		store:    s,
		resolver: identity.NewResolver(s),
		session:  session,
		logger:   logger,
		notify:   true,
	}
}

// SetNotificationsEnabled toggles the notification writes that Assign
// and Respond perform. With notifications off the workflows run
// unchanged, they just write no notification rows.
func (o *Orchestrator) SetNotificationsEnabled(enabled bool) {
	o.notify = enabled
}

// AssignInput describes one assign call: the template task and the
// assignees to fan out to. The assignee list may be empty (a no-op)
// and is not deduplicated; each entry produces its own attempt.
type AssignInput struct {
	TaskID    string
	Assignees []identity.Identifier

	// Message is optional free text included in each assignee's
	// notification.
	Message string
}

// SkippedAssignee records one assignee the fan-out could not serve and
// why.
type SkippedAssignee struct {
	Identifier identity.Identifier
	Reason     string
}

// AssignResult summarizes a fan-out. Partial failure is the normal
// case: some assignees succeed, some are skipped, and some succeeded
// assignments may be missing their notification.
type AssignResult struct {
	// Created holds the successfully created assignments, in attempt
	// order.
	Created []model.Assignment

	// Skipped holds the assignees that produced no assignment.
	Skipped []SkippedAssignee

	// NotifyFailed counts assignments that were created but whose
	// assignee notification could not be written.
	NotifyFailed int
}

// Summary returns the caller-facing one-liner, e.g. "assigned to 2 of 3".
func (r *AssignResult) Summary() string {
	total := len(r.Created) + len(r.Skipped)
	return fmt.Sprintf("assigned to %d of %d", len(r.Created), total)
}

// Assign fans the template task out to each assignee in turn. Each
// attempt is independent: an unresolvable assignee is skipped and
// reported, a store failure skips that assignee, and a notification
// failure leaves the assignment standing. The call itself only fails
// when there is no caller or the template task cannot be read.
func (o *Orchestrator) Assign(ctx context.Context, in AssignInput) (*AssignResult, error) {
	callerID, err := o.session.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	task, err := o.store.GetTaskByID(ctx, in.TaskID)
	if err != nil {
		return nil, fmt.Errorf("assigning task %s: %w", in.TaskID, err)
	}

	result := &AssignResult{}
	assignerName := o.displayName(ctx, callerID)

	for _, ident := range in.Assignees {
		assigneeID, err := o.resolver.Resolve(ctx, ident)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedAssignee{
				Identifier: ident,
				Reason:     "no such user",
			})
			continue
		}
		if assigneeID == callerID {
			result.Skipped = append(result.Skipped, SkippedAssignee{
				Identifier: ident,
				Reason:     "cannot assign a task to yourself",
			})
			continue
		}

		created, err := o.store.CreateAssignment(ctx, model.Assignment{
			TaskID:     task.ID,
			AssignedBy: callerID,
			AssignedTo: assigneeID,
		})
		if err != nil {
			o.logger.Printf("delegation: creating assignment for %s: %v", ident, err)
			result.Skipped = append(result.Skipped, SkippedAssignee{
				Identifier: ident,
				Reason:     "could not create assignment",
			})
			continue
		}
		result.Created = append(result.Created, created)

		if !o.notify {
			continue
		}
		message := fmt.Sprintf("%s assigned you the task %q.", assignerName, task.Title)
		if in.Message != "" {
			message += " " + in.Message
		}
		_, err = o.store.CreateNotification(ctx, model.Notification{
			UserID:    assigneeID,
			Type:      model.NotificationTaskAssignment,
			Title:     "New task assignment",
			Message:   message,
			RelatedID: task.ID,
		})
		if err != nil {
			// Best effort: the assignment stands without it.
			o.logger.Printf("delegation: notifying assignee %s: %v", assigneeID, err)
			result.NotifyFailed++
		}
	}

	return result, nil
}

// RespondInput describes one response to a pending assignment.
type RespondInput struct {
	AssignmentID string
	Accept       bool

	// Reason is optional free text, recorded only when rejecting.
	Reason string
}

// RespondResult reports the committed transition and which follow-up
// side effects landed. Once Status is set the transition is durable;
// the flags expose the recoverable degradations.
type RespondResult struct {
	// Status is the terminal status the assignment transitioned to.
	Status string

	// ReplicatedTaskID is the id of the assignee's new task copy.
	// Empty on reject, or when replication was skipped or failed.
	ReplicatedTaskID string

	// TaskMissing is set when the template task no longer exists, in
	// which case replication and the counter-notification are
	// skipped.
	TaskMissing bool

	// Notified reports whether the assigner's counter-notification
	// was written.
	Notified bool
}

// Respond applies the caller's accept or reject decision to a pending
// assignment. The status transition is the only fatal step; once it
// commits, replication and notification failures degrade the result
// instead of failing the call. A response against an assignment the
// caller is not the assignee of reports not found, without revealing
// whether the assignment exists.
func (o *Orchestrator) Respond(ctx context.Context, in RespondInput) (*RespondResult, error) {
	callerID, err := o.session.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	status := model.AssignmentRejected
	if in.Accept {
		status = model.AssignmentAccepted
	}

	rows, err := o.store.RespondToAssignment(ctx, in.AssignmentID, callerID, status, in.Reason)
	if err != nil {
		return nil, fmt.Errorf("responding to assignment %s: %w", in.AssignmentID, err)
	}
	if rows == 0 {
		return nil, o.explainZeroRows(ctx, in.AssignmentID, callerID)
	}

	result := &RespondResult{Status: status}

	a, err := o.store.GetAssignmentByID(ctx, in.AssignmentID)
	if err != nil {
		// The transition is committed; without the record we cannot
		// replicate or notify, but the call still succeeded.
		o.logger.Printf("delegation: reading assignment %s after response: %v", in.AssignmentID, err)
		return result, nil
	}

	task, err := o.store.GetTaskByID(ctx, a.TaskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			result.TaskMissing = true
		} else {
			o.logger.Printf("delegation: reading task %s after response: %v", a.TaskID, err)
		}
		return result, nil
	}

	if in.Accept {
		replica, err := o.store.CreateTask(ctx, model.ReplicaOf(*task, callerID, a.AssignedBy))
		if err != nil {
			o.logger.Printf("delegation: replicating task %s for %s: %v", task.ID, callerID, err)
		} else {
			result.ReplicatedTaskID = replica.ID
		}
	}

	if !o.notify {
		return result, nil
	}

	responderName := o.displayName(ctx, callerID)
	var title, message string
	if in.Accept {
		title = "Task assignment accepted"
		message = fmt.Sprintf("%s accepted the task %q.", responderName, task.Title)
	} else {
		title = "Task assignment declined"
		message = fmt.Sprintf("%s declined the task %q.", responderName, task.Title)
		if in.Reason != "" {
			message += fmt.Sprintf(" Reason: %s", in.Reason)
		}
	}
	_, err = o.store.CreateNotification(ctx, model.Notification{
		UserID:    a.AssignedBy,
		Type:      model.NotificationTaskResponse,
		Title:     title,
		Message:   message,
		RelatedID: a.AssignedBy,
	})
	if err != nil {
		o.logger.Printf("delegation: notifying assigner %s: %v", a.AssignedBy, err)
	} else {
		result.Notified = true
	}

	return result, nil
}

// ListForCaller re-lists every assignment the caller participates in,
// as assigner or assignee. It is idempotent and is the operation the
// live sync listener runs on every change event.
func (o *Orchestrator) ListForCaller(ctx context.Context) ([]model.Assignment, error) {
	callerID, err := o.session.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	return o.store.GetAssignments(ctx, store.AssignmentFilter{ParticipantID: callerID})
}

// explainZeroRows distinguishes the three reasons the conditional
// update can match nothing: the assignment does not exist, the caller
// is not its assignee, or it already left pending. The first two are
// deliberately indistinguishable to the caller.
func (o *Orchestrator) explainZeroRows(ctx context.Context, assignmentID, callerID string) error {
	a, err := o.store.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return fmt.Errorf("responding to assignment %s: %w", assignmentID, store.ErrNotFound)
	}
	if a.AssignedTo != callerID {
		return fmt.Errorf("responding to assignment %s: %w", assignmentID, store.ErrNotFound)
	}
	if a.Pending() {
		// Zero rows against a still-pending record means the record
		// changed between the update and this read. Report it the same
		// way as a missing record and let the caller retry.
		return fmt.Errorf("responding to assignment %s: %w", assignmentID, store.ErrNotFound)
	}
	return &InvalidStateError{AssignmentID: assignmentID, Status: a.Status}
}

// displayName returns the user's display name for notification text,
// falling back to the raw id when the account cannot be read.
func (o *Orchestrator) displayName(ctx context.Context, userID string) string {
	user, err := o.store.GetUserByID(ctx, userID)
	if err != nil || user.DisplayName == "" {
		return userID
	}
	return user.DisplayName
}
