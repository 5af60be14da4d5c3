package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/task-delegation/internal/feed"
	"github.com/nhle/task-delegation/internal/model"
)

// CreateAssignment inserts a new assignment in the pending status and
// returns it with generated id and timestamps. The status field of the
// input is ignored; every assignment starts pending.
func (s *SQLiteStore) CreateAssignment(ctx context.Context, a model.Assignment) (model.Assignment, error) {
	if a.TaskID == "" {
		return model.Assignment{}, fmt.Errorf("assignment task id must not be empty")
	}
	if a.AssignedBy == "" || a.AssignedTo == "" {
		return model.Assignment{}, fmt.Errorf("assignment requires both assigner and assignee")
	}
	if a.AssignedBy == a.AssignedTo {
		return model.Assignment{}, fmt.Errorf("assigner and assignee must differ")
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.Status = model.AssignmentPending
	a.RejectionReason = ""
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assignments (
			id, task_id, assigned_by, assigned_to,
			status, rejection_reason, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.TaskID, a.AssignedBy, a.AssignedTo,
		a.Status, a.RejectionReason, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return model.Assignment{}, fmt.Errorf("creating assignment: %w", err)
	}

	s.publish(TableAssignments, feed.EventInsert, a.ID)
	return a, nil
}

// GetAssignmentByID retrieves a single assignment by ID.
func (s *SQLiteStore) GetAssignmentByID(ctx context.Context, id string) (*model.Assignment, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM assignments WHERE id = ?", id)

	a, err := scanAssignmentRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting assignment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting assignment %s: %w", id, err)
	}
	return &a, nil
}

// RespondToAssignment performs the one-shot status transition. The
// update only matches a row whose id, assignee, and pending status all
// agree, so a non-assignee or a replayed response affects zero rows;
// the returned count tells the caller which happened after a follow-up
// read. The rejection reason is recorded on reject and cleared on
// accept.
func (s *SQLiteStore) RespondToAssignment(ctx context.Context, id, assigneeID, status, reason string) (int64, error) {
	if status != model.AssignmentAccepted && status != model.AssignmentRejected {
		return 0, fmt.Errorf("invalid response status %q", status)
	}
	if status == model.AssignmentAccepted {
		reason = ""
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE assignments SET status = ?, rejection_reason = ?, updated_at = ?
		WHERE id = ? AND assigned_to = ? AND status = ?`,
		status, reason, time.Now().UTC(),
		id, assigneeID, model.AssignmentPending,
	)
	if err != nil {
		return 0, fmt.Errorf("responding to assignment %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("responding to assignment %s: %w", id, err)
	}
	if rows > 0 {
		s.publish(TableAssignments, feed.EventUpdate, id)
	}
	return rows, nil
}

// GetAssignments retrieves assignments where the participant is either
// the assigner or the assignee, newest first.
func (s *SQLiteStore) GetAssignments(ctx context.Context, filter AssignmentFilter) ([]model.Assignment, error) {
	if filter.ParticipantID == "" {
		return nil, fmt.Errorf("assignment filter requires a participant")
	}

	conditions := []string{"(assigned_by = ? OR assigned_to = ?)"}
	args := []interface{}{filter.ParticipantID, filter.ParticipantID}

	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *filter.Status)
	}

	query := "SELECT * FROM assignments WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY created_at DESC, id"

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}

// scanAssignment scans an assignment row from a sqlx.Rows result set.
func scanAssignment(rows *sqlx.Rows) (model.Assignment, error) {
	var a model.Assignment
	err := rows.Scan(
		&a.ID, &a.TaskID, &a.AssignedBy, &a.AssignedTo,
		&a.Status, &a.RejectionReason, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return model.Assignment{}, fmt.Errorf("scanning assignment row: %w", err)
	}
	return a, nil
}

// scanAssignmentRow scans a single assignment row from a sqlx.Row.
func scanAssignmentRow(row *sqlx.Row) (model.Assignment, error) {
	var a model.Assignment
	err := row.Scan(
		&a.ID, &a.TaskID, &a.AssignedBy, &a.AssignedTo,
		&a.Status, &a.RejectionReason, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return model.Assignment{}, err
	}
	return a, nil
}
