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

// CreateTask inserts a new task and returns it with its generated id
// and timestamps filled in.
func (s *SQLiteStore) CreateTask(ctx context.Context, task model.Task) (model.Task, error) {
	if strings.TrimSpace(task.Title) == "" {
		return model.Task{}, fmt.Errorf("task title must not be empty")
	}
	if task.OwnerID == "" {
		return model.Task{}, fmt.Errorf("task owner must not be empty")
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if !model.ValidPriority(task.Priority) {
		task.Priority = model.PriorityMedium
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, title, description, start_time, end_time,
			priority, category, owner_id, completed, is_pinned,
			assigned_by, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, task.Description, task.StartTime.UTC(), task.EndTime.UTC(),
		task.Priority, task.Category, task.OwnerID,
		boolToInt(task.Completed), boolToInt(task.IsPinned),
		task.AssignedBy, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("creating task: %w", err)
	}

	s.publish(TableTasks, feed.EventInsert, task.ID)
	return task, nil
}

// GetTaskByID retrieves a single task by ID.
func (s *SQLiteStore) GetTaskByID(ctx context.Context, id string) (*model.Task, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM tasks WHERE id = ?", id)

	task, err := scanTaskRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	return &task, nil
}

// UpdateTask updates an existing task. The write is scoped to the
// task's owner: a mismatched owner affects zero rows and reports not
// found, same as a missing id.
func (s *SQLiteStore) UpdateTask(ctx context.Context, task model.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return fmt.Errorf("task title must not be empty")
	}
	if !model.ValidPriority(task.Priority) {
		return fmt.Errorf("invalid task priority %q", task.Priority)
	}
	task.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET
			title = ?, description = ?, start_time = ?, end_time = ?,
			priority = ?, category = ?, completed = ?, is_pinned = ?,
			updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		task.Title, task.Description, task.StartTime.UTC(), task.EndTime.UTC(),
		task.Priority, task.Category,
		boolToInt(task.Completed), boolToInt(task.IsPinned),
		task.UpdatedAt,
		task.ID, task.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", task.ID, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("updating task %s: %w", task.ID, ErrNotFound)
	}

	s.publish(TableTasks, feed.EventUpdate, task.ID)
	return nil
}

// GetTasks retrieves the owner's tasks matching the filter, pinned
// first, then most recently updated.
func (s *SQLiteStore) GetTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	if filter.OwnerID == "" {
		return nil, fmt.Errorf("task filter requires an owner")
	}

	conditions := []string{"owner_id = ?"}
	args := []interface{}{filter.OwnerID}

	if filter.Completed != nil {
		conditions = append(conditions, "completed = ?")
		args = append(args, boolToInt(*filter.Completed))
	}
	if filter.Category != nil {
		conditions = append(conditions, "category = ?")
		args = append(args, *filter.Category)
	}

	query := "SELECT * FROM tasks WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY is_pinned DESC, updated_at DESC"

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// scanTask scans a task row from a sqlx.Rows result set.
func scanTask(rows *sqlx.Rows) (model.Task, error) {
	var (
		task      model.Task
		completed int
		pinned    int
	)

	err := rows.Scan(
		&task.ID, &task.Title, &task.Description, &task.StartTime, &task.EndTime,
		&task.Priority, &task.Category, &task.OwnerID, &completed, &pinned,
		&task.AssignedBy, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("scanning task row: %w", err)
	}

	task.Completed = completed != 0
	task.IsPinned = pinned != 0
	return task, nil
}

// scanTaskRow scans a single task row from a sqlx.Row.
func scanTaskRow(row *sqlx.Row) (model.Task, error) {
	var (
		task      model.Task
		completed int
		pinned    int
	)

	err := row.Scan(
		&task.ID, &task.Title, &task.Description, &task.StartTime, &task.EndTime,
		&task.Priority, &task.Category, &task.OwnerID, &completed, &pinned,
		&task.AssignedBy, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, err
	}

	task.Completed = completed != 0
	task.IsPinned = pinned != 0
	return task, nil
}
