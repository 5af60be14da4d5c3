package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/task-delegation/internal/model"
	"github.com/nhle/task-delegation/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// SeedUser creates a user account and returns its id.
func SeedUser(t *testing.T, s *store.SQLiteStore, name, email string) string {
	t.Helper()

	user, err := s.CreateUser(context.Background(), model.User{
		DisplayName: name,
		Email:       email,
	})
	if err != nil {
		t.Fatalf("seeding user %s: %v", email, err)
	}
	return user.ID
}

// SeedTask creates a task owned by ownerID and returns it.
func SeedTask(t *testing.T, s *store.SQLiteStore, ownerID, title string) model.Task {
	t.Helper()

	now := time.Now().UTC()
	task, err := s.CreateTask(context.Background(), model.Task{
		Title:       title,
		Description: "seeded for testing",
		StartTime:   now,
		EndTime:     now.Add(time.Hour),
		Priority:    model.PriorityMedium,
		Category:    "work",
		OwnerID:     ownerID,
	})
	if err != nil {
		t.Fatalf("seeding task %q: %v", title, err)
	}
	return task
}

// SeedAssignment creates a pending assignment and returns it.
func SeedAssignment(t *testing.T, s *store.SQLiteStore, taskID, assignerID, assigneeID string) model.Assignment {
	t.Helper()

	a, err := s.CreateAssignment(context.Background(), model.Assignment{
		TaskID:     taskID,
		AssignedBy: assignerID,
		AssignedTo: assigneeID,
	})
	if err != nil {
		t.Fatalf("seeding assignment: %v", err)
	}
	return a
}
