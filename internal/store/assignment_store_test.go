package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nhle/task-delegation/internal/model"
	"github.com/nhle/task-delegation/internal/store"
	"github.com/nhle/task-delegation/tests/testutil"
)

func TestCreateAssignmentStartsPending(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, s, "Alice", "alice@example.com")
	bob := testutil.SeedUser(t, s, "Bob", "bob@example.com")
	task := testutil.SeedTask(t, s, alice, "Submit report")

	a, err := s.CreateAssignment(ctx, model.Assignment{
		TaskID:     task.ID,
		AssignedBy: alice,
		AssignedTo: bob,
		// Status is ignored on create.
		Status: model.AssignmentAccepted,
	})
	if err != nil {
		t.Fatalf("CreateAssignment failed: %v", err)
	}

	if a.ID == "" {
		t.Error("expected a generated assignment id")
	}
	if !a.Pending() {
		t.Errorf("expected status pending, got %q", a.Status)
	}
	if a.CreatedAt.IsZero() || a.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestCreateAssignmentRejectsSelfAssignment(t *testing.T) {
	s := testutil.NewTestStore(t)

	alice := testutil.SeedUser(t, s, "Alice", "alice@example.com")
	task := testutil.SeedTask(t, s, alice, "Submit report")

	_, err := s.CreateAssignment(context.Background(), model.Assignment{
		TaskID:     task.ID,
		AssignedBy: alice,
		AssignedTo: alice,
	})
	if err == nil {
		t.Fatal("expected error for assigner == assignee")
	}
}

func TestRespondToAssignmentRecordsRejectionReason(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, s, "Alice", "alice@example.com")
	bob := testutil.SeedUser(t, s, "Bob", "bob@example.com")
	task := testutil.SeedTask(t, s, alice, "Submit report")
	a := testutil.SeedAssignment(t, s, task.ID, alice, bob)

	rows, err := s.RespondToAssignment(ctx, a.ID, bob, model.AssignmentRejected, "busy")
	if err != nil {
		t.Fatalf("RespondToAssignment failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row affected, got %d", rows)
	}

	got, err := s.GetAssignmentByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAssignmentByID failed: %v", err)
	}
	if got.Status != model.AssignmentRejected {
		t.Errorf("expected status rejected, got %q", got.Status)
	}
	if got.RejectionReason != "busy" {
		t.Errorf("expected rejection reason %q, got %q", "busy", got.RejectionReason)
	}
	if got.UpdatedAt.Before(a.UpdatedAt) {
		t.Error("expected updated_at to advance on transition")
	}
}

func TestRespondToAssignmentClearsReasonOnAccept(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, s, "Alice", "alice@example.com")
	bob := testutil.SeedUser(t, s, "Bob", "bob@example.com")
	task := testutil.SeedTask(t, s, alice, "Submit report")
	a := testutil.SeedAssignment(t, s, task.ID, alice, bob)

	rows, err := s.RespondToAssignment(ctx, a.ID, bob, model.AssignmentAccepted, "ignored")
	if err != nil {
		t.Fatalf("RespondToAssignment failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row affected, got %d", rows)
	}

	got, err := s.GetAssignmentByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAssignmentByID failed: %v", err)
	}
	if got.Status != model.AssignmentAccepted {
		t.Errorf("expected status accepted, got %q", got.Status)
	}
	if got.RejectionReason != "" {
		t.Errorf("expected empty rejection reason, got %q", got.RejectionReason)
	}
}

func TestRespondToAssignmentIgnoresNonAssignee(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, s, "Alice", "alice@example.com")
	bob := testutil.SeedUser(t, s, "Bob", "bob@example.com")
	carol := testutil.SeedUser(t, s, "Carol", "carol@example.com")
	task := testutil.SeedTask(t, s, alice, "Submit report")
	a := testutil.SeedAssignment(t, s, task.ID, alice, bob)

	rows, err := s.RespondToAssignment(ctx, a.ID, carol, model.AssignmentAccepted, "")
	if err != nil {
		t.Fatalf("RespondToAssignment failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 rows affected for non-assignee, got %d", rows)
	}

	got, err := s.GetAssignmentByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAssignmentByID failed: %v", err)
	}
	if got.Status != model.AssignmentPending {
		t.Errorf("expected assignment to stay pending, got %q", got.Status)
	}
}

func TestRespondToAssignmentIsOneShot(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, s, "Alice", "alice@example.com")
	bob := testutil.SeedUser(t, s, "Bob", "bob@example.com")
	task := testutil.SeedTask(t, s, alice, "Submit report")
	a := testutil.SeedAssignment(t, s, task.ID, alice, bob)

	if _, err := s.RespondToAssignment(ctx, a.ID, bob, model.AssignmentAccepted, ""); err != nil {
		t.Fatalf("first response failed: %v", err)
	}

	// A replayed response matches zero rows and changes nothing.
	rows, err := s.RespondToAssignment(ctx, a.ID, bob, model.AssignmentRejected, "changed my mind")
	if err != nil {
		t.Fatalf("second response errored: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 rows affected on replay, got %d", rows)
	}

	got, err := s.GetAssignmentByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAssignmentByID failed: %v", err)
	}
	if got.Status != model.AssignmentAccepted {
		t.Errorf("expected status to stay accepted, got %q", got.Status)
	}
}

func TestRespondToAssignmentRejectsInvalidStatus(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.RespondToAssignment(context.Background(), "any", "any", model.AssignmentPending, "")
	if err == nil {
		t.Fatal("expected error for pending as a response status")
	}
}

func TestGetAssignmentsFiltersByParticipant(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, s, "Alice", "alice@example.com")
	bob := testutil.SeedUser(t, s, "Bob", "bob@example.com")
	carol := testutil.SeedUser(t, s, "Carol", "carol@example.com")
	task := testutil.SeedTask(t, s, alice, "Submit report")

	asAssigner := testutil.SeedAssignment(t, s, task.ID, alice, bob)
	asAssignee := testutil.SeedAssignment(t, s, task.ID, carol, alice)
	unrelated := testutil.SeedAssignment(t, s, task.ID, carol, bob)

	got, err := s.GetAssignments(ctx, store.AssignmentFilter{ParticipantID: alice})
	if err != nil {
		t.Fatalf("GetAssignments failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 assignments for alice, got %d", len(got))
	}
	for _, a := range got {
		if a.ID == unrelated.ID {
			t.Errorf("assignment %s does not involve alice", a.ID)
		}
		if a.ID != asAssigner.ID && a.ID != asAssignee.ID {
			t.Errorf("unexpected assignment %s", a.ID)
		}
	}
}

func TestGetAssignmentsFiltersByStatus(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, s, "Alice", "alice@example.com")
	bob := testutil.SeedUser(t, s, "Bob", "bob@example.com")
	task := testutil.SeedTask(t, s, alice, "Submit report")

	pending := testutil.SeedAssignment(t, s, task.ID, alice, bob)
	answered := testutil.SeedAssignment(t, s, task.ID, alice, bob)
	if _, err := s.RespondToAssignment(ctx, answered.ID, bob, model.AssignmentAccepted, ""); err != nil {
		t.Fatalf("responding: %v", err)
	}

	status := model.AssignmentPending
	got, err := s.GetAssignments(ctx, store.AssignmentFilter{
		ParticipantID: alice,
		Status:        &status,
	})
	if err != nil {
		t.Fatalf("GetAssignments failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != pending.ID {
		t.Fatalf("expected only the pending assignment, got %+v", got)
	}
}

func TestGetAssignmentByIDNotFound(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.GetAssignmentByID(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
