package sync_test

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/task-delegation/internal/feed"
	"github.com/nhle/task-delegation/internal/model"
	syncpkg "github.com/nhle/task-delegation/internal/sync"
	"github.com/nhle/task-delegation/tests/testutil"
)

// waitFor polls the listener's snapshot until cond holds or the
// deadline passes. Each onChange tick wakes it up early.
func waitFor(t *testing.T, ticks <-chan struct{}, l *syncpkg.Listener, cond func([]model.Assignment) bool) []model.Assignment {
	t.Helper()

	deadline := time.After(3 * time.Second)
	for {
		if snapshot := l.Assignments(); cond(snapshot) {
			return snapshot
		}
		select {
		case <-ticks:
		case <-time.After(20 * time.Millisecond):
		case <-deadline:
			t.Fatalf("timed out waiting for listener state, have %+v", l.Assignments())
		}
	}
}

func TestListenerReflectsNewAssignments(t *testing.T) {
	s := testutil.NewTestStore(t)
	b := feed.NewBroker()
	defer b.Close()
	s.PublishTo(b)

	alice := testutil.SeedUser(t, s, "Alice", "alice@example.com")
	bob := testutil.SeedUser(t, s, "Bob", "bob@example.com")
	task := testutil.SeedTask(t, s, alice, "Submit report")

	ticks := make(chan struct{}, 16)
	l := syncpkg.New(s, b, bob, model.SyncConfig{}, nil)
	l.OnChange(func([]model.Assignment) {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	l.Start()
	defer l.Stop()

	a := testutil.SeedAssignment(t, s, task.ID, alice, bob)

	got := waitFor(t, ticks, l, func(list []model.Assignment) bool {
		return len(list) == 1 && list[0].ID == a.ID
	})
	if got[0].Status != model.AssignmentPending {
		t.Errorf("expected pending assignment in snapshot, got %q", got[0].Status)
	}
}

func TestListenerConvergesOnBackToBackUpdates(t *testing.T) {
	s := testutil.NewTestStore(t)
	b := feed.NewBroker()
	defer b.Close()
	s.PublishTo(b)

	alice := testutil.SeedUser(t, s, "Alice", "alice@example.com")
	bob := testutil.SeedUser(t, s, "Bob", "bob@example.com")
	task := testutil.SeedTask(t, s, alice, "Submit report")

	first := testutil.SeedAssignment(t, s, task.ID, alice, bob)
	second := testutil.SeedAssignment(t, s, task.ID, alice, bob)

	ticks := make(chan struct{}, 16)
	l := syncpkg.New(s, b, bob, model.SyncConfig{}, nil)
	l.OnChange(func([]model.Assignment) {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	l.Start()
	defer l.Stop()

	// Two writes in quick succession; the listener may coalesce them
	// into a single re-list, but the final snapshot must hold both
	// terminal states.
	ctx := context.Background()
	if _, err := s.RespondToAssignment(ctx, first.ID, bob, model.AssignmentAccepted, ""); err != nil {
		t.Fatalf("responding to first: %v", err)
	}
	if _, err := s.RespondToAssignment(ctx, second.ID, bob, model.AssignmentRejected, "busy"); err != nil {
		t.Fatalf("responding to second: %v", err)
	}

	waitFor(t, ticks, l, func(list []model.Assignment) bool {
		byID := make(map[string]string, len(list))
		for _, a := range list {
			byID[a.ID] = a.Status
		}
		return byID[first.ID] == model.AssignmentAccepted &&
			byID[second.ID] == model.AssignmentRejected
	})
}

func TestListenerStopIsIdempotent(t *testing.T) {
	s := testutil.NewTestStore(t)
	b := feed.NewBroker()
	defer b.Close()
	s.PublishTo(b)

	bob := testutil.SeedUser(t, s, "Bob", "bob@example.com")

	l := syncpkg.New(s, b, bob, model.SyncConfig{}, nil)
	l.Start()
	l.Stop()
	l.Stop() // second call must be harmless
}

func TestListenerSnapshotIsACopy(t *testing.T) {
	s := testutil.NewTestStore(t)
	b := feed.NewBroker()
	defer b.Close()
	s.PublishTo(b)

	alice := testutil.SeedUser(t, s, "Alice", "alice@example.com")
	bob := testutil.SeedUser(t, s, "Bob", "bob@example.com")
	task := testutil.SeedTask(t, s, alice, "Submit report")

	ticks := make(chan struct{}, 16)
	l := syncpkg.New(s, b, bob, model.SyncConfig{}, nil)
	l.OnChange(func([]model.Assignment) {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	l.Start()
	defer l.Stop()

	a := testutil.SeedAssignment(t, s, task.ID, alice, bob)
	waitFor(t, ticks, l, func(list []model.Assignment) bool {
		return len(list) == 1
	})

	snapshot := l.Assignments()
	snapshot[0].Status = "tampered"

	fresh := l.Assignments()
	if fresh[0].Status != model.AssignmentPending {
		t.Errorf("mutating a snapshot leaked into the cache: %q", fresh[0].Status)
	}
	if fresh[0].ID != a.ID {
		t.Errorf("unexpected assignment %s", fresh[0].ID)
	}
}
