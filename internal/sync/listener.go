// Package sync keeps a caller's view of their assignments consistent
// with the store. It does no diffing and no merging: any change event
// for the assignments table triggers a full re-list, and the store
// remains the single source of truth.
package sync

import (
	"context"
	"io"
	"log"
	gosync "sync"
	"time"

	"github.com/nhle/task-delegation/internal/feed"
	"github.com/nhle/task-delegation/internal/model"
	"github.com/nhle/task-delegation/internal/store"
)

// defaultRefreshTimeout caps a single re-list operation.
const defaultRefreshTimeout = 30 * time.Second

// Listener maintains one user's cached assignment list against the
// change feed. Create it with New, call Start once, and Stop exactly
// once from the owning scope when done; extra Stop calls are no-ops.
type Listener struct {
	store      store.AssignmentStore
	broker     *feed.Broker
	userID     string
	timeout    time.Duration
	feedBuffer int
	logger     *log.Logger

	// onChange, if set before Start, runs after every successful
	// re-list with a snapshot of the new list.
	onChange func([]model.Assignment)

	mu          gosync.Mutex
	assignments []model.Assignment
	sub         *feed.Subscription
	refreshCh   chan struct{}
	stopCh      chan struct{}
	running     bool
}

// New creates a Listener for the given user, tuned by cfg. A nil
// logger discards refresh-failure logging; zero config values use the
// defaults.
func New(s store.AssignmentStore, b *feed.Broker, userID string, cfg model.SyncConfig, logger *log.Logger) *Listener {
	timeout := time.Duration(cfg.RefreshTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = defaultRefreshTimeout
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Listener{
		store:      s,
		broker:     b,
		userID:     userID,
		timeout:    timeout,
		feedBuffer: cfg.FeedBufferSize,
		logger:     logger,
		// Capacity 1: a trigger arriving mid-refresh is kept, any
		// further ones coalesce into it. The follow-up re-list always
		// observes the final state, so coalescing never loses a
		// terminal status.
		refreshCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// OnChange registers a callback invoked after every successful
// re-list. Must be set before Start.
func (l *Listener) OnChange(fn func([]model.Assignment)) {
	l.onChange = fn
}

// Start subscribes to the assignments change feed, performs an initial
// re-list, and begins refreshing on every event. Calling Start on a
// running listener is a no-op.
func (l *Listener) Start() {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return
	}
	l.running = true
	stopCh := make(chan struct{})
	l.stopCh = stopCh
	l.mu.Unlock()

	sub := l.broker.Subscribe(store.TableAssignments, l.feedBuffer, func(feed.Event) {
		l.Refresh()
	})
	l.mu.Lock()
	l.sub = sub
	l.mu.Unlock()

	go l.run(stopCh)
	l.Refresh()
}

// Stop unsubscribes from the feed and halts the refresh loop.
func (l *Listener) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	sub := l.sub
	stopCh := l.stopCh
	l.mu.Unlock()

	if sub != nil {
		sub.Stop()
	}
	close(stopCh)
}

// Refresh requests a full re-list. It never blocks; requests arriving
// while a re-list is in flight coalesce into one follow-up pass.
func (l *Listener) Refresh() {
	select {
	case l.refreshCh <- struct{}{}:
	default:
	}
}

// Assignments returns a snapshot of the most recently listed
// assignments.
func (l *Listener) Assignments() []model.Assignment {
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := make([]model.Assignment, len(l.assignments))
	copy(snapshot, l.assignments)
	return snapshot
}

// run is the refresh loop.
func (l *Listener) run(stopCh <-chan struct{}) {
	for {
		select {
		case <-stopCh:
			return
		case <-l.refreshCh:
			l.relist()
		}
	}
}

// relist re-reads the caller's full assignment list from the store and
// replaces the cache. On error the previous cache stays; the next
// event triggers another attempt.
func (l *Listener) relist() {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	assignments, err := l.store.GetAssignments(ctx, store.AssignmentFilter{
		ParticipantID: l.userID,
	})
	if err != nil {
		l.logger.Printf("sync: re-listing assignments for %s: %v", l.userID, err)
		return
	}

	l.mu.Lock()
	l.assignments = assignments
	l.mu.Unlock()

	if l.onChange != nil {
		snapshot := make([]model.Assignment, len(assignments))
		copy(snapshot, assignments)
		l.onChange(snapshot)
	}
}
