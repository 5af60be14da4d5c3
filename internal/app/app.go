// Package app wires the delegation subsystem together from its
// configuration: the SQLite store, the change feed, the workflow
// orchestrator, and the live sync listener.
package app

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/nhle/task-delegation/internal/delegation"
	"github.com/nhle/task-delegation/internal/feed"
	"github.com/nhle/task-delegation/internal/model"
	"github.com/nhle/task-delegation/internal/store"
	appsync "github.com/nhle/task-delegation/internal/sync"
)

// App holds the composed subsystem. Components created through it
// share one store and one change feed, so a write made through any
// orchestrator reaches every listener.
type App struct {
	cfg    *model.AppConfig
	store  *store.SQLiteStore
	broker *feed.Broker
	logger *log.Logger
}

// Open builds the subsystem from cfg. The database file's parent
// directory is created if needed. A nil logger is passed through to
// the components, which treat it as "discard".
func Open(cfg *model.AppConfig, logger *log.Logger) (*App, error) {
	dir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
	}

	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	b := feed.NewBroker()
	s.PublishTo(b)

	return &App{
		cfg:    cfg,
		store:  s,
		broker: b,
		logger: logger,
	}, nil
}

// Store exposes the shared store for direct reads and writes.
func (a *App) Store() *store.SQLiteStore {
	return a.store
}

// Broker exposes the shared change feed.
func (a *App) Broker() *feed.Broker {
	return a.broker
}

// Orchestrator returns a delegation orchestrator for the given
// session, honoring the notification preference from the
// configuration.
func (a *App) Orchestrator(session delegation.Session) *delegation.Orchestrator {
	o := delegation.New(a.store, session, a.logger)
	o.SetNotificationsEnabled(a.cfg.Notifications.Enabled)
	return o
}

// Listener returns a live sync listener for the given user, tuned by
// the sync section of the configuration. The caller owns Start and
// Stop.
func (a *App) Listener(userID string) *appsync.Listener {
	return appsync.New(a.store, a.broker, userID, a.cfg.Sync, a.logger)
}

// Close shuts the subsystem down: the feed first, so in-flight
// deliveries drain before the store goes away.
func (a *App) Close() error {
	a.broker.Close()
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	return nil
}
