// Package sqlite implements the embedded sheet database on SQLite.
//
// A Backend owns one *sql.DB and the set of registered change observers.
// Realms opened from it share the connection; every commit through a realm
// refreshes the observers before Write returns.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// Backend implements types.Backend using SQLite.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *zap.Logger

	notifyMu   sync.Mutex
	observers  map[uint64]*observer
	nextID     uint64
	delivering bool
	dirty      bool
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
// A nil logger disables logging.
func NewBackend(logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{
		logger:    logger.Named("sqlite"),
		observers: make(map[uint64]*observer),
	}
}

// Attach opens the database described by config.
// Creates DataDir if it does not exist and creates the schema if missing;
// existing sheets are kept.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dsn := ":memory:"
	if !config.InMemory {
		dataDir := config.DataDir
		if dataDir == "" {
			dataDir = "."
		}
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}
		dsn = filepath.Join(dataDir, types.DatabaseFileName)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dsn, err)
	}
	// One connection keeps :memory: databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.attached = true
	b.logger.Debug("attached", zap.String("dsn", dsn))
	return nil
}

// Detach releases all resources held by the backend.
// Closes the SQLite connection and stops every notification token.
// After Detach, Open returns an error wrapping ErrDatabase.
// Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	b.notifyMu.Lock()
	for id, o := range b.observers {
		o.stopped.Store(true)
		delete(b.observers, id)
	}
	b.notifyMu.Unlock()

	err := b.db.Close()
	b.db = nil
	b.attached = false
	b.logger.Debug("detached")
	return err
}

// Open returns a new realm handle on the attached database.
func (b *Backend) Open() (types.Realm, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, fmt.Errorf("open realm: %w", types.ErrDatabase)
	}
	return &realm{backend: b}, nil
}

// Config returns the configuration the backend was attached with.
func (b *Backend) Config() types.Config {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config
}

// Refresh re-polls every observer and delivers what changed since the last
// delivery, including commits made by other processes sharing the file.
func (b *Backend) Refresh() {
	b.notify()
}

// read runs fn against the database under the read lock.
func (b *Backend) read(fn func(q querier) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return fmt.Errorf("read: %w", types.ErrDatabase)
	}
	return fn(b.db)
}

// write runs fn in one transaction. It reports whether the transaction
// committed any mutation.
func (b *Backend) write(fn func(tx *writeTx) error) (changed bool, err error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return false, fmt.Errorf("write: %w", types.ErrDatabase)
	}

	sqlTx, err := b.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			sqlTx.Rollback()
		}
	}()

	wtx := &writeTx{tx: sqlTx}
	if err := fn(wtx); err != nil {
		return false, err
	}
	if err := sqlTx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	committed = true
	return wtx.changed, nil
}
