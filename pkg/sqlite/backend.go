// Package sqlite provides the public API for the SQLite sheet database.
// It exposes the factory functions while keeping the implementation internal.
package sqlite

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/formulacalc/internal/sqlite"
	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend(logger)
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: dataDir,
//	})
//	defer backend.Detach()
func NewBackend(logger *zap.Logger) types.Backend {
	return sqlite.NewBackend(logger)
}

// OpenInMemory returns an attached backend that keeps everything in memory.
// Useful for tests and previews.
func OpenInMemory(logger *zap.Logger) (types.Backend, error) {
	b := sqlite.NewBackend(logger)
	if err := b.Attach(types.Config{Backend: types.BackendSQLite, InMemory: true}); err != nil {
		return nil, err
	}
	return b, nil
}
