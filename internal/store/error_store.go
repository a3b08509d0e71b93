package store

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/formulacalc/internal/stream"
)

// ErrorStore collects failures reported by the other stores and fans them
// out to whoever is subscribed at that moment. Errors are not replayed.
type ErrorStore struct {
	errors *stream.Publisher[error]
	logger *zap.Logger
}

// NewErrorStore returns an empty ErrorStore.
func NewErrorStore(opts ...Option) *ErrorStore {
	o := applyOptions(opts)
	return &ErrorStore{
		errors: stream.NewPublisher[error](),
		logger: o.logger.Named("errors"),
	}
}

// Report publishes err to the current subscribers. Nil errors are ignored.
func (s *ErrorStore) Report(err error) {
	if err == nil {
		return
	}
	s.logger.Info("error reported", zap.Error(err))
	s.errors.Publish(err)
}

// Errors returns the push-only stream of reported errors.
func (s *ErrorStore) Errors() stream.Observable[error] {
	return s.errors
}
