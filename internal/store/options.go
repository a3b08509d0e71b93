package store

import (
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/formulacalc/internal/stream"
	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// Option configures a store.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger a store writes diagnostics to.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// databaseError makes sure err matches types.ErrDatabase.
func databaseError(op string, err error) error {
	if errors.Is(err, types.ErrDatabase) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, types.ErrDatabase, err)
}

// reporter wraps the ErrorReporter a store was built with. A nil reporter
// drops errors after logging them.
type reporter struct {
	errs   types.ErrorReporter
	logger *zap.Logger
}

func (r reporter) report(err error) {
	r.logger.Debug("command failed", zap.Error(err))
	if r.errs != nil {
		r.errs.Report(err)
	}
}

// seeder publishes change callbacks to a subject and lets a callback that
// fires before the initial value is seeded win over that stale value.
type seeder[T any] struct {
	subject *stream.Subject[T]
	fired   atomic.Bool
}

func (p *seeder[T]) publish(v T) {
	p.fired.Store(true)
	p.subject.Publish(v)
}

func (p *seeder[T]) seed(v T) {
	if !p.fired.Load() {
		p.subject.Publish(v)
	}
}
