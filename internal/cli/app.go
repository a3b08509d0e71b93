package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/formulacalc/internal/sqlite"
	"github.com/mesh-intelligence/formulacalc/internal/store"
	"github.com/mesh-intelligence/formulacalc/internal/stream"
	"github.com/mesh-intelligence/formulacalc/internal/viewmodel"
)

// app is the attached database plus the stores and helpers a command uses.
// Errors reported by stores are printed in red as they arrive and collected
// so the command can fail once it is done.
type app struct {
	cfg     *settings
	out     io.Writer
	logger  *zap.Logger
	backend *sqlite.Backend
	errs    *store.ErrorStore
	factory *store.Factory
	loc     *viewmodel.Localizer

	reported []error
	errSub   stream.Subscription
}

// openApp attaches the backend described by cfg. The caller must call close.
func openApp(cfg *settings, out, errOut io.Writer) (*app, error) {
	logger := newLogger(cfg.verbose, errOut)
	backend := sqlite.NewBackend(logger)
	if err := backend.Attach(cfg.dbConfig()); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	a := &app{
		cfg:     cfg,
		out:     out,
		logger:  logger,
		backend: backend,
		errs:    store.NewErrorStore(store.WithLogger(logger)),
		loc:     viewmodel.NewLocalizer(viewmodel.ParseLocale(cfg.locale)),
	}
	a.factory = store.NewFactory(backend, a.errs, store.WithLogger(logger))

	red := color.New(color.FgRed)
	a.errSub = a.errs.Errors().Subscribe(func(err error) {
		a.reported = append(a.reported, err)
		red.Fprintln(errOut, "Error:", err)
	})
	return a, nil
}

// newLogger returns a production-style logger writing to w, at debug level
// when verbose and warnings only otherwise.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

// err returns the first error reported since the app was opened, marked so
// that it is not printed a second time.
func (a *app) err() error {
	if len(a.reported) == 0 {
		return nil
	}
	return &reportedError{err: a.reported[0]}
}

func (a *app) close() error {
	a.errSub.Dispose()
	err := a.backend.Detach()
	_ = a.logger.Sync()
	return err
}

// printJSON writes v as indented JSON.
func (a *app) printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Fprintln(a.out, string(out))
	return nil
}

// reportedError wraps an error that was already printed when reported.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// withApp opens the app, runs fn, and fails with the first reported error.
func withApp(cfg *settings, out, errOut io.Writer, fn func(a *app) error) (err error) {
	a, err := openApp(cfg, out, errOut)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	if err := fn(a); err != nil {
		return err
	}
	return a.err()
}

func isReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}
