package glvk

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false, so callers skip
// building attributes.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var (
	silent    = slog.New(nopHandler{})
	pkgLogger atomic.Pointer[slog.Logger]
)

func init() {
	pkgLogger.Store(silent)
}

// SetLogger configures the package-wide logger. Devices created with
// WithLogger use their own logger instead.
// By default, glvk produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore the default
// silent behavior.
//
// Log levels used by glvk:
//   - [slog.LevelDebug]: command application, resource creation and destruction
//   - [slog.LevelInfo]: device creation (adapter name and type)
//   - [slog.LevelWarn]: recording errors, backend faults, failed submissions
//
// Example:
//
//	glvk.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	pkgLogger.Store(l)
}

// Logger returns the current package-wide logger.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return pkgLogger.Load()
}
