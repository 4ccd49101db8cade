package common

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gg"
)

// nopHandler is a slog.Handler that discards all records.
// Enabled returns false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// loggerPtr holds the active engine logger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by every engine package.
// By default the engine is silent. Passing nil restores the silent logger.
// The same logger is forwarded to the gg raster library.
//
// Log levels used by the engine:
//   - slog.LevelDebug: per-render timings, skipped optional steps
//   - slog.LevelWarn: degraded behavior (fallback camera, skipped pose sampling)
//   - slog.LevelError: missing assets, failed exports
//
// Parameters:
//   - l: the logger to install, or nil to disable logging
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
	gg.SetLogger(l)
}

// Logger returns the active engine logger. Never nil.
//
// Returns:
//   - *slog.Logger: the current logger
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// ParseLogLevel maps a config string (debug, info, warn, error) to a slog.Level.
// Unknown values map to slog.LevelInfo.
//
// Parameters:
//   - level: the level name
//
// Returns:
//   - slog.Level: the parsed level
func ParseLogLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
