// Package debug configures operator facing logging and renders failures with
// hints on how to fix them.
package debug

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

type DebugLevel int

const (
	LevelOff DebugLevel = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

func (dl DebugLevel) String() string {
	switch dl {
	case LevelOff:
		return "OFF"
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

func isValidDebugLevel(level DebugLevel) bool {
	return level >= LevelOff && level <= LevelTrace
}

// ParseLevel accepts the level names in any case.
func ParseLevel(s string) (DebugLevel, error) {
	for level := LevelOff; level <= LevelTrace; level++ {
		if strings.EqualFold(s, level.String()) {
			return level, nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown debug level %q", s)
}

// FromVerbosity raises base by one level per -v flag, capped at LevelTrace.
func FromVerbosity(base DebugLevel, count int) DebugLevel {
	level := base + DebugLevel(count)
	if level > LevelTrace {
		return LevelTrace
	}
	return level
}

// DebugMode owns the logger handed to builders and stores.
type DebugMode struct {
	level  DebugLevel
	output io.Writer
	logger *slog.Logger
	mu     sync.RWMutex
}

type DebugOption func(*DebugMode)

func WithLevel(level DebugLevel) DebugOption {
	return func(dm *DebugMode) {
		if isValidDebugLevel(level) {
			dm.level = level
		} else {
			dm.level = LevelInfo
		}
	}
}

func WithOutput(output io.Writer) DebugOption {
	return func(dm *DebugMode) {
		dm.output = output
	}
}

func NewDebugMode(opts ...DebugOption) *DebugMode {
	dm := &DebugMode{
		level:  LevelInfo,
		output: os.Stderr,
	}

	for _, opt := range opts {
		opt(dm)
	}

	dm.setupLogger()
	return dm
}

func (dm *DebugMode) setupLogger() {
	if dm.level == LevelOff {
		dm.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return
	}

	opts := &slog.HandlerOptions{
		Level:     dm.mapDebugLevelToSlogLevel(),
		AddSource: dm.level >= LevelTrace,
	}
	dm.logger = slog.New(slog.NewTextHandler(dm.output, opts))
}

func (dm *DebugMode) mapDebugLevelToSlogLevel() slog.Level {
	switch dm.level {
	case LevelError:
		return slog.LevelError
	case LevelWarn:
		return slog.LevelWarn
	case LevelInfo:
		return slog.LevelInfo
	case LevelDebug, LevelTrace:
		return slog.LevelDebug
	default:
		return slog.LevelError
	}
}

func (dm *DebugMode) Level() DebugLevel {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.level
}

func (dm *DebugMode) IsEnabled(level DebugLevel) bool {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.level != LevelOff && dm.level >= level
}

func (dm *DebugMode) SetLevel(level DebugLevel) error {
	if !isValidDebugLevel(level) {
		return fmt.Errorf("invalid debug level: %d (must be between %d and %d)",
			level, LevelOff, LevelTrace)
	}
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.level = level
	dm.setupLogger()
	return nil
}

func (dm *DebugMode) Logger() *slog.Logger {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.logger
}

// Trace logs at debug level, but only when tracing is enabled.
func (dm *DebugMode) Trace(msg string, args ...any) {
	if dm.IsEnabled(LevelTrace) {
		dm.Logger().Debug("[TRACE] "+msg, args...)
	}
}
