package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

const defaultBufferSize = 1000

// Logger is a duck-typed interface satisfied by *slog.Logger.
// Use this interface instead of *slog.Logger to decouple from the concrete type.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config represents logging configuration.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	Modules map[string]string `toml:"modules"`
}

// moduleLogger is one cached module logger. The logger pointer never
// changes; Initialize swaps the handler behind it and SetLevels moves
// the level.
type moduleLogger struct {
	logger  *slog.Logger
	level   *slog.LevelVar
	handler *liveHandler
}

var (
	mutex       sync.RWMutex
	modules     = make(map[string]*moduleLogger)
	current     Config
	initialized bool
	globalLevel = &slog.LevelVar{}
	logBuffer   *RingBuffer
)

// Initialize sets up the logging system. Loggers created earlier are
// rebuilt in place with the configured format and outputs.
func Initialize(config Config) {
	mutex.Lock()
	defer mutex.Unlock()

	current = config
	initialized = true
	logBuffer = NewRingBuffer(defaultBufferSize)
	globalLevel.Set(levelOr(config.Level, slog.LevelInfo))

	for name, m := range modules {
		m.level.Set(moduleLevel(name))
		m.handler.swap(moduleHandler(name, config.Format, m.level))
	}

	slog.SetDefault(slog.New(createHandler(config.Format, globalLevel)))
}

// SetLevels applies new global and per-module levels to every logger,
// including ones already handed out. Format changes need a restart.
func SetLevels(level string, moduleLevels map[string]string) {
	mutex.Lock()
	defer mutex.Unlock()

	current.Level = level
	current.Modules = moduleLevels
	globalLevel.Set(levelOr(level, slog.LevelInfo))

	for name, m := range modules {
		m.level.Set(moduleLevel(name))
	}
}

// GetLogger returns the logger for module, creating it on first use.
func GetLogger(module string) *slog.Logger {
	mutex.RLock()
	m, ok := modules[module]
	mutex.RUnlock()
	if ok {
		return m.logger
	}

	mutex.Lock()
	defer mutex.Unlock()
	if m, ok := modules[module]; ok {
		return m.logger
	}

	level := &slog.LevelVar{}
	level.Set(moduleLevel(module))

	format := "text"
	if initialized {
		format = current.Format
	}

	h := &liveHandler{}
	h.swap(moduleHandler(module, format, level))

	m = &moduleLogger{logger: slog.New(h), level: level, handler: h}
	modules[module] = m
	return m.logger
}

// GetBuffer returns the log ring buffer, nil before Initialize.
func GetBuffer() *RingBuffer {
	mutex.RLock()
	defer mutex.RUnlock()
	return logBuffer
}

// moduleLevel resolves module's level from the current config. Callers
// hold mutex.
func moduleLevel(module string) slog.Level {
	if !initialized {
		return slog.LevelInfo
	}
	return levelOr(current.Modules[module], levelOr(current.Level, slog.LevelInfo))
}

func moduleHandler(module, format string, level slog.Leveler) slog.Handler {
	return createHandler(format, level).WithAttrs([]slog.Attr{slog.String("module", module)})
}

// createHandler builds the output chain: stdout when something is attached
// to it, the journal when running under systemd, and always the ring
// buffer behind /api/logs.
func createHandler(format string, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	var stdoutHandler slog.Handler
	if format == "json" {
		stdoutHandler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		stdoutHandler = slog.NewTextHandler(os.Stdout, opts)
	}

	var handlers []slog.Handler
	if isStdoutAvailable() {
		handlers = append(handlers, stdoutHandler)
	}
	if IsJournalAvailable() {
		handlers = append(handlers, NewJournalHandler(level))
	}
	// The buffer handler checks for the ring buffer per record
	handlers = append(handlers, NewBufferHandler(level))

	return NewMultiHandler(handlers...)
}

// isStdoutAvailable checks if stdout is connected to a terminal, pipe, socket, or file.
func isStdoutAvailable() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	mode := fi.Mode()
	// Available if terminal, pipe, socket, or regular file (not /dev/null which is ModeDevice)
	return (mode&os.ModeCharDevice) != 0 || (mode&os.ModeNamedPipe) != 0 || (mode&os.ModeSocket) != 0 || mode.IsRegular()
}

// parseLevel converts a level name to slog.Level.
func parseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}

func levelOr(level string, fallback slog.Level) slog.Level {
	if l, ok := parseLevel(level); ok {
		return l
	}
	return fallback
}

// liveHandler forwards to a handler that can be replaced after loggers
// have been handed out.
type liveHandler struct {
	current atomic.Pointer[slog.Handler]
}

func (h *liveHandler) swap(next slog.Handler) {
	h.current.Store(&next)
}

func (h *liveHandler) load() slog.Handler {
	return *h.current.Load()
}

// Enabled implements slog.Handler.
func (h *liveHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.load().Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *liveHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.load().Handle(ctx, r)
}

// WithAttrs implements slog.Handler. Derived handlers are bound to the
// handler current at the time of the call.
func (h *liveHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.load().WithAttrs(attrs)
}

// WithGroup implements slog.Handler.
func (h *liveHandler) WithGroup(name string) slog.Handler {
	return h.load().WithGroup(name)
}
