// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logbuf implements the application log: a bounded, in-memory ring
// of timestamped entries with level filtering and text export.
//
// A Logger is constructed once by the command that owns the process and is
// passed explicitly to every component that logs. When the buffer is full
// the oldest entries are dropped first.
package logbuf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// DefaultCapacity is the number of entries kept when no capacity is given.
const DefaultCapacity = 1000

// Level is the severity of an entry. Higher values are more severe.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// ParseLevel converts a level name (case-insensitive) into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q: use debug, info, warn, or error", s)
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Entry is one log record. Entries are never modified once stored.
type Entry struct {
	Level     Level
	Message   string
	Timestamp time.Time
	Context   map[string]any
	Err       error
	// Stack is the goroutine stack captured when Err was logged.
	Stack string
}

// Logger is a bounded, append-only log. It is safe for concurrent use.
type Logger struct {
	mu       sync.Mutex
	entries  []Entry // ring storage, len == capacity once full
	start    int     // index of the oldest entry
	size     int
	capacity int
	level    Level
	now      func() time.Time
	last     time.Time
	mirror   *slog.Logger
}

// Option configures a Logger.
type Option func(*Logger)

// WithCapacity sets the maximum number of retained entries.
// Values below 1 fall back to DefaultCapacity.
func WithCapacity(n int) Option {
	return func(l *Logger) {
		if n > 0 {
			l.capacity = n
		}
	}
}

// WithLevel sets the initial minimum severity.
func WithLevel(level Level) Option {
	return func(l *Logger) { l.level = level }
}

// WithMirror copies every stored entry to an slog.Logger.
func WithMirror(m *slog.Logger) Option {
	return func(l *Logger) { l.mirror = m }
}

// WithConsole mirrors stored entries as slog text records on w.
func WithConsole(w io.Writer) Option {
	return func(l *Logger) {
		l.mirror = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

// WithClock replaces the time source. Tests use it for deterministic output.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) { l.now = now }
}

// New creates a Logger with capacity DefaultCapacity and level LevelInfo
// unless overridden by opts.
func New(opts ...Option) *Logger {
	l := &Logger{
		capacity: DefaultCapacity,
		level:    LevelInfo,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.entries = make([]Entry, 0, min(l.capacity, 64))
	return l
}

// Discard returns a Logger that keeps a single entry and never mirrors.
// It is the zero-cost default for components constructed without a log.
func Discard() *Logger {
	return New(WithCapacity(1), WithLevel(LevelError+1))
}

// Capacity returns the maximum number of retained entries.
func (l *Logger) Capacity() int { return l.capacity }

// Level returns the current minimum severity.
func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetLevel changes the threshold for subsequent calls. Stored entries are
// not filtered retroactively.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// SetMirror replaces the slog mirror. nil stops mirroring.
func (l *Logger) SetMirror(m *slog.Logger) {
	l.mu.Lock()
	l.mirror = m
	l.mu.Unlock()
}

func (l *Logger) Debug(msg string, ctx map[string]any) { l.log(LevelDebug, msg, ctx, nil) }
func (l *Logger) Info(msg string, ctx map[string]any)  { l.log(LevelInfo, msg, ctx, nil) }
func (l *Logger) Warn(msg string, ctx map[string]any)  { l.log(LevelWarn, msg, ctx, nil) }

// Error logs at LevelError. err may be nil.
func (l *Logger) Error(msg string, ctx map[string]any, err error) {
	l.log(LevelError, msg, ctx, err)
}

func (l *Logger) log(level Level, msg string, ctx map[string]any, err error) {
	l.mu.Lock()
	if level < l.level {
		l.mu.Unlock()
		return
	}

	// Timestamps never go backwards, even if the wall clock does.
	ts := l.now()
	if ts.Before(l.last) {
		ts = l.last
	}
	l.last = ts

	e := Entry{
		Level:     level,
		Message:   msg,
		Timestamp: ts,
		Context:   copyContext(ctx),
		Err:       err,
	}
	if err != nil {
		e.Stack = string(debug.Stack())
	}
	l.append(e)
	mirror := l.mirror
	l.mu.Unlock()

	if mirror != nil {
		attrs := make([]any, 0, len(ctx)*2+2)
		for k, v := range ctx {
			attrs = append(attrs, slog.Any(k, v))
		}
		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
		}
		mirror.Log(context.Background(), level.slogLevel(), msg, attrs...)
	}
}

// append stores e, evicting the oldest entry when full. Caller holds mu.
func (l *Logger) append(e Entry) {
	if len(l.entries) < l.capacity {
		l.entries = append(l.entries, e)
		l.size++
		return
	}
	l.entries[l.start] = e
	l.start = (l.start + 1) % l.capacity
}

// Len returns the number of stored entries.
func (l *Logger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

// Logs returns a copy of the stored entries, oldest first. With a minimum
// level only entries at or above it are returned.
func (l *Logger) Logs(minLevel ...Level) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, 0, l.size)
	for i := 0; i < l.size; i++ {
		e := l.entries[(l.start+i)%len(l.entries)]
		if len(minLevel) > 0 && e.Level < minLevel[0] {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Clear removes every stored entry.
func (l *Logger) Clear() {
	l.mu.Lock()
	l.entries = l.entries[:0]
	l.start = 0
	l.size = 0
	l.mu.Unlock()
}

// Export renders all stored entries as text, one block per entry, blocks
// separated by a blank line.
func (l *Logger) Export() string {
	entries := l.Logs()
	blocks := make([]string, len(entries))
	for i, e := range entries {
		blocks[i] = formatEntry(e)
	}
	return strings.Join(blocks, "\n\n")
}

// WriteTo writes Export output to w.
func (l *Logger) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, l.Export())
	return int64(n), err
}

func formatEntry(e Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s", e.Timestamp.UTC().Format(time.RFC3339Nano), e.Level, e.Message)
	if len(e.Context) > 0 {
		data, err := json.MarshalIndent(e.Context, "", "  ")
		if err != nil {
			data = []byte(fmt.Sprintf("%v", e.Context))
		}
		fmt.Fprintf(&b, "\nContext: %s", data)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, "\nError: %s\nStack: %s", e.Err.Error(), strings.TrimRight(e.Stack, "\n"))
	}
	return b.String()
}

func copyContext(ctx map[string]any) map[string]any {
	if len(ctx) == 0 {
		return nil
	}
	out := make(map[string]any, len(ctx))
	for k, v := range ctx {
		out[k] = v
	}
	return out
}
