// ABOUTME: Leveled logging wrapper keyed on slog levels for the terminal core
// ABOUTME: Global level via SetLevel; output redirectable so logs never land on a raw terminal

package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Level constants matching slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var level atomic.Int64

var output struct {
	mu   sync.Mutex
	w    io.Writer
	crlf bool
}

func init() {
	level.Store(int64(LevelInfo))
	output.w = os.Stderr
}

// SetLevel sets the global log level.
func SetLevel(l slog.Level) {
	level.Store(int64(l))
}

// GetLevel returns the current log level.
func GetLevel() slog.Level {
	return slog.Level(level.Load())
}

// ParseLevel maps "debug", "info", "warn" and "error" to a level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return LevelInfo, fmt.Errorf("parsing log level %q: %w", s, err)
	}
	return l, nil
}

// SetOutput redirects log lines to w. A nil w restores stderr.
func SetOutput(w io.Writer) {
	output.mu.Lock()
	defer output.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	output.w = w
}

// SetRawTerminal makes lines end in "\r\n", which a terminal with output
// post-processing disabled needs to return to column zero.
func SetRawTerminal(raw bool) {
	output.mu.Lock()
	defer output.mu.Unlock()

	output.crlf = raw
}

func emit(tag, format string, args ...any) {
	output.mu.Lock()
	defer output.mu.Unlock()

	eol := "\n"
	if output.crlf {
		eol = "\r\n"
	}
	fmt.Fprintf(output.w, "["+tag+"] "+format+eol, args...)
}

// Debug logs a debug message if the level allows it.
func Debug(format string, args ...any) {
	if slog.Level(level.Load()) > LevelDebug {
		return
	}
	emit("DEBUG", format, args...)
}

// Info logs an info message if the level allows it.
func Info(format string, args ...any) {
	if slog.Level(level.Load()) > LevelInfo {
		return
	}
	emit("INFO", format, args...)
}

// Warn logs a warning message if the level allows it.
func Warn(format string, args ...any) {
	if slog.Level(level.Load()) > LevelWarn {
		return
	}
	emit("WARN", format, args...)
}

// Error logs an error message (always emitted).
func Error(format string, args ...any) {
	emit("ERROR", format, args...)
}
