// Package logger provides leveled diagnostics for manualqa.
// Only errors are written by default; --verbose raises the level to debug
// and --log-level picks any level in between.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level orders message severity. Higher levels are more verbose.
type Level int

// Levels from quietest to most verbose.
const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

var levelNames = [...]string{"error", "warn", "info", "debug"}

// String returns the lowercase level name.
func (l Level) String() string {
	if l < LevelError || l > LevelDebug {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel accepts error, warn, info, or debug in any case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Level(i), nil
		}
	}
	return LevelError, fmt.Errorf("unknown log level %q (want error, warn, info, or debug)", s)
}

var (
	mu         sync.RWMutex
	timestamps bool
)

var (
	level  = LevelError
	output = io.Writer(os.Stderr)
	now    = time.Now
)

// SetLevel sets the most verbose level that is written.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// GetLevel returns the current level.
func GetLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return level
}

// SetVerbose switches between debug and error-only output.
func SetVerbose(v bool) {
	if v {
		SetLevel(LevelDebug)
		return
	}
	SetLevel(LevelError)
}

// IsVerbose returns true if debug messages are written.
func IsVerbose() bool {
	return GetLevel() >= LevelDebug
}

// SetOutput sets the output writer for logs. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetTimestamps prefixes every line with the wall-clock time when on.
func SetTimestamps(on bool) {
	mu.Lock()
	defer mu.Unlock()
	timestamps = on
}

func write(l Level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if l > level {
		return
	}

	var b strings.Builder
	if timestamps {
		b.WriteString(now().Format("15:04:05.000 "))
	}
	b.WriteString("[")
	b.WriteString(strings.ToUpper(l.String()))
	b.WriteString("] ")
	fmt.Fprintf(&b, format, args...)
	b.WriteString("\n")
	_, _ = io.WriteString(output, b.String())
}

// Section prints a header for a pipeline stage at info level.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if level >= LevelInfo {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Debug prints a debug message.
func Debug(format string, args ...any) {
	write(LevelDebug, format, args...)
}

// Info prints an informational message.
func Info(format string, args ...any) {
	write(LevelInfo, format, args...)
}

// Warn prints a warning. Degraded retrieval and partial ingestion land here.
func Warn(format string, args ...any) {
	write(LevelWarn, format, args...)
}

// Error prints an error. Errors are always written.
func Error(format string, args ...any) {
	write(LevelError, format, args...)
}
