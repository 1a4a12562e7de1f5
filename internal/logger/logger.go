// Package logger provides verbose logging for notesearch.
// When verbose mode is enabled via the --verbose flag, messages are
// printed to stderr to show the search session at work: submits,
// webhook round trips, retries and recent-search persistence.
//
// The TUI points the output at a file so log lines never land on the
// terminal it is drawing.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Output returns the current output writer.
func Output() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return output
}

func logf(prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf("[DEBUG] ", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf("[INFO] ", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf("[WARN] ", format, args...)
}

// Error prints an error message if verbose mode is enabled.
// Errors the user must see are reported by the caller, not here.
func Error(format string, args ...any) {
	logf("[ERROR] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Timed logs the start of an operation and returns a function that logs
// its duration. Use as: defer logger.Timed("webhook search")().
func Timed(name string) func() {
	start := time.Now()
	Debug("%s: started", name)
	return func() {
		Debug("%s: took %s", name, time.Since(start).Round(time.Millisecond))
	}
}
