// Package logger prints the verbose pipeline trace for the docq CLI.
// The trace is off by default and enabled with --verbose; it goes to
// stderr so it never mixes with command output. Stages (ingest, query)
// open a header, levelled messages and timings fill in the detail.
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

// SetVerbose enables or disables the trace.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if the trace is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the trace writer. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// logf is the single formatting path for levelled messages.
func logf(level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
}

// Debug prints a detail message.
func Debug(format string, args ...any) {
	logf("DEBUG", format, args...)
}

// Info prints a progress message.
func Info(format string, args ...any) {
	logf("INFO", format, args...)
}

// Warn prints a warning.
func Warn(format string, args ...any) {
	logf("WARN", format, args...)
}

// Stage opens a pipeline stage header in the trace.
func Stage(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, "\n=== %s ===\n", name)
}

// Timed reports how long a stage took once the returned func runs:
//
//	defer logger.Timed("ingest " + doc.ID)()
func Timed(name string) func() {
	if !IsVerbose() {
		return func() {}
	}
	start := time.Now()
	return func() {
		Debug("%s took %s", name, time.Since(start).Round(time.Millisecond))
	}
}
