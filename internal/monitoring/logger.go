// Package monitoring holds the diagnostic log sink shared by the cleaning
// packages. Library code never prints directly; it goes through a LogFunc.
package monitoring

import (
	"fmt"
	"log"
	"sync"
)

// LogFunc is a printf-style log sink.
type LogFunc func(format string, v ...interface{})

// Logf is the package-level diagnostic logger. It defaults to log.Printf and
// is what components fall back to when no sink was injected.
var Logf LogFunc = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f LogFunc) {
	if f == nil {
		Logf = Discard
		return
	}
	Logf = f
}

// Discard drops every message.
func Discard(string, ...interface{}) {}

// OrDefault returns f, or a func that forwards to the package logger when f is
// nil. Logf is resolved at call time so a later SetLogger still applies.
func OrDefault(f LogFunc) LogFunc {
	if f != nil {
		return f
	}
	return func(format string, v ...interface{}) {
		Logf(format, v...)
	}
}

// Recorder collects formatted log lines in memory so tests can assert on
// output without touching stdout.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

// Logf appends one formatted line.
func (r *Recorder) Logf(format string, v ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf(format, v...))
}

// Lines returns a copy of everything recorded so far.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}
