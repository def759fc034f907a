// Package journal appends extracted payloads to a plain-text log file.
//
// Every entry is one line of the form
//
//	2006-01-02 15:04:05 - <payload>
//
// The file is append-only; nothing here rewrites or rotates it.
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TimestampLayout is the layout used for the leading timestamp of each line.
const TimestampLayout = "2006-01-02 15:04:05"

// Appender writes journal lines to a single file.
type Appender struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// New creates an Appender for path. The file and its directory are created
// on the first Append, not here.
func New(path string) *Appender {
	return &Appender{
		path: filepath.Clean(path),
		now:  time.Now,
	}
}

// Path returns the file the appender writes to.
func (a *Appender) Path() string {
	return a.path
}

// Append writes one timestamped line. The line is written with a single
// Write on an O_APPEND descriptor under a mutex so concurrent callers never
// produce interleaved partial lines.
func (a *Appender) Append(payload string) error {
	line := FormatLine(a.now(), payload)

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(a.path), 0755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal file %s: %w", a.path, err)
	}

	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write journal entry: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close journal file: %w", err)
	}
	return nil
}

// FormatLine renders a journal line for the given moment. Timestamps are UTC.
func FormatLine(ts time.Time, payload string) string {
	return ts.UTC().Format(TimestampLayout) + " - " + payload + "\n"
}
