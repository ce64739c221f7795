// Package logbook provides per-workload durable append logs.
//
// Every line a workload emits is appended to <dir>/<id>.<ext> with a
// timestamp prefix. Files are opened for append and closed on every call so
// handles never accumulate across restart cycles, and a single mutex keeps
// concurrent appends from interleaving partial lines.
package logbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/stokerhq/stoker/internal/workload"
)

// TimeLayout is the timestamp prefix format for every log line.
const TimeLayout = "2006-01-02 15:04:05"

// Timestamp formats t for log and console prefixes.
func Timestamp(t time.Time) string {
	return t.Format(TimeLayout)
}

// FormatUptime renders an elapsed duration as integer hours, minutes and
// seconds, each always shown: 3661s is "1h 1m 1s", a fresh start is
// "0h 0m 0s". Negative durations clamp to zero.
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%dh %dm %ds", total/3600, (total%3600)/60, total%60)
}

// Logbook appends timestamped lines to per-workload log files.
type Logbook struct {
	dir string
	ext string

	mu sync.Mutex

	// now is swappable for tests.
	now func() time.Time
}

// New creates a logbook writing under dir with the given file extension
// (without the dot). The directory is created if absent.
func New(dir, ext string) (*Logbook, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	return &Logbook{dir: dir, ext: ext, now: time.Now}, nil
}

// Path returns the log file path for a workload.
func (l *Logbook) Path(id workload.ID) string {
	return filepath.Join(l.dir, string(id)+"."+l.ext)
}

// Append writes one line of normal workload output:
//
//	[2006-01-02 15:04:05] [7] raw output
func (l *Logbook) Append(id workload.ID, line string) error {
	return l.write(id, fmt.Sprintf("[%s] [%s] %s", Timestamp(l.now()), id, line))
}

// AppendError writes one line of error-stream output:
//
//	[2006-01-02 15:04:05] [7 ERROR] raw output
func (l *Logbook) AppendError(id workload.ID, line string) error {
	return l.write(id, fmt.Sprintf("[%s] [%s ERROR] %s", Timestamp(l.now()), id, line))
}

// Notice writes a lifecycle notice (start, stop, exit, restart):
//
//	[2006-01-02 15:04:05] workload 7 started (pid 123)
func (l *Logbook) Notice(id workload.ID, msg string) error {
	return l.write(id, fmt.Sprintf("[%s] %s", Timestamp(l.now()), msg))
}

// write appends one fully formed line. Open-append-close per call: each
// line is durable before write returns, independent of what the workload
// does next.
func (l *Logbook) write(id workload.ID, line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.Path(id), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening log for %s: %w", id, err)
	}

	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	_, werr := f.WriteString(line)
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("appending log for %s: %w", id, werr)
	}
	if cerr != nil {
		return fmt.Errorf("closing log for %s: %w", id, cerr)
	}
	return nil
}
