// Package registry tracks which workloads currently have a live subprocess.
//
// The registry is the single source of truth for "what is running": a
// workload is running exactly when it has an entry here. All access goes
// through one mutex so concurrent starts, stops, and status queries observe
// a consistent view.
package registry

import (
	"errors"
	"os/exec"
	"sort"
	"sync"
	"time"

	"github.com/stokerhq/stoker/internal/workload"
)

// ErrAlreadyRunning is returned by Register when the workload already has a
// live entry. It enforces the at-most-one-subprocess-per-ID invariant.
var ErrAlreadyRunning = errors.New("workload already running")

// Entry is one running workload: the subprocess handle and when it started.
type Entry struct {
	ID        workload.ID
	Cmd       *exec.Cmd
	StartedAt time.Time
}

// PID returns the native process id, or 0 if the handle is gone.
func (e Entry) PID() int {
	if e.Cmd == nil || e.Cmd.Process == nil {
		return 0
	}
	return e.Cmd.Process.Pid
}

// Registry is an in-memory map from workload ID to its running entry.
type Registry struct {
	mu      sync.Mutex
	entries map[workload.ID]Entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[workload.ID]Entry)}
}

// IsRunning reports whether id has a live entry.
func (r *Registry) IsRunning(id workload.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[id]
	return ok
}

// Register records a running workload. Returns ErrAlreadyRunning if an
// entry for id already exists; the caller must not leave a second
// subprocess tracked.
func (r *Registry) Register(id workload.ID, cmd *exec.Cmd, startedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; ok {
		return ErrAlreadyRunning
	}
	r.entries[id] = Entry{ID: id, Cmd: cmd, StartedAt: startedAt}
	return nil
}

// Unregister removes the entry for id if present. Removing an absent id is
// a no-op so that stop stays idempotent.
func (r *Registry) Unregister(id workload.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Get returns the entry for id and whether it exists.
func (r *Registry) Get(id workload.ID) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	return e, ok
}

// Owns reports whether cmd is the handle currently registered for id.
// Exit watchers use this to tell "my process exited" apart from "a stop
// already removed my registration".
func (r *Registry) Owns(id workload.ID, cmd *exec.Cmd) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	return ok && e.Cmd == cmd
}

// Snapshot returns a point-in-time copy of all entries in ascending numeric
// ID order.
func (r *Registry) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID.Num() < entries[j].ID.Num()
	})
	return entries
}

// Len returns the number of running workloads.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
