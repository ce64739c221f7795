package supervisor

import (
	"sync"

	"github.com/stokerhq/stoker/internal/workload"
)

// Selector holds the at-most-one workload whose output is echoed to the
// operator console in addition to its log file. Selection is by ID, not by
// process handle, so it survives crash/restart cycles of the workload.
type Selector struct {
	mu  sync.Mutex
	id  workload.ID
	set bool
}

// Select makes id the live-echoed workload, replacing any previous choice.
func (s *Selector) Select(id workload.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	s.set = true
}

// Clear turns echoing off.
func (s *Selector) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = ""
	s.set = false
}

// Current returns the selected ID and whether one is set.
func (s *Selector) Current() (workload.ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, s.set
}

// IsSelected reports whether id is the current selection.
func (s *Selector) IsSelected(id workload.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set && s.id == id
}
