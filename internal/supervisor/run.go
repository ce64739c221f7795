package supervisor

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"github.com/stokerhq/stoker/internal/workload"
)

// Reconcile aligns running workloads with the directories on disk: it
// starts every discovered workload that is neither running nor pending a
// restart, and stops workloads whose directory has been removed.
//
// A discovery failure leaves everything untouched. An unreadable root says
// nothing about which workloads still exist, so the previous state stands
// until the next pass can actually read it.
func (s *Supervisor) Reconcile() {
	ids, err := workload.Discover(s.cfg.Workloads.Dir)
	if err != nil {
		s.logger.Printf("scanning %s: %v (keeping current state)", s.cfg.Workloads.Dir, err)
		return
	}

	desired := make(map[workload.ID]bool, len(ids))
	for _, id := range ids {
		desired[id] = true
	}

	for _, id := range ids {
		if s.reg.IsRunning(id) || s.restartPending(id) {
			continue
		}
		if err := s.Start(id); err != nil {
			s.logger.Printf("starting %s: %v", id, err)
		}
	}

	for _, entry := range s.reg.Snapshot() {
		if desired[entry.ID] {
			continue
		}
		s.notice(entry.ID, fmt.Sprintf("workload %s removed from disk, stopping", entry.ID))
		s.Stop(entry.ID)
	}

	// Pending restarts for removed workloads would spawn-fail on relaunch.
	s.mu.Lock()
	var orphaned []workload.ID
	for id := range s.restartTimers {
		if !desired[id] {
			orphaned = append(orphaned, id)
		}
	}
	s.mu.Unlock()
	for _, id := range orphaned {
		if s.cancelRestart(id) {
			s.notice(id, fmt.Sprintf("workload %s removed from disk, restart cancelled", id))
		}
	}
}

// Run executes the supervise loop until ctx is cancelled or a termination
// signal arrives: acquire the single-instance lock, reconcile immediately,
// then rescan on the configured interval.
func (s *Supervisor) Run(ctx context.Context) error {
	root := s.cfg.Workloads.Dir
	if err := os.MkdirAll(s.cfg.RuntimeDir(), 0755); err != nil {
		return fmt.Errorf("creating runtime dir: %w", err)
	}

	lock := flock.New(s.cfg.LockFile())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another supervisor is already running for %s", root)
	}
	defer lock.Unlock()

	pidFile := s.cfg.PidFile()
	if err := os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		return fmt.Errorf("writing pid file: %w", err)
	}
	defer os.Remove(pidFile)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	s.logger.Printf("supervising %s (pid %d)", root, os.Getpid())

	state := &State{Running: true, PID: os.Getpid(), StartedAt: time.Now()}
	s.Reconcile()
	state.LastReconcile = time.Now()
	state.ReconcileCount++
	state.Workloads = s.reg.Len()
	if err := SaveState(s.cfg.StateFile(), state); err != nil {
		s.logger.Printf("saving state: %v", err)
	}

	interval := s.cfg.Supervise.RescanInterval.Duration
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Printf("context cancelled, shutting down")
			return s.shutdown()
		case sig := <-sigCh:
			s.logger.Printf("received %v, shutting down", sig)
			return s.shutdown()
		case <-timer.C:
			s.Reconcile()
			state.LastReconcile = time.Now()
			state.ReconcileCount++
			state.Workloads = s.reg.Len()
			if err := SaveState(s.cfg.StateFile(), state); err != nil {
				s.logger.Printf("saving state: %v", err)
			}
			timer.Reset(interval)
		}
	}
}

// shutdown tears the supervisor down: no new restarts, every workload
// terminated, final state written.
func (s *Supervisor) shutdown() error {
	s.mu.Lock()
	s.closed = true
	for id, t := range s.restartTimers {
		t.Stop()
		delete(s.restartTimers, id)
	}
	s.mu.Unlock()

	s.StopAll()

	state, err := LoadState(s.cfg.StateFile())
	if err != nil {
		state = &State{}
	}
	state.Running = false
	state.Workloads = 0
	if err := SaveState(s.cfg.StateFile(), state); err != nil {
		s.logger.Printf("saving state: %v", err)
	}
	s.logger.Printf("supervisor stopped")
	return nil
}
