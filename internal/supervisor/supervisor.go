// Package supervisor keeps workload subprocesses alive.
//
// The supervisor discovers numeric-id workload directories, launches each
// one's entry point as a subprocess, restarts crashes after a fixed delay,
// appends all subprocess output to per-workload logs, and optionally echoes
// one selected workload's output to the operator console.
package supervisor

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"sort"
	"sync"
	"time"

	"github.com/stokerhq/stoker/internal/config"
	"github.com/stokerhq/stoker/internal/logbook"
	"github.com/stokerhq/stoker/internal/registry"
	"github.com/stokerhq/stoker/internal/workload"
)

// Supervisor owns the registry, restart timers, and live-stream selector
// for one workload root.
type Supervisor struct {
	cfg      *config.Config
	reg      *registry.Registry
	book     *logbook.Logbook
	selector *Selector
	logger   *log.Logger

	// console guarded by consoleMu: notices, echoes and tables interleave
	// from pump goroutines, timers and the operator loop.
	consoleMu sync.Mutex
	console   io.Writer

	mu            sync.Mutex
	restartTimers map[workload.ID]*time.Timer
	// stopping is keyed by process handle, not id: an operator stop must
	// suppress the restart of exactly the process it stopped, never a
	// replacement started for the same id afterwards.
	stopping map[*exec.Cmd]bool
	closed   bool
}

// New creates a supervisor. console receives lifecycle notices and selected
// live output; logger is the supervisor's own operational log.
func New(cfg *config.Config, book *logbook.Logbook, logger *log.Logger, console io.Writer) *Supervisor {
	return &Supervisor{
		cfg:           cfg,
		reg:           registry.New(),
		book:          book,
		selector:      &Selector{},
		logger:        logger,
		console:       console,
		restartTimers: make(map[workload.ID]*time.Timer),
		stopping:      make(map[*exec.Cmd]bool),
	}
}

// Registry exposes the live registry for status queries.
func (s *Supervisor) Registry() *registry.Registry { return s.reg }

// Selector exposes the live-stream selector.
func (s *Supervisor) Selector() *Selector { return s.selector }

// Config returns the supervisor's configuration.
func (s *Supervisor) Config() *config.Config { return s.cfg }

// printf writes one line to the operator console.
func (s *Supervisor) printf(format string, args ...interface{}) {
	s.consoleMu.Lock()
	defer s.consoleMu.Unlock()
	fmt.Fprintf(s.console, format+"\n", args...)
}

// notice records a lifecycle message in the workload's log and on the
// console. Log write failures are operational-log only and never stop
// a workload or the supervisor.
func (s *Supervisor) notice(id workload.ID, msg string) {
	if err := s.book.Notice(id, msg); err != nil {
		s.logger.Printf("log write failed for %s: %v", id, err)
	}
	s.printf("[%s] %s", logbook.Timestamp(time.Now()), msg)
}

// Start launches the workload's entry point with its directory as working
// context and the supervisor's environment inherited. A no-op when the
// workload is already running. A spawn failure is treated as an immediate
// exit: it is noticed and flows into the fixed-delay restart path.
func (s *Supervisor) Start(id workload.ID) error {
	if s.reg.IsRunning(id) {
		return registry.ErrAlreadyRunning
	}

	cmd := exec.Command(s.cfg.Workloads.Entry)
	cmd.Dir = workload.Dir(s.cfg.Workloads.Dir, id)
	cmd.Env = os.Environ()
	setProcAttr(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe for %s: %w", id, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe for %s: %w", id, err)
	}

	if err := cmd.Start(); err != nil {
		s.notice(id, fmt.Sprintf("workload %s failed to start: %v", id, err))
		s.scheduleRestart(id)
		return nil
	}

	if err := s.reg.Register(id, cmd, time.Now()); err != nil {
		// Lost a concurrent start race; at most one handle may be tracked.
		terminate(cmd)
		_ = cmd.Wait()
		return err
	}

	s.notice(id, fmt.Sprintf("workload %s started (pid %d)", id, cmd.Process.Pid))

	// Wait must not run until both pipes are drained, or trailing output
	// would be lost when Wait closes them.
	var pumps sync.WaitGroup
	pumps.Add(2)
	go func() {
		defer pumps.Done()
		s.pump(id, stdout, false)
	}()
	go func() {
		defer pumps.Done()
		s.pump(id, stderr, true)
	}()
	go s.watch(id, cmd, &pumps)
	return nil
}

// maxLineBytes caps how much of one workload line is buffered before it is
// flushed as its own log line. Output beyond the cap continues in further
// chunks; no line length can stall the pipe.
const maxLineBytes = 1024 * 1024

// pump copies one output stream to the logbook line by line, echoing to
// the console when the workload is the live selection. The log append
// always happens before the echo. The pipe is read until EOF no matter
// what the workload emits: a line longer than maxLineBytes is split into
// chunks rather than aborting the read, which would leave the workload
// blocked writing into a full pipe forever.
func (s *Supervisor) pump(id workload.ID, r io.Reader, errStream bool) {
	br := bufio.NewReaderSize(r, 64*1024)
	var buf []byte
	for {
		part, isPrefix, err := br.ReadLine()
		buf = append(buf, part...)
		if err == nil && isPrefix && len(buf) < maxLineBytes {
			continue
		}
		if err == nil || len(buf) > 0 {
			s.deliver(id, string(buf), errStream)
			buf = buf[:0]
		}
		if err != nil {
			if err != io.EOF {
				s.logger.Printf("reading output of %s: %v", id, err)
			}
			return
		}
	}
}

// deliver appends one line (or chunk of an oversized line) to the logbook
// and echoes it if the workload is selected.
func (s *Supervisor) deliver(id workload.ID, line string, errStream bool) {
	var err error
	if errStream {
		err = s.book.AppendError(id, line)
	} else {
		err = s.book.Append(id, line)
	}
	if err != nil {
		s.logger.Printf("log write failed for %s: %v", id, err)
	}

	if s.selector.IsSelected(id) {
		tag := string(id)
		if errStream {
			tag += " ERROR"
		}
		s.printf("[%s] [%s] %s", logbook.Timestamp(time.Now()), tag, line)
	}
}

// watch waits for the subprocess to exit, notices the exit code, and
// schedules the automatic restart unless the exit was operator-initiated
// or the supervisor is shutting down.
func (s *Supervisor) watch(id workload.ID, cmd *exec.Cmd, pumps *sync.WaitGroup) {
	pumps.Wait()
	_ = cmd.Wait()

	code := 0
	if cmd.ProcessState != nil {
		code = cmd.ProcessState.ExitCode()
	}
	s.notice(id, fmt.Sprintf("workload %s exited (code %d)", id, code))

	s.mu.Lock()
	stopped := s.stopping[cmd]
	delete(s.stopping, cmd)
	closed := s.closed
	s.mu.Unlock()

	if s.reg.Owns(id, cmd) {
		s.reg.Unregister(id)
	}

	if stopped || closed {
		return
	}
	s.scheduleRestart(id)
}

// scheduleRestart arms the fixed-delay relaunch for id. One pending
// restart per id; the timer is cancelled by an operator stop. The delay is
// constant, with no backoff growth or retry ceiling, so a crash loop
// restarts forever at the configured cadence.
func (s *Supervisor) scheduleRestart(id workload.ID) {
	delay := s.cfg.Supervise.RestartDelay.Duration

	s.mu.Lock()
	if s.closed || s.restartTimers[id] != nil {
		s.mu.Unlock()
		return
	}
	s.restartTimers[id] = time.AfterFunc(delay, func() { s.runRestart(id) })
	s.mu.Unlock()

	s.notice(id, fmt.Sprintf("workload %s restarting in %s", id, delay))
}

func (s *Supervisor) runRestart(id workload.ID) {
	s.mu.Lock()
	delete(s.restartTimers, id)
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}

	// The backing directory may have vanished between crash and relaunch;
	// restarting it would only spawn-fail in a loop until the next rescan.
	if !workload.Exists(s.cfg.Workloads.Dir, id) {
		s.notice(id, fmt.Sprintf("workload %s directory gone, not restarting", id))
		return
	}

	if err := s.Start(id); err != nil && err != registry.ErrAlreadyRunning {
		s.logger.Printf("restarting %s: %v", id, err)
	}
}

// cancelRestart stops a pending relaunch. Reports whether one was pending.
func (s *Supervisor) cancelRestart(id workload.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.restartTimers[id]
	if !ok {
		return false
	}
	t.Stop()
	delete(s.restartTimers, id)
	return true
}

// restartPending reports whether id has an armed restart timer.
func (s *Supervisor) restartPending(id workload.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.restartTimers[id]
	return ok
}

// Stop terminates a running workload. The stop is terminal: any pending
// restart is cancelled, the registry entry is removed immediately, and the
// exit event will not schedule a relaunch. Stopping a stopped workload is
// a no-op beyond a "not running" notice.
func (s *Supervisor) Stop(id workload.ID) {
	entry, ok := s.reg.Get(id)
	if !ok {
		if s.cancelRestart(id) {
			s.notice(id, fmt.Sprintf("workload %s restart cancelled", id))
			return
		}
		s.notice(id, fmt.Sprintf("workload %s not running", id))
		return
	}

	s.mu.Lock()
	s.stopping[entry.Cmd] = true
	if t, armed := s.restartTimers[id]; armed {
		t.Stop()
		delete(s.restartTimers, id)
	}
	s.mu.Unlock()

	s.reg.Unregister(id)
	terminate(entry.Cmd)
	s.notice(id, fmt.Sprintf("workload %s stopped (pid %d)", id, entry.PID()))
}

// Restart bounces a workload. Running: signal termination and let the exit
// path bring it back after the restart delay. Stopped: start directly.
func (s *Supervisor) Restart(id workload.ID) {
	if entry, ok := s.reg.Get(id); ok {
		s.notice(id, fmt.Sprintf("workload %s restart requested", id))
		terminate(entry.Cmd)
		return
	}
	if err := s.Start(id); err != nil && err != registry.ErrAlreadyRunning {
		s.logger.Printf("restarting %s: %v", id, err)
	}
}

// RestartAll bounces every registered workload.
func (s *Supervisor) RestartAll() {
	for _, entry := range s.reg.Snapshot() {
		s.Restart(entry.ID)
	}
}

// StopAll terminates every registered workload.
func (s *Supervisor) StopAll() {
	for _, entry := range s.reg.Snapshot() {
		s.Stop(entry.ID)
	}
}

// Status is one row of the workload overview.
type Status struct {
	ID        workload.ID
	Running   bool
	PID       int
	StartedAt time.Time
}

// Uptime returns the wall-clock elapsed time since start, zero when stopped.
func (st Status) Uptime() time.Duration {
	if !st.Running {
		return 0
	}
	return time.Since(st.StartedAt)
}

// Overview returns a row for every workload known on disk or in the
// registry, in ascending numeric order. When the root cannot be read the
// overview falls back to the registry alone.
func (s *Supervisor) Overview() []Status {
	seen := make(map[workload.ID]bool)
	var rows []Status

	for _, entry := range s.reg.Snapshot() {
		seen[entry.ID] = true
		rows = append(rows, Status{
			ID:        entry.ID,
			Running:   true,
			PID:       entry.PID(),
			StartedAt: entry.StartedAt,
		})
	}

	if ids, err := workload.Discover(s.cfg.Workloads.Dir); err == nil {
		for _, id := range ids {
			if !seen[id] {
				rows = append(rows, Status{ID: id})
			}
		}
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].ID.Num() < rows[j].ID.Num() })
	return rows
}
