// Package testutil holds shared helpers for integration-flavored tests
// that spawn real workload subprocesses.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// WaitFor polls cond every 10ms until it returns true or the deadline
// passes, then fails the test.
func WaitFor(t *testing.T, timeout time.Duration, msg string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}

// WriteWorkload creates root/id with an executable entry script and
// returns the workload directory path.
func WriteWorkload(t *testing.T, root, id, script string) string {
	t.Helper()
	dir := filepath.Join(root, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating workload dir: %v", err)
	}
	path := filepath.Join(dir, "run")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("writing entry script: %v", err)
	}
	return dir
}
