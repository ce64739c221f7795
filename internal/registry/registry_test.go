package registry

import (
	"sync"
	"testing"
	"time"

	"github.com/stokerhq/stoker/internal/workload"
)

func TestRegisterAndIsRunning(t *testing.T) {
	r := New()

	if r.IsRunning("1") {
		t.Error("IsRunning on empty registry = true, want false")
	}

	if err := r.Register("1", nil, time.Now()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !r.IsRunning("1") {
		t.Error("IsRunning after Register = false, want true")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestRegisterDuplicateFails(t *testing.T) {
	r := New()
	if err := r.Register("3", nil, time.Now()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register("3", nil, time.Now()); err != ErrAlreadyRunning {
		t.Errorf("second Register = %v, want ErrAlreadyRunning", err)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d after duplicate Register, want 1", r.Len())
	}
}

func TestUnregisterIdempotent(t *testing.T) {
	r := New()
	if err := r.Register("5", nil, time.Now()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	r.Unregister("5")
	if r.IsRunning("5") {
		t.Error("IsRunning after Unregister = true, want false")
	}

	// Unregistering an absent id is a no-op, not an error.
	r.Unregister("5")
	r.Unregister("404")
}

func TestSnapshotNumericOrder(t *testing.T) {
	r := New()
	for _, id := range []workload.ID{"10", "2", "1", "300"} {
		if err := r.Register(id, nil, time.Now()); err != nil {
			t.Fatalf("Register %s: %v", id, err)
		}
	}

	snap := r.Snapshot()
	want := []workload.ID{"1", "2", "10", "300"}
	if len(snap) != len(want) {
		t.Fatalf("Snapshot has %d entries, want %d", len(snap), len(want))
	}
	for i, e := range snap {
		if e.ID != want[i] {
			t.Errorf("snap[%d].ID = %s, want %s", i, e.ID, want[i])
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	r := New()
	started := time.Now().Add(-time.Minute)
	if err := r.Register("1", nil, started); err != nil {
		t.Fatalf("Register: %v", err)
	}

	snap := r.Snapshot()
	r.Unregister("1")

	if len(snap) != 1 || snap[0].ID != "1" || !snap[0].StartedAt.Equal(started) {
		t.Errorf("snapshot mutated after Unregister: %+v", snap)
	}
}

func TestConcurrentRegisterSingleWinner(t *testing.T) {
	r := New()

	const goroutines = 20
	var wg sync.WaitGroup
	errs := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- r.Register("9", nil, time.Now())
		}()
	}
	wg.Wait()
	close(errs)

	var won int
	for err := range errs {
		if err == nil {
			won++
		} else if err != ErrAlreadyRunning {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if won != 1 {
		t.Errorf("%d registrations succeeded for one id, want exactly 1", won)
	}
}
