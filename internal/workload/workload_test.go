package workload

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValid(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"1", true},
		{"42", true},
		{"007", true},
		{"", false},
		{"1a", false},
		{"a1", false},
		{"-1", false},
		{"1.5", false},
		{"workload", false},
	}
	for _, tc := range cases {
		if got := Valid(tc.in); got != tc.want {
			t.Errorf("Valid(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDiscoverFiltersAndSorts(t *testing.T) {
	root := t.TempDir()

	// Numeric directories in non-sorted creation order.
	for _, name := range []string{"10", "2", "1", "300"} {
		if err := os.Mkdir(filepath.Join(root, name), 0755); err != nil {
			t.Fatalf("Mkdir %s: %v", name, err)
		}
	}
	// Non-numeric directories and plain files must be ignored.
	if err := os.Mkdir(filepath.Join(root, "logs"), 0755); err != nil {
		t.Fatalf("Mkdir logs: %v", err)
	}
	if err := os.Mkdir(filepath.Join(root, "3beta"), 0755); err != nil {
		t.Fatalf("Mkdir 3beta: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "5"), []byte("a file, not a dir"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ids, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := []ID{"1", "2", "10", "300"}
	if len(ids) != len(want) {
		t.Fatalf("Discover returned %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
}

func TestDiscoverEmptyRoot(t *testing.T) {
	ids, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("Discover = %v, want empty", ids)
	}
}

func TestDiscoverUnreadableRootReturnsError(t *testing.T) {
	// A missing root must surface an error, not an empty set: callers keep
	// their previous state when the desired set cannot be derived.
	_, err := Discover(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("Discover on missing root: want error, got nil")
	}
}

func TestExists(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "7"), 0755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	if !Exists(root, "7") {
		t.Error("Exists(7) = false, want true")
	}
	if Exists(root, "8") {
		t.Error("Exists(8) = true, want false")
	}
}
