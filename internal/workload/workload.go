// Package workload provides workload discovery on disk.
//
// A workload is a directory whose name is a non-empty string of decimal
// digits, containing a runnable entry point. The set of such directories
// under the root is the desired set the supervisor converges toward.
package workload

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// ID identifies a single workload. It is the workload's directory name and
// consists only of decimal digits.
type ID string

// Valid reports whether s is a well-formed workload ID (one or more
// decimal digits).
func Valid(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Num returns the ID's numeric value for ordering. IDs are validated at
// discovery time, so parse failures collapse to zero.
func (id ID) Num() int {
	n, _ := strconv.Atoi(string(id))
	return n
}

// Discover scans root and returns the IDs of all immediate subdirectories
// whose names are purely numeric, in ascending numeric order.
//
// A read error is returned as-is. Callers must treat an error as "desired
// set unknown" and keep their previous state; an unreadable root must never
// be conflated with an empty root, or a transient read failure would tear
// down every running workload.
func Discover(root string) ([]ID, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading workload root: %w", err)
	}

	var ids []ID
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if !Valid(entry.Name()) {
			continue
		}
		ids = append(ids, ID(entry.Name()))
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i].Num() < ids[j].Num() })
	return ids, nil
}

// Dir returns the directory backing a workload.
func Dir(root string, id ID) string {
	return filepath.Join(root, string(id))
}

// Exists reports whether the workload's backing directory is present.
func Exists(root string, id ID) bool {
	info, err := os.Stat(Dir(root, id))
	return err == nil && info.IsDir()
}
