//go:build !windows

package console

import (
	"bytes"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stokerhq/stoker/internal/config"
	"github.com/stokerhq/stoker/internal/logbook"
	"github.com/stokerhq/stoker/internal/supervisor"
	"github.com/stokerhq/stoker/internal/testutil"
)

func newTestConsole(t *testing.T, input string) (*Console, *supervisor.Supervisor, *bytes.Buffer, string) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	root := t.TempDir()
	cfg := config.Default(root)
	book, err := logbook.New(cfg.Logs.Dir, cfg.Logs.Ext)
	if err != nil {
		t.Fatalf("creating logbook: %v", err)
	}

	out := &bytes.Buffer{}
	sup := supervisor.New(cfg, book, log.New(io.Discard, "", 0), io.Discard)
	t.Cleanup(sup.StopAll)
	return New(sup, strings.NewReader(input), out), sup, out, root
}

func TestRunPrintsLegendAndIgnoresJunk(t *testing.T) {
	c, _, out, _ := newTestConsole(t, "garbage\nanother line\n")
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "stoker console") {
		t.Errorf("missing legend header:\n%s", got)
	}
	if strings.Contains(got, "garbage") {
		t.Errorf("junk input echoed back:\n%s", got)
	}
}

func TestSelectAndClear(t *testing.T) {
	c, sup, out, _ := newTestConsole(t, "3\n0\n")
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, set := sup.Selector().Current(); set {
		t.Error("selection not cleared")
	}
	got := out.String()
	if !strings.Contains(got, "echoing workload 3") {
		t.Errorf("missing select confirmation:\n%s", got)
	}
	if !strings.Contains(got, "echo off") {
		t.Errorf("missing clear confirmation:\n%s", got)
	}
}

func TestStopCommandStopsWorkload(t *testing.T) {
	c, sup, _, root := newTestConsole(t, "")
	testutil.WriteWorkload(t, root, "1", "sleep 30\n")
	if err := sup.Start("1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	testutil.WaitFor(t, 3*time.Second, "workload running", func() bool {
		return sup.Registry().IsRunning("1")
	})

	c.dispatch(Parse("s1"))
	if sup.Registry().IsRunning("1") {
		t.Fatal("workload still running after stop command")
	}
}

func TestListTable(t *testing.T) {
	c, sup, out, root := newTestConsole(t, "ls\n")
	testutil.WriteWorkload(t, root, "1", "sleep 30\n")
	testutil.WriteWorkload(t, root, "2", "true\n")
	if err := sup.Start("1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	testutil.WaitFor(t, 3*time.Second, "workload running", func() bool {
		return sup.Registry().IsRunning("1")
	})

	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "ID") || !strings.Contains(got, "UPTIME") {
		t.Errorf("missing table header:\n%s", got)
	}

	var row1, row2 string
	for _, line := range strings.Split(got, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 1 && fields[0] == "1" {
			row1 = line
		}
		if len(fields) > 1 && fields[0] == "2" {
			row2 = line
		}
	}
	if !strings.Contains(row1, "RUNNING") || !strings.Contains(row1, "0h 0m") {
		t.Errorf("running row wrong: %q", row1)
	}
	if !strings.Contains(row2, "STOPPED") || !strings.Contains(row2, "-") {
		t.Errorf("stopped row wrong: %q", row2)
	}
}
