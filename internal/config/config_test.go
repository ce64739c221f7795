package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Workloads.Dir != dir {
		t.Errorf("Workloads.Dir = %q, want %q", cfg.Workloads.Dir, dir)
	}
	if cfg.Workloads.Entry != "./run" {
		t.Errorf("Workloads.Entry = %q, want ./run", cfg.Workloads.Entry)
	}
	if cfg.Logs.Dir != filepath.Join(dir, "logs") {
		t.Errorf("Logs.Dir = %q, want %q", cfg.Logs.Dir, filepath.Join(dir, "logs"))
	}
	if cfg.Logs.Ext != "log" {
		t.Errorf("Logs.Ext = %q, want log", cfg.Logs.Ext)
	}
	if cfg.Supervise.RestartDelay.Duration != 5*time.Second {
		t.Errorf("RestartDelay = %v, want 5s", cfg.Supervise.RestartDelay.Duration)
	}
	if cfg.Supervise.RescanInterval.Duration != 30*time.Minute {
		t.Errorf("RescanInterval = %v, want 30m", cfg.Supervise.RescanInterval.Duration)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	content := `
[workloads]
entry = "./start.sh"

[logs]
dir = "/var/log/stoker"
ext = "txt"

[supervise]
restart_delay = "250ms"
rescan_interval = "1m"
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Workloads.Entry != "./start.sh" {
		t.Errorf("Entry = %q, want ./start.sh", cfg.Workloads.Entry)
	}
	if cfg.Logs.Dir != "/var/log/stoker" {
		t.Errorf("Logs.Dir = %q, want /var/log/stoker", cfg.Logs.Dir)
	}
	if cfg.Logs.Ext != "txt" {
		t.Errorf("Logs.Ext = %q, want txt", cfg.Logs.Ext)
	}
	if cfg.Supervise.RestartDelay.Duration != 250*time.Millisecond {
		t.Errorf("RestartDelay = %v, want 250ms", cfg.Supervise.RestartDelay.Duration)
	}
	if cfg.Supervise.RescanInterval.Duration != time.Minute {
		t.Errorf("RescanInterval = %v, want 1m", cfg.Supervise.RescanInterval.Duration)
	}
	// Dir not set in file defaults to the load directory.
	if cfg.Workloads.Dir != dir {
		t.Errorf("Workloads.Dir = %q, want %q", cfg.Workloads.Dir, dir)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	dir := t.TempDir()
	content := `
[supervise]
restart_delay = "five seconds"
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Fatal("Load with malformed duration: want error, got nil")
	}
}

func TestRuntimePaths(t *testing.T) {
	cfg := Default("/srv/bots")

	if cfg.RuntimeDir() != "/srv/bots/.stoker" {
		t.Errorf("RuntimeDir = %q", cfg.RuntimeDir())
	}
	if cfg.LockFile() != "/srv/bots/.stoker/stoker.lock" {
		t.Errorf("LockFile = %q", cfg.LockFile())
	}
	if cfg.PidFile() != "/srv/bots/.stoker/stoker.pid" {
		t.Errorf("PidFile = %q", cfg.PidFile())
	}
	if cfg.StateFile() != "/srv/bots/.stoker/state.json" {
		t.Errorf("StateFile = %q", cfg.StateFile())
	}
	if cfg.LogFile() != "/srv/bots/.stoker/stoker.log" {
		t.Errorf("LogFile = %q", cfg.LogFile())
	}
}
