package gc

import (
	"path/filepath"
	"testing"
)

func TestOptionsSaveLoadRoundTrip(t *testing.T) {
	opts := DefaultOptions()
	opts.Mode = Concurrent
	opts.MaxHeapBytes = 123456
	opts.GCThreshold = 0.42
	opts.CollectorThreads = 3
	opts.WorkerCount = 2
	opts.FullDebug = true

	path := filepath.Join(t.TempDir(), "gc.toml")
	if err := opts.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := LoadOptionsFile(path)
	if err != nil {
		t.Fatalf("LoadOptionsFile failed: %v", err)
	}

	if got.Mode != opts.Mode {
		t.Errorf("Mode: expected %v, got %v", opts.Mode, got.Mode)
	}
	if got.MaxHeapBytes != opts.MaxHeapBytes {
		t.Errorf("MaxHeapBytes: expected %d, got %d", opts.MaxHeapBytes, got.MaxHeapBytes)
	}
	if got.GCThreshold != opts.GCThreshold {
		t.Errorf("GCThreshold: expected %v, got %v", opts.GCThreshold, got.GCThreshold)
	}
	if got.CollectorThreads != opts.CollectorThreads {
		t.Errorf("CollectorThreads: expected %d, got %d", opts.CollectorThreads, got.CollectorThreads)
	}
	if got.WorkerCount != opts.WorkerCount {
		t.Errorf("WorkerCount: expected %d, got %d", opts.WorkerCount, got.WorkerCount)
	}
	if got.FullDebug != opts.FullDebug {
		t.Errorf("FullDebug: expected %v, got %v", opts.FullDebug, got.FullDebug)
	}
}

func TestModeStringRoundTrip(t *testing.T) {
	for _, m := range []Mode{StopTheWorld, Incremental, Concurrent} {
		parsed, err := parseMode(m.String())
		if err != nil {
			t.Fatalf("parseMode(%q) failed: %v", m.String(), err)
		}
		if parsed != m {
			t.Errorf("expected %v, got %v", m, parsed)
		}
	}
}
