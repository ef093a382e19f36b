package gclog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoggerDisabledByDefault(t *testing.T) {
	t.Setenv("GC_DEBUG", "")
	l := New("")
	defer l.Close()
	if l.Enabled() {
		t.Fatal("logger should be disabled without GC_DEBUG set")
	}
}

func TestLoggerEnabledWritesFile(t *testing.T) {
	t.Setenv("GC_DEBUG", "1")
	path := filepath.Join(t.TempDir(), "gc.log")
	l := New(path)
	defer l.Close()

	if !l.Enabled() {
		t.Fatal("logger should be enabled with GC_DEBUG=1")
	}
	l.Debug("hello %s", "world")
	l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected log file to contain the debug message")
	}
}

func TestLoggerErrorAlwaysLogs(t *testing.T) {
	t.Setenv("GC_DEBUG", "")
	path := filepath.Join(t.TempDir(), "gc.log")
	l := New(path)
	defer l.Close()

	l.Error("boom %d", 1)
	l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Error should log regardless of GC_DEBUG")
	}
}
