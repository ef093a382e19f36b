// Package config loads and saves collector tuning options as TOML.
//
// The file shape here is independent of gc.Options so the gc package can
// import this package without a cycle; gc/options.go converts between the
// two.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the conventional options file name looked up by FindConfigFile.
const FileName = "gc.toml"

// File is the on-disk shape of collector tuning options.
type File struct {
	Collector CollectorSection `toml:"collector"`
}

// CollectorSection mirrors gc.Options' tunable fields.
type CollectorSection struct {
	// Mode is one of "stw", "incremental", "concurrent".
	Mode string `toml:"mode"`

	// MaxHeapBytes bounds live+allocated bytes before a cycle is forced.
	MaxHeapBytes uint64 `toml:"max_heap_bytes"`

	// GCThreshold is the fraction of MaxHeapBytes that triggers a cycle.
	GCThreshold float64 `toml:"gc_threshold"`

	// CollectorThreads is how many collector goroutines the concurrent
	// policy starts; one of them runs each cycle.
	CollectorThreads int `toml:"collector_threads"`

	// WorkerCount is how many goroutines participate in parallel
	// marking/sweeping. Zero means sequential.
	WorkerCount int `toml:"worker_count"`

	// FullDebug disables chunk-allocator pooling so freed memory is never
	// silently reused.
	FullDebug bool `toml:"full_debug"`
}

// Load reads and parses an options file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &f, nil
}

// Save writes f to path as TOML, with a short explanatory comment per field.
func (f *File) Save(path string) error {
	var sb strings.Builder
	sb.WriteString("[collector]\n")
	sb.WriteString("# one of \"stw\", \"incremental\", \"concurrent\"\n")
	fmt.Fprintf(&sb, "mode = %q\n\n", f.Collector.Mode)
	sb.WriteString("# bytes of live+allocated heap before a cycle is forced\n")
	fmt.Fprintf(&sb, "max_heap_bytes = %d\n\n", f.Collector.MaxHeapBytes)
	sb.WriteString("# fraction of max_heap_bytes that triggers a cycle\n")
	fmt.Fprintf(&sb, "gc_threshold = %v\n\n", f.Collector.GCThreshold)
	sb.WriteString("# collector goroutines draining the mark list (concurrent mode only)\n")
	fmt.Fprintf(&sb, "collector_threads = %d\n\n", f.Collector.CollectorThreads)
	sb.WriteString("# worker goroutines for parallel mark/sweep, 0 = sequential\n")
	fmt.Fprintf(&sb, "worker_count = %d\n\n", f.Collector.WorkerCount)
	sb.WriteString("# disable pooling so freed memory is never silently reused\n")
	fmt.Fprintf(&sb, "full_debug = %v\n", f.Collector.FullDebug)

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// FindConfigFile walks up from startPath looking for gc.toml.
func FindConfigFile(startPath string) string {
	info, err := os.Stat(startPath)
	if err != nil {
		return ""
	}
	dir := startPath
	if !info.IsDir() {
		dir = filepath.Dir(startPath)
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
