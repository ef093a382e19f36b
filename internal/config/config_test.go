package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	f := &File{Collector: CollectorSection{
		Mode:             "concurrent",
		MaxHeapBytes:     1 << 20,
		GCThreshold:      0.8,
		CollectorThreads: 4,
		WorkerCount:      2,
		FullDebug:        true,
	}}

	path := filepath.Join(t.TempDir(), FileName)
	if err := f.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *got != *f {
		t.Errorf("round trip mismatch: expected %+v, got %+v", f, got)
	}
}

func TestFindConfigFileWalksUp(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("[collector]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	found := FindConfigFile(nested)
	want := filepath.Join(root, FileName)
	if found != want {
		t.Errorf("expected %s, got %s", want, found)
	}
}

func TestFindConfigFileNotFound(t *testing.T) {
	dir := t.TempDir()
	if found := FindConfigFile(dir); found != "" {
		t.Errorf("expected no config found, got %s", found)
	}
}
