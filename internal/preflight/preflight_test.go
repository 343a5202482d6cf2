package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"vidscribe/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	r := CheckDirectoryAccess("Output directory", dir)
	if !r.Passed {
		t.Fatalf("expected pass, got %+v", r)
	}
	if r.Path != dir || r.Detail != "read/write ok" {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	r := CheckDirectoryAccess("Output directory", filepath.Join(t.TempDir(), "missing"))
	if r.Passed || r.Detail != "does not exist" {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := CheckDirectoryAccess("Models directory", file)
	if r.Passed || r.Detail != "is not a directory" {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestRunAllCoversConfiguredDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = base
	cfg.Paths.ModelsDir = filepath.Join(base, "absent")
	cfg.Paths.WorkDir = base
	cfg.Paths.LogDir = ""

	results := RunAll(&cfg)
	if len(results) != 3 {
		t.Fatalf("expected three checks, got %d", len(results))
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "Models directory" {
		t.Fatalf("unexpected failures %+v", failed)
	}
	if RunAll(nil) != nil {
		t.Fatal("nil config must yield no results")
	}
}
