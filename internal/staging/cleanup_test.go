package staging

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vidscribe/internal/logging"
)

func TestCleanStaleInvalidPaths(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := CleanStale(context.Background(), dir, time.Hour, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q", dir)
		}
	}
}

func TestCleanStaleRemovesOldWorkspacesOnly(t *testing.T) {
	tmpDir := t.TempDir()
	oldTime := time.Now().Add(-2 * time.Hour)

	oldDir := filepath.Join(tmpDir, "vidscribe-123")
	foreignDir := filepath.Join(tmpDir, "other-app-456")
	recentDir := filepath.Join(tmpDir, "vidscribe-789")
	for _, dir := range []string{oldDir, foreignDir, recentDir} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			t.Fatalf("create %s: %v", dir, err)
		}
	}
	for _, dir := range []string{oldDir, foreignDir} {
		if err := os.Chtimes(dir, oldTime, oldTime); err != nil {
			t.Fatalf("set old time: %v", err)
		}
	}

	result := CleanStale(context.Background(), tmpDir, time.Hour, logging.NewNop())

	if len(result.Removed) != 1 || result.Removed[0] != oldDir {
		t.Fatalf("expected only %s removed, got %v", oldDir, result.Removed)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	for _, dir := range []string{foreignDir, recentDir} {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("%s should survive: %v", dir, err)
		}
	}
}

func TestCleanStaleDisabledWithZeroAge(t *testing.T) {
	tmpDir := t.TempDir()
	dir := filepath.Join(tmpDir, "vidscribe-1")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if result := CleanStale(context.Background(), tmpDir, 0, nil); len(result.Removed) != 0 {
		t.Fatalf("zero max age must disable the sweep: %v", result.Removed)
	}
}

func TestWorkspaceCloseRemovesDirectory(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "work")
	ws, err := NewWorkspace(parent)
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	if filepath.Dir(ws.Dir()) != parent {
		t.Fatalf("workspace %s not under %s", ws.Dir(), parent)
	}
	if err := os.WriteFile(filepath.Join(ws.Dir(), "media.mp3"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ws.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := ws.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := os.Stat(ws.Dir()); !os.IsNotExist(err) {
		t.Fatalf("workspace still exists: %v", err)
	}
}
