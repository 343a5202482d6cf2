package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// InstallModel writes a placeholder ggml-<name>.bin into modelsDir.
func InstallModel(t testing.TB, modelsDir, name string) string {
	t.Helper()
	return WriteFile(t, filepath.Join(modelsDir, "ggml-"+name+".bin"), "weights")
}
