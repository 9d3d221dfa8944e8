package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"ppdeploy/internal/ports"
)

var _ ports.FileSystem = (*TestFileSystem)(nil)

// TestFileSystem provides real file system operations sandboxed within a temporary directory.
// All paths are automatically resolved relative to the sandbox directory.
// Use this in tests that need to actually read/write files.
// For unit tests that mock file system calls, use MockFileSystem instead.
type TestFileSystem struct {
	baseDir string
	writes  int
}

// NewTestFileSystem creates a sandboxed file system within a temporary directory.
// The directory is automatically cleaned up when the test completes.
func NewTestFileSystem(t *testing.T) *TestFileSystem {
	t.Helper()
	return &TestFileSystem{baseDir: t.TempDir()}
}

// BaseDir returns the sandbox base directory path.
func (f *TestFileSystem) BaseDir() string {
	return f.baseDir
}

// Writes returns how many times WriteFile was called.
func (f *TestFileSystem) Writes() int {
	return f.writes
}

// Seed writes a fixture file without counting it as a write.
func (f *TestFileSystem) Seed(t *testing.T, path string, content string) {
	t.Helper()
	resolved := f.resolvePath(path)
	if err := os.MkdirAll(filepath.Dir(resolved), 0700); err != nil {
		t.Fatalf("failed to seed %s: %v", path, err)
	}
	if err := os.WriteFile(resolved, []byte(content), 0600); err != nil {
		t.Fatalf("failed to seed %s: %v", path, err)
	}
}

// Content reads a file from the sandbox, failing the test if it is missing.
func (f *TestFileSystem) Content(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(f.resolvePath(path))
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// resolvePath converts a path to be relative to the sandbox directory.
func (f *TestFileSystem) resolvePath(path string) string {
	cleanPath := filepath.Clean(path)
	if filepath.IsAbs(cleanPath) {
		// Remove the root to make it relative (e.g., "/foo/bar" -> "foo/bar")
		cleanPath = cleanPath[1:]
	}
	return filepath.Join(f.baseDir, cleanPath)
}

func (f *TestFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(f.resolvePath(path))
}

func (f *TestFileSystem) WriteFile(path string, content []byte, _ ports.AccessMode) error {
	f.writes++
	resolved := f.resolvePath(path)
	if err := os.MkdirAll(filepath.Dir(resolved), 0700); err != nil {
		return err
	}
	return os.WriteFile(resolved, content, 0600)
}

func (f *TestFileSystem) EnsureDirExists(path string) error {
	return os.MkdirAll(filepath.Dir(f.resolvePath(path)), 0700)
}

func (f *TestFileSystem) FileExists(path string) (bool, error) {
	_, err := os.Stat(f.resolvePath(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (f *TestFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(f.resolvePath(path))
}
