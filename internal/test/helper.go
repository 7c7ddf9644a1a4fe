package test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// FileContent returns the content of the file at path and fails the test on errors.
func FileContent(t *testing.T, path string) []byte {
	t.Helper()

	// #nosec G304 test files only
	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read data from %s", path)

	return content
}

// WriteFile creates name inside dir with content and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600), "failed to write %s", path)

	return path
}

// NewTmpDirWithCleanup creates a temporary directory that is removed when the test ends.
func NewTmpDirWithCleanup(t *testing.T) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "printings")
	require.NoError(t, err, "failed to create temp dir")

	t.Cleanup(func() {
		if err := os.RemoveAll(dir); err != nil {
			t.Errorf("failed to delete tmp dir %v", err)
		}
	})

	return dir
}
