package testutil

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/savesvc/pkg/filesystem"
	"github.com/arthur-debert/savesvc/pkg/types"
)

// NewMemoryFS returns an in-memory types.FS for tests.
func NewMemoryFS() types.FS {
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}

// NewReadOnlyFS wraps base so every write operation fails. Used to
// exercise the commit writer's per-cycle failure paths.
func NewReadOnlyFS(base afero.Fs) types.FS {
	return filesystem.NewAferoFS(afero.NewReadOnlyFs(base))
}

// WriteFile creates a file with content, failing the test on error.
func WriteFile(t *testing.T, fsys types.FS, path, content string) {
	t.Helper()
	require.NoError(t, fsys.WriteFile(path, []byte(content), 0644))
}

// ReadFile returns a file's content as a string, failing the test on
// error.
func ReadFile(t *testing.T, fsys types.FS, path string) string {
	t.Helper()
	data, err := fsys.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// FileExists reports whether path exists on fsys.
func FileExists(fsys types.FS, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}
