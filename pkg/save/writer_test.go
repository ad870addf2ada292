package save

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svcerrors "github.com/arthur-debert/savesvc/pkg/errors"
	"github.com/arthur-debert/savesvc/pkg/filesystem"
	"github.com/arthur-debert/savesvc/pkg/paths"
	"github.com/arthur-debert/savesvc/pkg/registry"
	"github.com/arthur-debert/savesvc/pkg/testutil"
	"github.com/arthur-debert/savesvc/pkg/types"
)

func TestWriteConfig(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	path := "/data/usersettings.cfg"

	err := WriteConfig(fsys, path, entrySeq(
		registry.Entry{Name: "brightness", Value: registry.String("80")},
		registry.Entry{Name: "volume", InstanceID: 2, Value: registry.String("45")},
	))
	require.NoError(t, err)

	want := "@config User Settings\n\nbrightness=80\n[2]volume=45\n"
	assert.Equal(t, want, testutil.ReadFile(t, fsys, path))

	// No staging file remains after a successful cycle.
	assert.False(t, testutil.FileExists(fsys, paths.StagingPath(path)))
}

func TestWriteConfigEmptyDirtySet(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	path := "/data/usersettings.cfg"

	require.NoError(t, WriteConfig(fsys, path, entrySeq()))

	// Header only: the save is still a full, valid file.
	assert.Equal(t, ConfigHeader, testutil.ReadFile(t, fsys, path))
}

func TestWriteConfigReplacesStaleContent(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	path := "/data/usersettings.cfg"

	testutil.WriteFile(t, fsys, path, "@config User Settings\n\nbrightness=10\n")
	// A stray staging file from an interrupted cycle is tolerated.
	testutil.WriteFile(t, fsys, paths.StagingPath(path), "partial garbage")

	err := WriteConfig(fsys, path, entrySeq(
		registry.Entry{Name: "brightness", Value: registry.String("80")},
	))
	require.NoError(t, err)

	assert.Equal(t, "@config User Settings\n\nbrightness=80\n", testutil.ReadFile(t, fsys, path))
	assert.False(t, testutil.FileExists(fsys, paths.StagingPath(path)))
}

func TestWriteConfigCreateFailureLeavesFinalIntact(t *testing.T) {
	base := afero.NewMemMapFs()
	prior := "@config User Settings\n\nbrightness=10\n"
	require.NoError(t, afero.WriteFile(base, "/data/usersettings.cfg", []byte(prior), 0644))

	fsys := testutil.NewReadOnlyFS(base)

	err := WriteConfig(fsys, "/data/usersettings.cfg", entrySeq(
		registry.Entry{Name: "brightness", Value: registry.String("80")},
	))
	require.Error(t, err)
	assert.True(t, svcerrors.IsErrorCode(err, svcerrors.ErrFileCreate))

	// The previous save is untouched.
	data, rerr := afero.ReadFile(base, "/data/usersettings.cfg")
	require.NoError(t, rerr)
	assert.Equal(t, prior, string(data))
}

// renameFailFS fails every rename, simulating a crash between the
// staging write and the publish step.
type renameFailFS struct {
	types.FS
}

func (r renameFailFS) Rename(oldpath, newpath string) error {
	return errors.New("rename blocked")
}

func TestWriteConfigRenameFailureLeavesFinalIntact(t *testing.T) {
	inner := testutil.NewMemoryFS()
	path := "/data/usersettings.cfg"
	prior := "@config User Settings\n\nbrightness=10\n"
	testutil.WriteFile(t, inner, path, prior)

	fsys := renameFailFS{FS: inner}

	err := WriteConfig(fsys, path, entrySeq(
		registry.Entry{Name: "brightness", Value: registry.String("80")},
	))
	require.Error(t, err)
	assert.True(t, svcerrors.IsErrorCode(err, svcerrors.ErrRename))

	// Final content is the previous complete save; the staging file
	// is left behind for the next cycle to clean up.
	assert.Equal(t, prior, testutil.ReadFile(t, inner, path))
	assert.True(t, testutil.FileExists(inner, paths.StagingPath(path)))

	// The next successful cycle recovers and replaces everything.
	require.NoError(t, WriteConfig(inner, path, entrySeq(
		registry.Entry{Name: "brightness", Value: registry.String("80")},
	)))
	assert.Equal(t, "@config User Settings\n\nbrightness=80\n", testutil.ReadFile(t, inner, path))
	assert.False(t, testutil.FileExists(inner, paths.StagingPath(path)))
}

// headerFailFile fails the first write, simulating a full disk while
// the header goes out.
type headerFailFile struct {
	types.File
}

func (h headerFailFile) Write(p []byte) (int, error) {
	return 0, errors.New("no space left on device")
}

type headerFailFS struct {
	types.FS
}

func (h headerFailFS) OpenFile(name string, flag int, perm fs.FileMode) (types.File, error) {
	f, err := h.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return headerFailFile{File: f}, nil
}

func TestWriteConfigHeaderFailureLeavesFinalIntact(t *testing.T) {
	inner := testutil.NewMemoryFS()
	path := "/data/usersettings.cfg"
	prior := "@config User Settings\n\nbrightness=10\n"
	testutil.WriteFile(t, inner, path, prior)

	err := WriteConfig(headerFailFS{FS: inner}, path, entrySeq(
		registry.Entry{Name: "brightness", Value: registry.String("80")},
	))
	require.Error(t, err)
	assert.True(t, svcerrors.IsErrorCode(err, svcerrors.ErrFileWrite))

	assert.Equal(t, prior, testutil.ReadFile(t, inner, path))
}

func TestWriteConfigOnOSFilesystem(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/usersettings.cfg"
	fsys := filesystem.NewOS()

	require.NoError(t, WriteConfig(fsys, path, entrySeq(
		registry.Entry{Name: "brightness", Value: registry.String("80")},
	)))

	assert.Equal(t, "@config User Settings\n\nbrightness=80\n", testutil.ReadFile(t, fsys, path))
	assert.False(t, testutil.FileExists(fsys, paths.StagingPath(path)))
}
