package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFileSystem_WriteAndReadFile(t *testing.T) {
	osfs := &OSFileSystem{}
	path := filepath.Join(t.TempDir(), "sample.txt")

	require.NoError(t, osfs.WriteFile(path, []byte("content"), 0644))

	data, err := osfs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), data)
}

func TestOSFileSystem_MkdirAllAndStat(t *testing.T) {
	osfs := &OSFileSystem{}
	nested := filepath.Join(t.TempDir(), "a", "b", "c")

	require.NoError(t, osfs.MkdirAll(nested, 0755))

	info, err := osfs.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOSFileSystem_StatMissingFile_ReturnsNotExist(t *testing.T) {
	osfs := &OSFileSystem{}

	_, err := osfs.Stat(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, os.IsNotExist(err))
}

func TestMockFileSystem_TracksDirsAndFiles(t *testing.T) {
	mockFS := NewMockFileSystem()

	require.NoError(t, mockFS.MkdirAll("/srv/ext/data", 0755))
	assert.True(t, mockFS.HasDir("/srv/ext/data"))
	assert.True(t, mockFS.HasDir("/srv/ext"), "intermediate dirs are created")

	require.NoError(t, mockFS.WriteFile("/srv/ext/data/db", nil, 0644))

	info, err := mockFS.Stat("/srv/ext/data/db")
	require.NoError(t, err)
	assert.False(t, info.IsDir())
	assert.Equal(t, int64(0), info.Size())

	_, err = mockFS.Stat("/srv/ext/other")
	assert.True(t, os.IsNotExist(err))
}

func TestMockFileSystem_ErrorInjection(t *testing.T) {
	mockFS := NewMockFileSystem()
	mockFS.MkdirErr = os.ErrPermission

	err := mockFS.MkdirAll("/srv/ext", 0755)
	assert.ErrorIs(t, err, os.ErrPermission)
}
