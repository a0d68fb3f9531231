package installer

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fs "github.com/TheAppgineer/extension-installer-docker/pkg/filesystem"
	"github.com/TheAppgineer/extension-installer-docker/pkg/logging"
)

func newTestProvisioner() (*bindProvisioner, *fs.MockFileSystem) {
	mockFS := fs.NewMockFileSystem()
	return &bindProvisioner{fs: mockFS, logger: logging.NoopLogger{}}, mockFS
}

func TestProvision_CreatesDirAndBackingFile(t *testing.T) {
	provisioner, mockFS := newTestProvisioner()

	entries, err := provisioner.provision("/srv/ext", []string{"/data/db"})
	require.NoError(t, err)

	assert.Equal(t, []string{"/srv/ext/data/db:/data/db"}, entries)
	assert.True(t, mockFS.HasDir("/srv/ext/data"))

	content, exists := mockFS.FileContent("/srv/ext/data/db")
	require.True(t, exists)
	assert.Empty(t, content, "backing file starts empty")
}

func TestProvision_WalksFromLastBindToFirst(t *testing.T) {
	provisioner, _ := newTestProvisioner()

	entries, err := provisioner.provision("/srv/ext", []string{"/alpha", "/beta", "/gamma"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/srv/ext/gamma:/gamma",
		"/srv/ext/beta:/beta",
		"/srv/ext/alpha:/alpha",
	}, entries)
}

func TestProvision_IsIdempotent(t *testing.T) {
	provisioner, mockFS := newTestProvisioner()

	// An earlier install left data behind.
	require.NoError(t, mockFS.MkdirAll("/srv/ext/data", 0755))
	require.NoError(t, mockFS.WriteFile("/srv/ext/data/db", []byte("precious"), 0644))

	for run := 0; run < 2; run++ {
		entries, err := provisioner.provision("/srv/ext", []string{"/data/db"})
		require.NoError(t, err)
		assert.Equal(t, []string{"/srv/ext/data/db:/data/db"}, entries)
	}

	content, _ := mockFS.FileContent("/srv/ext/data/db")
	assert.Equal(t, []byte("precious"), content, "existing files are never overwritten")
}

func TestProvision_SkipsRelativeBinds(t *testing.T) {
	provisioner, mockFS := newTestProvisioner()

	entries, err := provisioner.provision("/srv/ext", []string{"volume-target", "/data/db"})
	require.NoError(t, err)

	assert.Equal(t, []string{"/srv/ext/data/db:/data/db"}, entries)
	_, exists := mockFS.FileContent("/srv/ext/volume-target")
	assert.False(t, exists, "relative binds get no host backing")
}

func TestProvision_NoBinds(t *testing.T) {
	provisioner, _ := newTestProvisioner()

	entries, err := provisioner.provision("/srv/ext", nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestProvision_MkdirFailureAborts(t *testing.T) {
	provisioner, mockFS := newTestProvisioner()
	mockFS.MkdirErr = os.ErrPermission

	_, err := provisioner.provision("/srv/ext", []string{"/data/db"})
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestProvision_StatFailureAborts(t *testing.T) {
	provisioner, mockFS := newTestProvisioner()
	mockFS.StatErr = os.ErrPermission

	_, err := provisioner.provision("/srv/ext", []string{"/data/db"})
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestProvision_WriteFailureAborts(t *testing.T) {
	provisioner, mockFS := newTestProvisioner()
	mockFS.WriteErr = os.ErrPermission

	_, err := provisioner.provision("/srv/ext", []string{"/data/db"})
	assert.ErrorIs(t, err, os.ErrPermission)
}
