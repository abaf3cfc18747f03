package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindWorkspaceRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "Platform", "Intel", "KabylakeOpenBoardPkg", "GalagoPro3")
	require.NoError(t, os.MkdirAll(nested, 0770))

	found, err := FindWorkspaceRoot(nested, WorkspaceMarker)
	require.NoError(t, err)
	assert.Equal(t, root, found)

	_, err = FindWorkspaceRoot(root, "NoSuchMarker")
	assert.Error(t, err)
}

func TestFileAndDirExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "OpenBoardPkg.dsc")
	require.NoError(t, os.WriteFile(file, nil, FileMode))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(dir))
	assert.True(t, DirExists(dir))
	assert.False(t, DirExists(file))
}

func TestNormalizeRelPath(t *testing.T) {
	assert.Equal(t, filepath.Join("Silicon", "Intel", "Tools"), NormalizeRelPath(`Silicon\Intel\Tools`))
	assert.Equal(t, filepath.Join("EDK2", "MdePkg"), NormalizeRelPath("EDK2/MdePkg"))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold([]string{"IA32", "X64"}, "x64"))
	assert.False(t, ContainsFold([]string{"IA32", "X64"}, "ARM"))
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("v1.10.2")
	require.NoError(t, err)
	assert.Equal(t, Version{1, 10, 2}, v)
	assert.Equal(t, "v1.10.2", v.String())

	_, err = ParseVersion("1.10")
	assert.Error(t, err)
}

func TestVersionLess(t *testing.T) {
	assert.True(t, Version{0, 2, 9}.Less(Version{0, 3, 0}))
	assert.True(t, Version{0, 3, 0}.Less(Version{1, 0, 0}))
	assert.False(t, Version{0, 3, 0}.Less(Version{0, 3, 0}))
	assert.False(t, Version{1, 0, 0}.Less(Version{0, 9, 9}))
}
