package environment

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarDictSetAndGet(t *testing.T) {
	d := NewVarDict()
	assert.True(t, d.SetValue("TOOL_CHAIN_TAG", "VS2017", "Default tool chain"))

	v, ok := d.GetValue("TOOL_CHAIN_TAG")
	require.True(t, ok)
	assert.Equal(t, "VS2017", v)

	e, ok := d.GetEntry("TOOL_CHAIN_TAG")
	require.True(t, ok)
	assert.Equal(t, "Default tool chain", e.Comment)

	_, ok = d.GetValue("BIOS_INFO_GUID")
	assert.False(t, ok)
}

func TestVarDictLockedEntriesWin(t *testing.T) {
	d := NewVarDict()
	d.SetLocked("TOOL_CHAIN_TAG", "VS2019", "Command line")

	assert.False(t, d.SetValue("TOOL_CHAIN_TAG", "VS2017", "Default tool chain"))
	v, _ := d.GetValue("TOOL_CHAIN_TAG")
	assert.Equal(t, "VS2019", v)
}

func TestVarDictKeysAreOrdered(t *testing.T) {
	d := NewVarDict()
	d.SetValue("TARGET_ARCH", "IA32 X64", "")
	d.SetValue("ACTIVE_PLATFORM", "KabylakeOpenBoardPkg/GalagoPro3/OpenBoardPkg.dsc", "")
	d.SetValue("PRODUCT_NAME", "GalagoPro3", "")

	assert.Equal(t, []string{"ACTIVE_PLATFORM", "PRODUCT_NAME", "TARGET_ARCH"}, d.Keys())
}

func TestBuildDefines(t *testing.T) {
	d := NewVarDict()
	d.SetValue("BLD_*_PLATFORM_BOARD_PACKAGE", "KabylakeOpenBoardPkg", "")
	d.SetValue("BLD_*_PROJECT", "KabylakeOpenBoardPkg/GalagoPro3", "")
	d.SetValue("BLD_DEBUG_PROJECT", "Debug/Project", "")
	d.SetValue("BLD_RELEASE_EXTRA", "ignored", "")
	d.SetValue("PRODUCT_NAME", "GalagoPro3", "")
	d.SetValue("BLD_BROKEN", "ignored", "")

	assert.Equal(t, []string{
		"PLATFORM_BOARD_PACKAGE=KabylakeOpenBoardPkg",
		"PROJECT=Debug/Project",
	}, d.BuildDefines("DEBUG"))

	assert.Equal(t, []string{
		"EXTRA=ignored",
		"PLATFORM_BOARD_PACKAGE=KabylakeOpenBoardPkg",
		"PROJECT=KabylakeOpenBoardPkg/GalagoPro3",
	}, d.BuildDefines("RELEASE"))
}

func TestShellSetAndEnviron(t *testing.T) {
	s := NewShell([]string{"B=2", "A=1", "=C:=C:\\", "MALFORMED"})
	s.Set("INCLUDE", "C:\\VC\\include")

	assert.Equal(t, []string{"A=1", "B=2", "INCLUDE=C:\\VC\\include"}, s.Environ())
}

func TestShellAppendPath(t *testing.T) {
	s := newShell([]string{"Path=/usr/bin"}, false)
	s.AppendPath("/opt/vc/bin")

	v, ok := s.Get("Path")
	require.True(t, ok)
	assert.Equal(t, "/usr/bin"+string(os.PathListSeparator)+"/opt/vc/bin", v)
	_, ok = s.Get("PATH")
	assert.False(t, ok)

	empty := NewShell(nil)
	empty.AppendPath("/opt/vc/bin")
	v, _ = empty.Get("PATH")
	assert.Equal(t, "/opt/vc/bin", v)
}

func TestShellFoldsVariableNames(t *testing.T) {
	s := newShell([]string{"Include=C:\\old", "Path=C:\\bin"}, true)
	s.Set("INCLUDE", "C:\\vc\\include")

	assert.Equal(t, []string{"INCLUDE=C:\\vc\\include", "Path=C:\\bin"}, s.Environ())
	v, ok := s.Get("include")
	require.True(t, ok)
	assert.Equal(t, "C:\\vc\\include", v)

	duplicates := newShell([]string{"Lib=first", "LIB=second"}, true)
	assert.Equal(t, []string{"LIB=second"}, duplicates.Environ())
}

func TestShellKeepsVariableNamesOutsideWindows(t *testing.T) {
	s := newShell([]string{"Include=/old"}, false)
	s.Set("INCLUDE", "/vc/include")

	assert.Equal(t, []string{"INCLUDE=/vc/include", "Include=/old"}, s.Environ())
	_, ok := s.Get("include")
	assert.False(t, ok)
}

func TestShellCheckpointRestore(t *testing.T) {
	s := NewShell([]string{"PATH=/usr/bin", "LIB=old"})
	before := s.Environ()

	id := s.Checkpoint()
	s.Set("LIB", "new")
	s.Set("INCLUDE", "added")
	s.AppendPath("/vc/bin")

	inner := s.Checkpoint()
	s.Set("LIB", "newer")
	require.NoError(t, s.Restore(inner))
	v, _ := s.Get("LIB")
	assert.Equal(t, "new", v)

	require.NoError(t, s.Restore(id))
	assert.Equal(t, before, s.Environ())

	assert.Error(t, s.Restore(id), "checkpoints are consumed by Restore")
	assert.Error(t, s.Restore(-1))
}
