package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/daedaleanai/pbt/board"
	"github.com/daedaleanai/pbt/builderr"
	"github.com/daedaleanai/pbt/environment"
	"github.com/daedaleanai/pbt/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	positional, vars := parseArgs([]string{"GalagoPro3", "TARGET=RELEASE", "BLD_*_EXTRA=a=b", "EMPTY="})
	assert.Equal(t, []string{"GalagoPro3"}, positional)
	assert.Equal(t, map[string]string{
		"TARGET":      "RELEASE",
		"BLD_*_EXTRA": "a=b",
		"EMPTY":       "",
	}, vars)
}

func TestPrintEnv(t *testing.T) {
	env := environment.NewVarDict()
	env.SetValue("PRODUCT_NAME", "GalagoPro3", "Platform Hardcoded")
	env.SetLocked("TARGET", "RELEASE", commandLine)
	env.SetValue("NO_COMMENT", "x", "")

	var out bytes.Buffer
	printEnv(&out, env)
	assert.Equal(t, "  NO_COMMENT='x'\n"+
		"  PRODUCT_NAME='GalagoPro3' // Platform Hardcoded\n"+
		"  TARGET='RELEASE' // From command line\n", out.String())
}

func TestPrintBoards(t *testing.T) {
	var out bytes.Buffer
	printBoards(&out, []board.Profile{board.KabylakeRvp3()})
	assert.Equal(t, "  KblRvp3 [IA32, X64]  (Intel Kaby Lake RVP3)\n", out.String())
}

func TestLockedVars(t *testing.T) {
	s := &session{}
	s.config.ToolChainTag = "VS2019"

	env := s.lockedVars(map[string]string{"TARGET": "RELEASE"})
	e, ok := env.GetEntry("TOOL_CHAIN_TAG")
	require.True(t, ok)
	assert.Equal(t, environment.Entry{Value: "VS2019", Comment: "Configuration", Locked: true}, e)
	assert.False(t, env.SetValue("TOOL_CHAIN_TAG", "VS2017", "Default tool chain"))

	env = s.lockedVars(map[string]string{"TOOL_CHAIN_TAG": "CLANGPDB"})
	e, _ = env.GetEntry("TOOL_CHAIN_TAG")
	assert.Equal(t, environment.Entry{Value: "CLANGPDB", Comment: commandLine, Locked: true}, e)

	env = (&session{}).lockedVars(nil)
	_, ok = env.GetValue("TOOL_CHAIN_TAG")
	assert.False(t, ok)
}

func TestPrintVersion(t *testing.T) {
	var out bytes.Buffer
	printVersion(&out, "")
	assert.Equal(t, "pbt "+util.PbtVersion.String()+"\n", out.String())

	out.Reset()
	printVersion(&out, "0.2.0")
	assert.Equal(t, "pbt "+util.PbtVersion.String()+"\nrequired by configuration: 0.2.0\n", out.String())
}

func withWorkspace(t *testing.T) string {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("PBT_CONFIG_DIR", filepath.Join(dir, "config"))

	root := filepath.Join(dir, "ws")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Platform", "Profiles"), 0775))
	workspaceFlag = root
	t.Cleanup(func() { workspaceFlag = "" })
	return root
}

func TestSession(t *testing.T) {
	root := withWorkspace(t)
	profile := "product_name: GalagoPro3\nboard_package: KabylakeOpenBoardPkg\narchitectures: [X64]\ndescription: override\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "Platform", "Profiles", "galago.yaml"), []byte(profile), 0664))

	s, err := openSession()
	require.NoError(t, err)
	assert.Equal(t, []string{"GalagoPro3", "KblRvp3"}, s.registry.Names())

	p, err := s.platform("galagopro3")
	require.NoError(t, err)
	assert.Equal(t, root, p.WorkspaceRoot())
	assert.Equal(t, []string{"X64"}, p.ArchitecturesSupported())
	assert.Equal(t, "python", p.Python)

	_, err = s.platform("Ovmf")
	assert.True(t, builderr.IsConfiguration(err))
	assert.Contains(t, err.Error(), "Ovmf")
}
