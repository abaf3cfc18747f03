package toolchain

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterVariables(t *testing.T) {
	output := []byte("ALLUSERSPROFILE=C:\\ProgramData\r\n" +
		"INCLUDE=C:\\VC\\include;C:\\SDK\\include\r\n" +
		"Path=C:\\VC\\bin;C:\\Windows\r\n" +
		"WindowsSdkDir=C:\\SDK\\\r\n" +
		"garbage line\r\n")

	vars, err := FilterVariables(output, VCVariables)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"INCLUDE":       "C:\\VC\\include;C:\\SDK\\include",
		"PATH":          "C:\\VC\\bin;C:\\Windows",
		"WindowsSdkDir": "C:\\SDK\\",
	}, vars)
}

func TestFilterVariablesLineTooLong(t *testing.T) {
	output := []byte("INCLUDE=" + strings.Repeat("x", 2*1024*1024) + "\r\nLIB=C:\\VC\\lib\r\n")

	_, err := FilterVariables(output, VCVariables)
	assert.ErrorIs(t, err, bufio.ErrTooLong)
}

func TestCommandString(t *testing.T) {
	c := Command{Name: "FitGen", Args: []string{"-D", "/out/FV/BOARDX.fd", "/out/FV/Temp.fd", "-NA", "-I", "GUID"}}
	assert.Equal(t, "FitGen -D /out/FV/BOARDX.fd /out/FV/Temp.fd -NA -I GUID", c.String())
	assert.Equal(t, "nmake", Command{Name: "nmake"}.String())
}

func requireShell(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunnerExitCode(t *testing.T) {
	requireShell(t)
	var out bytes.Buffer
	r := ExecRunner{Output: &out}

	code, err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo $GREETING; exit 3"}, Env: []string{"GREETING=hello"}})
	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Equal(t, "hello\n", out.String())
}

func TestExecRunnerWorkingDirectory(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	var out bytes.Buffer

	code, err := ExecRunner{Output: &out}.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "pwd -P"}, Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.NotEmpty(t, out.String())
}

func TestExecRunnerMissingTool(t *testing.T) {
	code, err := ExecRunner{Output: &bytes.Buffer{}}.Run(context.Background(), Command{Name: "definitely-not-a-real-tool-pbt"})
	assert.Error(t, err)
	assert.Equal(t, -1, code)
}
