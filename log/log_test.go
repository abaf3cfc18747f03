package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureConsole(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	SetConsoleOutput(&buf)
	t.Cleanup(func() {
		SetConsoleOutput(os.Stderr)
		SetLevel(Console, InfoLevel)
		Verbose = false
		IndentationLevel = 0
	})
	return &buf
}

func TestConsoleHidesDebugUnlessVerbose(t *testing.T) {
	buf := captureConsole(t)

	Debug("hidden\n")
	assert.Empty(t, buf.String())

	Verbose = true
	Debug("shown\n")
	assert.Contains(t, buf.String(), "Debug: \033[0mshown\n")
}

func TestConsoleIndentation(t *testing.T) {
	buf := captureConsole(t)

	IndentationLevel = 2
	Log("nested\n")
	assert.Equal(t, "    nested\n", buf.String())
}

func TestConsoleLevel(t *testing.T) {
	buf := captureConsole(t)

	SetLevel(Console, ErrorLevel)
	Warning("dropped\n")
	Critical("kept\n")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "Critical: \033[0mkept")
}

func TestFileChannels(t *testing.T) {
	captureConsole(t)
	dir := t.TempDir()
	txtPath := filepath.Join(dir, "BUILDLOG_Board.txt")
	mdPath := filepath.Join(dir, "BUILDLOG_Board.md")

	require.NoError(t, OpenFile(Text, txtPath, DebugLevel))
	require.NoError(t, OpenFile(Markdown, mdPath, InfoLevel))

	Debug("debug line\n")
	Critical("rebase failed\n")
	Close()

	txt, err := os.ReadFile(txtPath)
	require.NoError(t, err)
	assert.Contains(t, string(txt), "DEBUG")
	assert.Contains(t, string(txt), "debug line")
	assert.Contains(t, string(txt), "CRITICAL")

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "# BUILDLOG_Board")
	assert.NotContains(t, string(md), "debug line")
	assert.Contains(t, string(md), "- **Critical:** rebase failed")
}

func TestOpenFileRejectsConsole(t *testing.T) {
	assert.Error(t, OpenFile(Console, filepath.Join(t.TempDir(), "x"), InfoLevel))
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("critical")
	require.NoError(t, err)
	assert.Equal(t, CriticalLevel, level)

	level, err = ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, DebugLevel, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestParseChannel(t *testing.T) {
	for name, want := range map[string]Channel{"con": Console, "Text": Text, "markdown": Markdown} {
		got, err := ParseChannel(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseChannel("syslog")
	assert.Error(t, err)
}
