package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileMode is the default FileMode used when creating files.
const FileMode = 0664

// WorkspaceMarker is the directory whose presence identifies the workspace root.
const WorkspaceMarker = "Platform"

// BuildDirName is the directory that build output and logs are stored in.
const BuildDirName = "Build"

// FileExists checks whether some file exists.
func FileExists(file string) bool {
	stat, err := os.Stat(file)
	return err == nil && !stat.IsDir()
}

// DirExists checks whether some directory exists.
func DirExists(dir string) bool {
	stat, err := os.Stat(dir)
	return err == nil && stat.IsDir()
}

// FindWorkspaceRoot walks up from `p` until it finds a directory containing `marker`.
func FindWorkspaceRoot(p, marker string) (string, error) {
	p, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	for {
		if DirExists(filepath.Join(p, marker)) {
			return p, nil
		}
		parent := filepath.Dir(p)
		if parent == p {
			return "", fmt.Errorf("not inside a workspace (no '%s' directory found)", marker)
		}
		p = parent
	}
}

// GetWorkspaceRoot returns the root directory of the workspace containing the working directory.
func GetWorkspaceRoot() (string, error) {
	workingDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindWorkspaceRoot(workingDir, WorkspaceMarker)
}

// NormalizeRelPath converts a workspace-relative path written with either separator
// into the native form.
func NormalizeRelPath(p string) string {
	return filepath.FromSlash(strings.ReplaceAll(p, `\`, "/"))
}

// ContainsFold reports whether `values` contains `s`, ignoring case.
func ContainsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
