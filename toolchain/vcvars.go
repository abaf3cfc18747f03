package toolchain

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/daedaleanai/pbt/log"
)

// VCVariables are the variables of the Visual C++ build environment the native
// silicon tools need.
var VCVariables = []string{
	"ExtensionSdkDir", "INCLUDE", "LIB", "LIBPATH", "UniversalCRTSdkDir",
	"UCRTVersion", "WindowsLibPath", "WindowsSdkBinPath", "WindowsSdkDir", "WindowsSdkVerBinPath",
	"WindowsSDKVersion", "VCToolsInstallDir", "PATH",
}

// Locator resolves the environment of a native toolchain.
type Locator interface {
	// Query returns the values of `keys` for the toolchain targeting `arch`.
	// Keys the toolchain does not define are left out.
	Query(ctx context.Context, keys []string, arch string) (map[string]string, error)
}

// VSLocator finds Visual Studio with vswhere and reads the variables vcvarsall sets.
type VSLocator struct {
	// VSWhere is the vswhere executable.
	VSWhere string
	// Shell runs vcvarsall. Defaults to cmd.exe.
	Shell string
}

// Query implements Locator.
func (l VSLocator) Query(ctx context.Context, keys []string, arch string) (map[string]string, error) {
	installPath, err := l.installationPath(ctx)
	if err != nil {
		return nil, err
	}
	vcvarsall := filepath.Join(installPath, "VC", "Auxiliary", "Build", "vcvarsall.bat")
	log.Debug("Using '%s'.\n", vcvarsall)

	shell := l.Shell
	if shell == "" {
		shell = "cmd.exe"
	}
	var stdout bytes.Buffer
	runner := ExecRunner{Output: &stdout}
	code, err := runner.Run(ctx, Command{
		Name: shell,
		Args: []string{"/c", "call", vcvarsall, arch, "&&", "set"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to run vcvarsall: %w", err)
	}
	if code != 0 {
		return nil, fmt.Errorf("vcvarsall returned %d", code)
	}
	return FilterVariables(stdout.Bytes(), keys)
}

func (l VSLocator) installationPath(ctx context.Context) (string, error) {
	vswhere := l.VSWhere
	if vswhere == "" {
		vswhere = "vswhere.exe"
	}
	var stdout bytes.Buffer
	runner := ExecRunner{Output: &stdout}
	code, err := runner.Run(ctx, Command{
		Name: vswhere,
		Args: []string{"-latest", "-nologo", "-property", "installationPath"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to locate Visual Studio: %w", err)
	}
	installPath := strings.TrimSpace(stdout.String())
	if code != 0 || installPath == "" {
		return "", fmt.Errorf("no Visual Studio installation found (vswhere returned %d)", code)
	}
	return installPath, nil
}

// FilterVariables parses `set` output and keeps the variables listed in `keys`.
// Keys are matched case-insensitively but reported with the requested spelling.
func FilterVariables(setOutput []byte, keys []string) (map[string]string, error) {
	wanted := map[string]string{}
	for _, k := range keys {
		wanted[strings.ToUpper(k)] = k
	}

	result := map[string]string{}
	scanner := bufio.NewScanner(bytes.NewReader(setOutput))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		if key, ok := wanted[strings.ToUpper(parts[0])]; ok {
			result[key] = parts[1]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read toolchain variables: %w", err)
	}

	for _, k := range keys {
		if _, ok := result[k]; !ok {
			log.Debug("Toolchain does not define '%s'.\n", k)
		}
	}
	return result, nil
}
