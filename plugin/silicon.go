package plugin

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/daedaleanai/pbt/builderr"
	"github.com/daedaleanai/pbt/log"
	"github.com/daedaleanai/pbt/platform"
	"github.com/daedaleanai/pbt/toolchain"

	"github.com/google/uuid"
)

// SiliconToolsScope activates the SiliconTools plugin.
const SiliconToolsScope = "intel_silicon_tools"

// SiliconToolsDir is where the silicon tools makefile lives, relative to the workspace.
const SiliconToolsDir = "Silicon/Intel/Tools"

// SiliconTools builds the Intel silicon tools before the firmware and generates the
// Firmware Interface Table afterwards if the board defines BIOS_INFO_GUID.
type SiliconTools struct {
	// Dir contains the tools makefile. Relative paths are resolved against the workspace.
	Dir     string
	Locator toolchain.Locator
	Nmake   string
	FitGen  string
}

// NewSiliconTools creates the plugin with the default tool names.
func NewSiliconTools(locator toolchain.Locator) *SiliconTools {
	return &SiliconTools{
		Dir:     SiliconToolsDir,
		Locator: locator,
		Nmake:   "nmake",
		FitGen:  "FitGen",
	}
}

func (s *SiliconTools) Name() string {
	return "IntelSiliconTools"
}

func (s *SiliconTools) Scope() string {
	return SiliconToolsScope
}

// PreBuild builds the tools with the Visual C++ environment. The shell is restored
// afterwards whatever the outcome.
func (s *SiliconTools) PreBuild(ctx context.Context, bc *platform.BuildContext) (err error) {
	log.Info("PreBuild: Building the Intel Silicon Tools\n")

	checkpoint := bc.Shell.Checkpoint()
	defer func() {
		if restoreErr := bc.Shell.Restore(checkpoint); restoreErr != nil && err == nil {
			err = restoreErr
		}
	}()

	vars, err := s.Locator.Query(ctx, toolchain.VCVariables, "x86")
	if err != nil {
		return fmt.Errorf("failed to query Visual C++ variables: %w", err)
	}
	for _, key := range toolchain.VCVariables {
		value, ok := vars[key]
		if !ok {
			continue
		}
		if strings.EqualFold(key, "PATH") {
			bc.Shell.AppendPath(value)
		} else {
			bc.Shell.Set(key, value)
		}
	}

	code, runErr := bc.Runner.Run(ctx, toolchain.Command{
		Name: s.Nmake,
		Dir:  s.dir(bc.WorkspaceRoot),
		Env:  bc.Shell.Environ(),
	})
	if runErr != nil || code != 0 {
		log.Critical("%s returned %d\n", s.Nmake, code)
		return builderr.Tool(s.Nmake, code, runErr)
	}
	return nil
}

// PostBuild generates the FIT. Without BIOS_INFO_GUID there is nothing to do.
func (s *SiliconTools) PostBuild(ctx context.Context, bc *platform.BuildContext) error {
	guid, ok := bc.Env.GetValue("BIOS_INFO_GUID")
	if !ok {
		log.Info("BIOS_INFO_GUID not supplied, skipping FIT generation\n")
		return nil
	}
	if _, err := uuid.Parse(guid); err != nil {
		return builderr.Configuration("PostBuild", fmt.Sprintf("malformed BIOS_INFO_GUID: %s", err), guid)
	}
	outputBase, ok := bc.Env.GetValue("BUILD_OUTPUT_BASE")
	if !ok {
		return builderr.Configuration("PostBuild", "BUILD_OUTPUT_BASE is not set")
	}
	boardName, ok := bc.Env.GetValue("BOARD")
	if !ok {
		return builderr.Configuration("PostBuild", "BOARD is not set")
	}

	log.Info("Generating FIT...\n")
	final := filepath.Join(outputBase, "FV", strings.ToUpper(boardName)+".fd")
	temp := filepath.Join(outputBase, "FV", "Temp.fd")
	log.Debug("fdFinal: %s\nfdTemp: %s\n", final, temp)

	code, err := bc.Runner.Run(ctx, toolchain.Command{
		Name: s.FitGen,
		Args: FitGenArgs(final, temp, guid),
		Env:  bc.Shell.Environ(),
	})
	if err != nil || code != 0 {
		log.Critical("%s returned: %d\n", s.FitGen, code)
		return builderr.Tool(s.FitGen, code, err)
	}
	return nil
}

// FitGenArgs returns the FitGen arguments that patch the FIT of image `final`
// via `temp` with the BIOS info GUID.
func FitGenArgs(final, temp, guid string) []string {
	return []string{"-D", final, temp, "-NA", "-I", guid}
}

func (s *SiliconTools) dir(root string) string {
	if filepath.IsAbs(s.Dir) {
		return s.Dir
	}
	return filepath.Join(root, filepath.FromSlash(s.Dir))
}
