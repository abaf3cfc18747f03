package build

import (
	"context"
	"os"
	"strings"

	"github.com/daedaleanai/pbt/builderr"
	"github.com/daedaleanai/pbt/log"
	"github.com/daedaleanai/pbt/platform"
	"github.com/daedaleanai/pbt/toolchain"
)

// Compiler compiles the firmware once the environment is set up.
type Compiler interface {
	Compile(ctx context.Context, bc *platform.BuildContext, packagesPath []string) error
}

// EDK2Compiler runs the EDK2 build command.
type EDK2Compiler struct {
	Command string
}

// Compile implements Compiler.
func (c EDK2Compiler) Compile(ctx context.Context, bc *platform.BuildContext, packagesPath []string) error {
	args, err := CompilerArgs(bc)
	if err != nil {
		return err
	}

	bc.Shell.Set("WORKSPACE", bc.WorkspaceRoot)
	bc.Shell.Set("PACKAGES_PATH", strings.Join(packagesPath, string(os.PathListSeparator)))

	command := c.Command
	if command == "" {
		command = "build"
	}
	code, err := bc.Runner.Run(ctx, toolchain.Command{
		Name: command,
		Args: args,
		Dir:  bc.WorkspaceRoot,
		Env:  bc.Shell.Environ(),
	})
	if err != nil || code != 0 {
		log.Critical("%s returned %d\n", command, code)
		return builderr.Tool(command, code, err)
	}
	return nil
}

// CompilerArgs returns the arguments of the EDK2 build command for the environment in `bc`.
func CompilerArgs(bc *platform.BuildContext) ([]string, error) {
	required := map[string]string{}
	for _, key := range []string{"ACTIVE_PLATFORM", "TARGET", "TOOL_CHAIN_TAG", "TARGET_ARCH"} {
		value, ok := bc.Env.GetValue(key)
		if !ok || value == "" {
			return nil, builderr.Configuration("Compile", key+" is not set")
		}
		required[key] = value
	}

	args := []string{
		"-p", required["ACTIVE_PLATFORM"],
		"-b", required["TARGET"],
		"-t", required["TOOL_CHAIN_TAG"],
	}
	for _, arch := range strings.Fields(required["TARGET_ARCH"]) {
		args = append(args, "-a", arch)
	}
	for _, define := range bc.Env.BuildDefines(required["TARGET"]) {
		args = append(args, "-D", define)
	}
	if pcds, ok := bc.Env.GetValue(platform.PcdOverridesKey); ok {
		for _, pcd := range strings.Fields(pcds) {
			args = append(args, "--pcd", pcd)
		}
	}
	return args, nil
}
