// Package toolchain runs the external tools a platform build depends on.
package toolchain

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"

	"github.com/daedaleanai/pbt/log"
)

// Command is one invocation of an external tool.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env replaces the process environment when non-nil.
	Env []string
}

// String renders the command line for logging.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner executes external tools.
type Runner interface {
	// Run returns the exit code of the tool. The error is only set if the
	// tool could not be run at all.
	Run(ctx context.Context, cmd Command) (int, error)
}

// ExecRunner runs tools as child processes and streams their output into the log.
type ExecRunner struct {
	// Output overrides where tool output goes. By default it is logged at info level.
	Output io.Writer
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, c Command) (int, error) {
	log.Debug("Running '%s' in '%s'.\n", c, c.Dir)

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env

	out := r.Output
	if out == nil {
		w := log.Writer(log.InfoLevel)
		defer w.Close()
		out = w
	}
	cmd.Stdout = out
	cmd.Stderr = out

	if !log.Verbose {
		log.Spinner.Suffix = " " + c.Name
		log.Spinner.Start()
		defer log.Spinner.Stop()
	}

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}
