// Package toolchaintest provides fake tools for testing build steps.
package toolchaintest

import (
	"context"

	"github.com/daedaleanai/pbt/toolchain"
)

// Runner records every command and answers with a preset exit code per tool name.
type Runner struct {
	Codes map[string]int
	// Errs makes a tool fail to start.
	Errs map[string]error
	// OnRun is called for every command before it returns.
	OnRun func(c toolchain.Command)

	Calls []toolchain.Command
}

// Run implements toolchain.Runner.
func (r *Runner) Run(ctx context.Context, c toolchain.Command) (int, error) {
	r.Calls = append(r.Calls, c)
	if r.OnRun != nil {
		r.OnRun(c)
	}
	if err := r.Errs[c.Name]; err != nil {
		return -1, err
	}
	return r.Codes[c.Name], nil
}

// Names returns the tool names in the order they ran.
func (r *Runner) Names() []string {
	names := []string{}
	for _, c := range r.Calls {
		names = append(names, c.Name)
	}
	return names
}

// Locator answers every query with fixed variables.
type Locator struct {
	Vars map[string]string
	Err  error

	Arch string
	Keys []string
}

// Query implements toolchain.Locator.
func (l *Locator) Query(ctx context.Context, keys []string, arch string) (map[string]string, error) {
	l.Arch = arch
	l.Keys = keys
	if l.Err != nil {
		return nil, l.Err
	}
	result := map[string]string{}
	for k, v := range l.Vars {
		result[k] = v
	}
	return result, nil
}
