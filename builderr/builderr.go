// Package builderr provides the error kinds that abort a platform build.
package builderr

import (
	"errors"
	"fmt"
	"strings"
)

// Op describes an operation, usually as the name of the method.
type Op string

// ConfigurationError reports a request the selected board cannot satisfy.
// It is raised before any build step runs.
type ConfigurationError struct {
	Op Op
	// Unsupported lists the offending values, if any.
	Unsupported []string
	Info        string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")
	if e.Op != "" {
		b.WriteString(": " + string(e.Op))
	}
	if e.Info != "" {
		b.WriteString(": " + e.Info)
	}
	if len(e.Unsupported) > 0 {
		b.WriteString(": " + strings.Join(e.Unsupported, " "))
	}
	return b.String()
}

// Configuration creates a ConfigurationError.
func Configuration(op Op, info string, unsupported ...string) error {
	return &ConfigurationError{Op: op, Info: info, Unsupported: unsupported}
}

// ToolError reports an external process that failed. Code is the process exit code,
// or -1 when the process could not be started (Err is set in that case).
type ToolError struct {
	Tool string
	Code int
	Err  error
}

func (e *ToolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s", e.Tool, e.Err)
	}
	return fmt.Sprintf("%s returned %d", e.Tool, e.Code)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Tool creates a ToolError.
func Tool(tool string, code int, err error) error {
	return &ToolError{Tool: tool, Code: code, Err: err}
}

// ExitCode maps an error onto a process exit code: 0 for nil, the tool's
// exit code for a ToolError and 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var toolErr *ToolError
	if errors.As(err, &toolErr) && toolErr.Code > 0 {
		return toolErr.Code
	}
	return 1
}

// IsConfiguration reports whether err is or wraps a ConfigurationError.
func IsConfiguration(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
