package environment

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
)

const pathKey = "PATH"

// Shell is an explicit copy of the process environment. External tools receive
// Environ() instead of inheriting os.Environ, so changes never leak into the process.
type Shell struct {
	vars        map[string]string
	checkpoints []map[string]string
	// foldCase matches variable names case-insensitively, as Windows does.
	foldCase bool
}

// NewShell creates a Shell from KEY=VALUE pairs, e.g. os.Environ().
func NewShell(environ []string) *Shell {
	return newShell(environ, runtime.GOOS == "windows")
}

func newShell(environ []string, foldCase bool) *Shell {
	s := &Shell{vars: map[string]string{}, foldCase: foldCase}
	for _, kv := range environ {
		parts := strings.SplitN(kv, "=", 2)
		// Windows keeps per-drive working directories in variables like "=C:".
		if len(parts) != 2 || parts[0] == "" {
			continue
		}
		s.Set(parts[0], parts[1])
	}
	return s
}

// lookupKey returns the name under which `key` is stored, or `key` itself.
func (s *Shell) lookupKey(key string) string {
	if _, ok := s.vars[key]; ok || !s.foldCase {
		return key
	}
	for k := range s.vars {
		if strings.EqualFold(k, key) {
			return k
		}
	}
	return key
}

// Get returns the value of a shell variable.
func (s *Shell) Get(key string) (string, bool) {
	v, ok := s.vars[s.lookupKey(key)]
	return v, ok
}

// Set sets a shell variable, overwriting any previous value. On Windows a
// variable spelled differently is replaced, so the child sees a single entry.
func (s *Shell) Set(key, value string) {
	if existing := s.lookupKey(key); existing != key {
		delete(s.vars, existing)
	}
	s.vars[key] = value
}

// AppendPath appends `value` to the search path. The existing PATH variable is
// matched case-insensitively.
func (s *Shell) AppendPath(value string) {
	key := pathKey
	for k := range s.vars {
		if strings.EqualFold(k, pathKey) {
			key = k
			break
		}
	}
	current := s.vars[key]
	if current == "" {
		s.vars[key] = value
		return
	}
	s.vars[key] = current + string(os.PathListSeparator) + value
}

// Environ returns the environment as sorted KEY=VALUE pairs.
func (s *Shell) Environ() []string {
	result := make([]string, 0, len(s.vars))
	for k, v := range s.vars {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)
	return result
}

// Checkpoint saves the current environment and returns an id for Restore.
func (s *Shell) Checkpoint() int {
	s.checkpoints = append(s.checkpoints, copyVars(s.vars))
	return len(s.checkpoints) - 1
}

// Restore reverts the environment to checkpoint `id` and drops it together with
// every checkpoint taken after it.
func (s *Shell) Restore(id int) error {
	if id < 0 || id >= len(s.checkpoints) {
		return fmt.Errorf("unknown environment checkpoint %d", id)
	}
	s.vars = copyVars(s.checkpoints[id])
	s.checkpoints = s.checkpoints[:id]
	return nil
}

func copyVars(vars map[string]string) map[string]string {
	result := make(map[string]string, len(vars))
	for k, v := range vars {
		result[k] = v
	}
	return result
}
