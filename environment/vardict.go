// Package environment holds the two environments a platform build works with: the build
// variables consulted by every build step (VarDict) and the shell environment handed to
// external tools (Shell).
package environment

import (
	"strings"

	"github.com/daedaleanai/pbt/log"
	"github.com/daedaleanai/pbt/util"
)

const (
	buildDefinePrefix = "BLD_"
	anyTarget         = "*"
)

// Entry is one build variable together with where it came from.
type Entry struct {
	Value   string
	Comment string
	// Locked entries were supplied by the user and are never overwritten.
	Locked bool
}

// VarDict is the key/value environment the build consults for every build step.
type VarDict struct {
	entries util.OrderedMap[string, Entry]
}

// NewVarDict creates an empty VarDict.
func NewVarDict() *VarDict {
	return &VarDict{entries: util.NewOrderedMap[string, Entry]()}
}

// SetValue stores `value` under `key` unless the key is locked. It reports whether the value was stored.
func (d *VarDict) SetValue(key, value, comment string) bool {
	if existing, ok := d.entries.Lookup(key); ok && existing.Locked {
		if existing.Value != value {
			log.Debug("Not overriding %s='%s' (%s) with '%s' (%s).\n", key, existing.Value, existing.Comment, value, comment)
		}
		return false
	}
	d.entries.Insert(key, Entry{Value: value, Comment: comment})
	return true
}

// SetLocked stores a value that later SetValue calls cannot change.
func (d *VarDict) SetLocked(key, value, comment string) {
	d.entries.Insert(key, Entry{Value: value, Comment: comment, Locked: true})
}

// GetValue returns the value stored under `key`.
func (d *VarDict) GetValue(key string) (string, bool) {
	e, ok := d.entries.Lookup(key)
	return e.Value, ok
}

// GetEntry returns the full entry stored under `key`.
func (d *VarDict) GetEntry(key string) (Entry, bool) {
	return d.entries.Lookup(key)
}

// Keys returns all keys in lexical order.
func (d *VarDict) Keys() []string {
	return d.entries.Keys()
}

// Entries returns all entries ordered by key.
func (d *VarDict) Entries() []util.OrderedMapEntry[string, Entry] {
	return d.entries.Entries()
}

// BuildDefines returns the BLD_*_NAME and BLD_<target>_NAME variables as NAME=VALUE
// pairs ordered by name. Target specific values take precedence.
func (d *VarDict) BuildDefines(target string) []string {
	defines := map[string]string{}
	targetSpecific := map[string]bool{}
	for _, entry := range d.entries.Entries() {
		scope, name, ok := splitBuildDefine(entry.Key)
		if !ok {
			continue
		}
		switch {
		case strings.EqualFold(scope, target):
			defines[name] = entry.Value.Value
			targetSpecific[name] = true
		case scope == anyTarget && !targetSpecific[name]:
			defines[name] = entry.Value.Value
		}
	}

	result := []string{}
	for _, name := range util.OrderedKeys(defines) {
		result = append(result, name+"="+defines[name])
	}
	return result
}

func splitBuildDefine(key string) (string, string, bool) {
	rest, ok := strings.CutPrefix(key, buildDefinePrefix)
	if !ok {
		return "", "", false
	}
	parts := strings.SplitN(rest, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
