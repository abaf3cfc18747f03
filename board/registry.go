package board

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/daedaleanai/pbt/log"
	"github.com/daedaleanai/pbt/util"
	"gopkg.in/yaml.v2"
)

// Load reads a board profile from a YAML file.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read board profile: %w", err)
	}

	var p Profile
	if err := yaml.UnmarshalStrict(data, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse board profile '%s': %w", path, err)
	}
	p.ApplyDefaults()
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("invalid board profile '%s': %w", path, err)
	}
	return p, nil
}

// LoadDir loads every *.yaml and *.yml file in `dir`. A missing directory holds no profiles.
func LoadDir(dir string) ([]Profile, error) {
	if !util.DirExists(dir) {
		log.Debug("Board profile directory '%s' does not exist.\n", dir)
		return nil, nil
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read board profile directory %s: %w", dir, err)
	}

	profiles := []Profile{}
	for _, file := range files {
		ext := filepath.Ext(file.Name())
		if file.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		p, err := Load(filepath.Join(dir, file.Name()))
		if err != nil {
			return nil, err
		}
		log.Debug("Loaded board profile '%s' from '%s'.\n", p.ProductName, file.Name())
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// Registry maps board names onto profiles. Lookups ignore case.
type Registry struct {
	profiles util.OrderedMap[string, Profile]
}

// NewRegistry creates a registry. Later profiles replace earlier ones with the same name.
func NewRegistry(profiles ...Profile) *Registry {
	r := &Registry{profiles: util.NewOrderedMap[string, Profile]()}
	for _, p := range profiles {
		key := strings.ToLower(p.ProductName)
		if old, ok := r.profiles.Lookup(key); ok {
			log.Debug("Board profile '%s' replaces '%s'.\n", p.ProductName, old.ProductName)
		}
		r.profiles.Insert(key, p.Clone())
	}
	return r
}

// Lookup returns a copy of the profile called `name`.
func (r *Registry) Lookup(name string) (Profile, bool) {
	p, ok := r.profiles.Lookup(strings.ToLower(name))
	if !ok {
		return Profile{}, false
	}
	return p.Clone(), true
}

// Names returns the product names of all boards, ordered.
func (r *Registry) Names() []string {
	return util.MappedSlice(r.profiles.Values(), func(p Profile) string { return p.ProductName })
}

// Profiles returns copies of all profiles, ordered by name.
func (r *Registry) Profiles() []Profile {
	return util.MappedSlice(r.profiles.Values(), Profile.Clone)
}
