// Package board describes the buildable boards. A Profile is immutable identity data:
// names, supported architectures and targets, active scopes, and the workspace-relative
// paths the build needs.
package board

import (
	"fmt"
	"path"
	"strings"

	"github.com/daedaleanai/pbt/log"
	"github.com/daedaleanai/pbt/util"
)

// DefaultTargets are the EDK2 build targets every board supports unless it says otherwise.
var DefaultTargets = []string{"DEBUG", "RELEASE", "NOOPT"}

// DefaultToolChainTag is the toolchain a board builds with unless it says otherwise.
const DefaultToolChainTag = "VS2017"

const activePlatformFileName = "OpenBoardPkg.dsc"

const boardsDir = "Platform/Intel"

// Submodule is an external source repository that must be present before building.
type Submodule struct {
	Path      string `yaml:"path"`
	Recursive bool   `yaml:"recursive"`
}

// EnvVar is an additional board specific build variable.
type EnvVar struct {
	Name    string `yaml:"name"`
	Value   string `yaml:"value"`
	Comment string `yaml:"comment"`
}

// Rebase describes how the board's FSP binary is rebased before the build.
type Rebase struct {
	Script      string `yaml:"script"`
	Output      string `yaml:"output"`
	BaseAddress string `yaml:"base_address"`
}

// Profile is the complete build configuration of one board.
type Profile struct {
	ProductName  string `yaml:"product_name"`
	Description  string `yaml:"description"`
	BoardPackage string `yaml:"board_package"`
	// Location is the board directory relative to the workspace root.
	Location       string `yaml:"location"`
	Project        string `yaml:"project"`
	ActivePlatform string `yaml:"active_platform"`

	Packages      []string `yaml:"packages"`
	Architectures []string `yaml:"architectures"`
	Targets       []string `yaml:"targets"`
	Scopes        []string `yaml:"scopes"`

	Submodules   []Submodule `yaml:"submodules"`
	PackagesPath []string    `yaml:"packages_path"`

	ToolChainTag  string   `yaml:"tool_chain_tag"`
	FlashMap      string   `yaml:"flash_map"`
	FspBinaryPath string   `yaml:"fsp_binary_path"`
	BiosSize      string   `yaml:"bios_size"`
	FspWrapper    *bool    `yaml:"fsp_wrapper"`
	BiosInfoGUID  string   `yaml:"bios_info_guid"`
	Pcds          []string `yaml:"pcds"`
	Env           []EnvVar `yaml:"env"`

	Rebase    *Rebase           `yaml:"rebase"`
	LogLevels map[string]string `yaml:"log_levels"`
}

// ApplyDefaults fills in every field that can be derived from the others.
func (p *Profile) ApplyDefaults() {
	if p.Project == "" && p.BoardPackage != "" && p.ProductName != "" {
		p.Project = path.Join(p.BoardPackage, p.ProductName)
	}
	if p.Location == "" && p.BoardPackage != "" && p.ProductName != "" {
		p.Location = path.Join(boardsDir, p.BoardPackage, p.ProductName)
	}
	p.Location = strings.ReplaceAll(p.Location, `\`, "/")
	if p.ActivePlatform == "" && p.Project != "" {
		p.ActivePlatform = path.Join(p.Project, activePlatformFileName)
	}
	if len(p.Packages) == 0 && p.BoardPackage != "" {
		p.Packages = []string{p.BoardPackage}
	}
	if len(p.Targets) == 0 {
		p.Targets = append([]string{}, DefaultTargets...)
	}
	if p.ToolChainTag == "" {
		p.ToolChainTag = DefaultToolChainTag
	}
	for i, rel := range p.PackagesPath {
		p.PackagesPath[i] = strings.ReplaceAll(rel, `\`, "/")
	}
	if p.Rebase != nil {
		if p.Rebase.Script == "" {
			p.Rebase.Script = "RebaseFspBinBaseAddress.py"
		}
		if p.Rebase.Output == "" {
			p.Rebase.Output = "Fsp.fd"
		}
		if p.Rebase.BaseAddress == "" {
			p.Rebase.BaseAddress = "0x0"
		}
	}
}

// Validate checks that the profile is usable.
func (p *Profile) Validate() error {
	if p.ProductName == "" {
		return fmt.Errorf("profile has no product name")
	}
	if p.BoardPackage == "" {
		return fmt.Errorf("board '%s' has no board package", p.ProductName)
	}
	if len(p.Architectures) == 0 {
		return fmt.Errorf("board '%s' supports no architectures", p.ProductName)
	}
	for field, values := range map[string][]string{
		"architecture": p.Architectures,
		"target":       p.Targets,
		"scope":        p.Scopes,
	} {
		if dup, ok := firstDuplicate(values); ok {
			return fmt.Errorf("board '%s' lists %s '%s' more than once", p.ProductName, field, dup)
		}
	}
	if p.Rebase != nil && (p.FlashMap == "" || p.FspBinaryPath == "") {
		return fmt.Errorf("board '%s' rebases its FSP but has no flash map or FSP binary path", p.ProductName)
	}
	for _, pcd := range p.Pcds {
		if !strings.Contains(pcd, "=") {
			return fmt.Errorf("board '%s' has malformed PCD '%s', expected Name=Value", p.ProductName, pcd)
		}
	}
	for channel, level := range p.LogLevels {
		if _, err := log.ParseChannel(channel); err != nil {
			return fmt.Errorf("board '%s': %w", p.ProductName, err)
		}
		if _, err := log.ParseLevel(level); err != nil {
			return fmt.Errorf("board '%s': %w", p.ProductName, err)
		}
	}
	return nil
}

// LogLevel returns the level configured for a log channel, debug by default.
func (p *Profile) LogLevel(ch log.Channel) log.Level {
	for channel, level := range p.LogLevels {
		parsed, err := log.ParseChannel(channel)
		if err != nil || parsed != ch {
			continue
		}
		if l, err := log.ParseLevel(level); err == nil {
			return l
		}
	}
	return log.DebugLevel
}

// FindWorkspaceRoot walks up from `dir` to the workspace that contains this board.
func (p *Profile) FindWorkspaceRoot(dir string) (string, error) {
	return util.FindWorkspaceRoot(dir, util.NormalizeRelPath(p.Location))
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	c := p
	c.Packages = append([]string(nil), p.Packages...)
	c.Architectures = append([]string(nil), p.Architectures...)
	c.Targets = append([]string(nil), p.Targets...)
	c.Scopes = append([]string(nil), p.Scopes...)
	c.Submodules = append([]Submodule(nil), p.Submodules...)
	c.PackagesPath = append([]string(nil), p.PackagesPath...)
	c.Pcds = append([]string(nil), p.Pcds...)
	c.Env = append([]EnvVar(nil), p.Env...)
	if p.FspWrapper != nil {
		v := *p.FspWrapper
		c.FspWrapper = &v
	}
	if p.Rebase != nil {
		r := *p.Rebase
		c.Rebase = &r
	}
	if p.LogLevels != nil {
		c.LogLevels = make(map[string]string, len(p.LogLevels))
		for k, v := range p.LogLevels {
			c.LogLevels[k] = v
		}
	}
	return c
}

func firstDuplicate(values []string) (string, bool) {
	seen := map[string]bool{}
	for _, v := range values {
		key := strings.ToUpper(v)
		if seen[key] {
			return v, true
		}
		seen[key] = true
	}
	return "", false
}
