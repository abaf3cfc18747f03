// Package platform drives the build of one board. Platform answers the settings
// queries of the build host and performs the board's build steps.
package platform

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/daedaleanai/pbt/board"
	"github.com/daedaleanai/pbt/builderr"
	"github.com/daedaleanai/pbt/environment"
	"github.com/daedaleanai/pbt/log"
	"github.com/daedaleanai/pbt/toolchain"
	"github.com/daedaleanai/pbt/util"

	"github.com/spf13/pflag"
)

const (
	hardcoded        = "Platform Hardcoded"
	defaultToolChain = "Default tool chain"
	productionFlag   = "production"
)

// PcdOverridesKey holds the space separated PCD overrides the compiler passes with --pcd.
const PcdOverridesKey = "PCD_OVERRIDES"

// BuildContext is what build steps operate on.
type BuildContext struct {
	Env           *environment.VarDict
	Shell         *environment.Shell
	Runner        toolchain.Runner
	WorkspaceRoot string
}

// SettingsProvider answers the static questions the build host asks before building.
type SettingsProvider interface {
	PackagesSupported() []string
	ArchitecturesSupported() []string
	TargetsSupported() []string
	RequiredSubmodules() []board.Submodule
	SetArchitectures(requested []string) error
	ActiveScopes() []string
	WorkspaceRoot() string
}

// BuildDriver performs the board specific parts of a build.
type BuildDriver interface {
	SetPlatformEnv(env *environment.VarDict) error
	PackagesPath() []string
	Name() string
	LoggingLevel(ch log.Channel) log.Level
	PreBuild(ctx context.Context, bc *BuildContext) error
	PostBuild(ctx context.Context, bc *BuildContext) error
	AddCommandLineOptions(flags *pflag.FlagSet)
	RetrieveCommandLineOptions(flags *pflag.FlagSet) error
}

// Platform implements SettingsProvider and BuildDriver for any board profile.
type Platform struct {
	profile board.Profile
	root    string

	// Accepted architectures, nil until SetArchitectures succeeds.
	architectures []string
	target        string
	production    bool

	// Python runs the FSP rebase script.
	Python string
}

// New creates the platform for `profile` in the workspace at `root`.
func New(profile board.Profile, root string) *Platform {
	return &Platform{
		profile: profile.Clone(),
		root:    root,
		Python:  "python",
	}
}

// Profile returns a copy of the board profile.
func (p *Platform) Profile() board.Profile {
	return p.profile.Clone()
}

func (p *Platform) PackagesSupported() []string {
	return append([]string(nil), p.profile.Packages...)
}

func (p *Platform) ArchitecturesSupported() []string {
	return append([]string(nil), p.profile.Architectures...)
}

func (p *Platform) TargetsSupported() []string {
	return append([]string(nil), p.profile.Targets...)
}

func (p *Platform) RequiredSubmodules() []board.Submodule {
	return append([]board.Submodule{}, p.profile.Submodules...)
}

func (p *Platform) ActiveScopes() []string {
	return append([]string(nil), p.profile.Scopes...)
}

func (p *Platform) WorkspaceRoot() string {
	return p.root
}

// SetArchitectures restricts the build to `requested`. Every requested architecture
// must be supported by the board, otherwise nothing is stored.
func (p *Platform) SetArchitectures(requested []string) error {
	unsupported := difference(requested, p.profile.Architectures)
	if len(unsupported) > 0 {
		log.Critical("Unsupported Architecture Requested: %s\n", strings.Join(unsupported, " "))
		return builderr.Configuration("SetArchitectures", "unsupported architecture requested", unsupported...)
	}
	p.architectures = append([]string{}, requested...)
	return nil
}

// Architectures returns the accepted architectures and whether SetArchitectures succeeded.
func (p *Platform) Architectures() ([]string, bool) {
	if p.architectures == nil {
		return nil, false
	}
	return append([]string{}, p.architectures...), true
}

// SetTarget selects the build target.
func (p *Platform) SetTarget(target string) error {
	for _, t := range p.profile.Targets {
		if strings.EqualFold(t, target) {
			p.target = t
			return nil
		}
	}
	log.Critical("Unsupported Target Requested: %s\n", target)
	return builderr.Configuration("SetTarget", "unsupported target requested", target)
}

// Target returns the selected build target, the board's first target by default.
func (p *Platform) Target() string {
	if p.target == "" && len(p.profile.Targets) > 0 {
		return p.profile.Targets[0]
	}
	return p.target
}

// TargetArch returns the space separated architectures to build.
func (p *Platform) TargetArch() string {
	if len(p.architectures) > 0 {
		return strings.Join(p.architectures, " ")
	}
	return strings.Join(p.profile.Architectures, " ")
}

// SetPlatformEnv writes the board's build variables into `env`.
func (p *Platform) SetPlatformEnv(env *environment.VarDict) error {
	log.Debug("PlatformBuilder SetPlatformEnv\n")
	prof := &p.profile

	env.SetValue("BLD_*_PLATFORM_BOARD_PACKAGE", prof.BoardPackage, hardcoded)
	env.SetValue("PRODUCT_NAME", prof.ProductName, hardcoded)
	env.SetValue("BLD_*_PROJECT", prof.Project, hardcoded)
	env.SetValue("ACTIVE_PLATFORM", prof.ActivePlatform, hardcoded)
	if prof.FlashMap != "" {
		env.SetValue("FLASH_MAP_FDF", prof.FlashMap, hardcoded)
	}
	if prof.BiosSize != "" {
		env.SetValue("BIOS_SIZE_OPTION", prof.BiosSize, hardcoded)
	}
	if prof.FspWrapper != nil {
		env.SetValue("FSP_WRAPPER_BUILD", boolValue(*prof.FspWrapper), hardcoded)
		env.SetValue("FSP_BINARY_BUILD", boolValue(!*prof.FspWrapper), hardcoded)
	}
	if prof.FspBinaryPath != "" {
		env.SetValue("FSP_BINARY_PATH", prof.FspBinaryPath, hardcoded)
	}
	if prof.BiosInfoGUID != "" {
		env.SetValue("BIOS_INFO_GUID", prof.BiosInfoGUID, hardcoded)
	}
	env.SetValue("TARGET_ARCH", p.TargetArch(), hardcoded)
	env.SetValue("TOOL_CHAIN_TAG", prof.ToolChainTag, defaultToolChain)
	if len(prof.Pcds) > 0 {
		env.SetValue(PcdOverridesKey, strings.Join(prof.Pcds, " "), hardcoded)
	}
	for _, v := range prof.Env {
		comment := v.Comment
		if comment == "" {
			comment = hardcoded
		}
		env.SetValue(v.Name, v.Value, comment)
	}
	return nil
}

// PackagesPath returns the absolute package search paths, in the board's order.
func (p *Platform) PackagesPath() []string {
	return util.MappedSlice(p.profile.PackagesPath, p.abs)
}

// Name identifies the board, e.g. in log file names. It only uses static board data.
func (p *Platform) Name() string {
	return p.profile.ProductName
}

func (p *Platform) LoggingLevel(ch log.Channel) log.Level {
	return p.profile.LogLevel(ch)
}

// PreBuild rebases the FSP binary if the board needs it.
func (p *Platform) PreBuild(ctx context.Context, bc *BuildContext) error {
	rebase := p.profile.Rebase
	if rebase == nil {
		return nil
	}
	log.Info("Rebasing FSP\n")

	flashMap, ok := bc.Env.GetValue("FLASH_MAP_FDF")
	if !ok {
		return builderr.Configuration("PreBuild", "FLASH_MAP_FDF is not set")
	}
	fspPath, ok := bc.Env.GetValue("FSP_BINARY_PATH")
	if !ok {
		return builderr.Configuration("PreBuild", "FSP_BINARY_PATH is not set")
	}

	code, err := bc.Runner.Run(ctx, toolchain.Command{
		Name: p.Python,
		Args: []string{rebase.Script, p.abs(flashMap), p.abs(fspPath), rebase.Output, rebase.BaseAddress},
		Dir:  p.root,
		Env:  bc.Shell.Environ(),
	})
	if err != nil || code != 0 {
		log.Critical("%s returned failure!\n", rebase.Script)
		return builderr.Tool(rebase.Script, code, err)
	}
	return nil
}

func (p *Platform) PostBuild(ctx context.Context, bc *BuildContext) error {
	return nil
}

// AddCommandLineOptions registers the board's build flags.
func (p *Platform) AddCommandLineOptions(flags *pflag.FlagSet) {
	if flags.Lookup(productionFlag) != nil {
		return
	}
	flags.Bool(productionFlag, false, "Build a production image")
}

// RetrieveCommandLineOptions reads back the flags registered by AddCommandLineOptions.
func (p *Platform) RetrieveCommandLineOptions(flags *pflag.FlagSet) error {
	production, err := flags.GetBool(productionFlag)
	if err != nil {
		return fmt.Errorf("failed to read --%s: %w", productionFlag, err)
	}
	p.production = production
	return nil
}

// Production reports whether --production was given.
func (p *Platform) Production() bool {
	return p.production
}

func (p *Platform) abs(rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(p.root, util.NormalizeRelPath(rel))
}

func boolValue(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// difference returns the sorted, distinct values of `requested` missing from `supported`.
func difference(requested, supported []string) []string {
	known := map[string]bool{}
	for _, s := range supported {
		known[s] = true
	}
	missing := map[string]bool{}
	for _, r := range requested {
		if !known[r] {
			missing[r] = true
		}
	}
	result := make([]string, 0, len(missing))
	for r := range missing {
		result = append(result, r)
	}
	sort.Strings(result)
	return result
}

var (
	_ SettingsProvider = (*Platform)(nil)
	_ BuildDriver      = (*Platform)(nil)
)
