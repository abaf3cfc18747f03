// Package build runs a platform build: it sets up the build environment, runs the
// board and plugin hooks around the EDK2 compiler and stops at the first failure.
package build

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/daedaleanai/pbt/builderr"
	"github.com/daedaleanai/pbt/log"
	"github.com/daedaleanai/pbt/platform"
	"github.com/daedaleanai/pbt/plugin"
	"github.com/daedaleanai/pbt/util"
)

const buildDefault = "Build Default"

// State is the progress of a build.
type State int

const (
	Configured State = iota
	EnvironmentSet
	PreBuilt
	Compiled
	PostBuilt
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Configured:
		return "Configured"
	case EnvironmentSet:
		return "EnvironmentSet"
	case PreBuilt:
		return "PreBuilt"
	case Compiled:
		return "Compiled"
	case PostBuilt:
		return "PostBuilt"
	case Done:
		return "Done"
	case Failed:
		return "Failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Build is one build of one board.
type Build struct {
	Settings platform.SettingsProvider
	Driver   platform.BuildDriver
	Plugins  []plugin.BuildPlugin
	Compiler Compiler
	Context  *platform.BuildContext

	// Target is the build target. Defaults to the first supported target.
	Target string
	// SkipCompile runs every hook but not the compiler.
	SkipCompile bool

	state State
}

type step struct {
	name string
	next State
	run  func(ctx context.Context) error
}

// Run performs the build. A build can only run once.
func (b *Build) Run(ctx context.Context) error {
	if b.state != Configured {
		return fmt.Errorf("build of '%s' already ran", b.Driver.Name())
	}

	steps := []step{
		{"SetEnv", EnvironmentSet, b.setEnv},
		{"PreBuild", PreBuilt, b.preBuild},
		{"Compile", Compiled, b.compile},
		{"PostBuild", PostBuilt, b.postBuild},
	}
	for _, s := range steps {
		log.Log("%s\n", s.name)
		log.IndentationLevel++
		err := s.run(ctx)
		log.IndentationLevel--
		if err != nil {
			b.state = Failed
			log.Error("%s failed: %s\n", s.name, err)
			return fmt.Errorf("%s: %w", s.name, err)
		}
		b.state = s.next
	}
	b.state = Done
	log.Success("Build of '%s' succeeded.\n", b.Driver.Name())
	return nil
}

// State returns how far the build got.
func (b *Build) State() State {
	return b.state
}

func (b *Build) setEnv(ctx context.Context) error {
	env := b.Context.Env

	target := b.Target
	if target == "" {
		if supported := b.Settings.TargetsSupported(); len(supported) > 0 {
			target = supported[0]
		}
	}
	env.SetValue("TARGET", target, buildDefault)
	target, _ = env.GetValue("TARGET")
	if !util.ContainsFold(b.Settings.TargetsSupported(), target) {
		log.Critical("Unsupported Target Requested: %s\n", target)
		return builderr.Configuration("SetEnv", "unsupported target requested", target)
	}
	env.SetValue("BOARD", b.Driver.Name(), buildDefault)

	if err := b.Driver.SetPlatformEnv(env); err != nil {
		return err
	}

	if _, ok := env.GetValue("BUILD_OUTPUT_BASE"); !ok {
		toolChain, _ := env.GetValue("TOOL_CHAIN_TAG")
		outputBase := filepath.Join(b.Context.WorkspaceRoot, util.BuildDirName, b.Driver.Name(), target+"_"+toolChain)
		env.SetValue("BUILD_OUTPUT_BASE", outputBase, buildDefault)
	}

	for _, entry := range env.Entries() {
		log.Debug("%s = %s (%s)\n", entry.Key, entry.Value.Value, entry.Value.Comment)
	}
	return nil
}

func (b *Build) activePlugins() []plugin.BuildPlugin {
	return plugin.Active(b.Plugins, b.Settings.ActiveScopes())
}

func (b *Build) preBuild(ctx context.Context) error {
	if err := b.Driver.PreBuild(ctx, b.Context); err != nil {
		return err
	}
	for _, p := range b.activePlugins() {
		log.Debug("Running pre-build of plugin '%s'.\n", p.Name())
		if err := p.PreBuild(ctx, b.Context); err != nil {
			return fmt.Errorf("plugin '%s': %w", p.Name(), err)
		}
	}
	return nil
}

func (b *Build) compile(ctx context.Context) error {
	if b.SkipCompile {
		log.Warning("Skipping compilation.\n")
		return nil
	}
	return b.Compiler.Compile(ctx, b.Context, b.Driver.PackagesPath())
}

func (b *Build) postBuild(ctx context.Context) error {
	if err := b.Driver.PostBuild(ctx, b.Context); err != nil {
		return err
	}
	for _, p := range b.activePlugins() {
		log.Debug("Running post-build of plugin '%s'.\n", p.Name())
		if err := p.PostBuild(ctx, b.Context); err != nil {
			return fmt.Errorf("plugin '%s': %w", p.Name(), err)
		}
	}
	return nil
}
