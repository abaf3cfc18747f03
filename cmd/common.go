package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/daedaleanai/pbt/board"
	"github.com/daedaleanai/pbt/builderr"
	"github.com/daedaleanai/pbt/config"
	"github.com/daedaleanai/pbt/environment"
	"github.com/daedaleanai/pbt/log"
	"github.com/daedaleanai/pbt/platform"
	"github.com/daedaleanai/pbt/util"

	"github.com/spf13/cobra"
)

const commandLine = "From command line"

type session struct {
	// root is empty if the workspace could not be determined yet.
	root     string
	config   config.Config
	registry *board.Registry
}

func openSession() (*session, error) {
	root := workspaceFlag
	if root == "" {
		if r, err := util.GetWorkspaceRoot(); err == nil {
			root = r
		} else {
			log.Debug("%s\n", err)
		}
	}

	cfg, err := config.Load(root, configFlag)
	if err != nil {
		return nil, err
	}

	profiles := board.Builtin()
	if root != "" {
		extra, err := board.LoadDir(cfg.Path(root, cfg.ProfilesDir))
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, extra...)
	}
	return &session{root: root, config: cfg, registry: board.NewRegistry(profiles...)}, nil
}

// platform looks up a board and locates the workspace it is built in.
func (s *session) platform(name string) (*platform.Platform, error) {
	profile, ok := s.registry.Lookup(name)
	if !ok {
		return nil, builderr.Configuration("SelectBoard", fmt.Sprintf("unknown board, known boards are %s", strings.Join(s.registry.Names(), ", ")), name)
	}

	root := s.root
	if workspaceFlag == "" {
		workingDir, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if r, err := profile.FindWorkspaceRoot(workingDir); err == nil {
			root = r
		}
	}
	if root == "" {
		return nil, fmt.Errorf("could not find the workspace of board '%s', use --workspace", profile.ProductName)
	}
	log.Debug("Workspace: '%s'\n", root)

	p := platform.New(profile, root)
	p.Python = s.config.Python
	return p, nil
}

// lockedVars seeds the build variables that neither the board nor the plugins may
// change: KEY=VALUE arguments and the configured tool chain tag.
func (s *session) lockedVars(vars map[string]string) *environment.VarDict {
	env := environment.NewVarDict()
	for _, key := range util.OrderedKeys(vars) {
		env.SetLocked(key, vars[key], commandLine)
	}
	if _, ok := vars["TOOL_CHAIN_TAG"]; !ok && s.config.ToolChainTag != "" {
		env.SetLocked("TOOL_CHAIN_TAG", s.config.ToolChainTag, "Configuration")
	}
	return env
}

// parseArgs splits the arguments into positional arguments and KEY=VALUE build variables.
func parseArgs(args []string) ([]string, map[string]string) {
	positional := []string{}
	vars := map[string]string{}
	for _, arg := range args {
		if strings.Contains(arg, "=") {
			parts := strings.SplitN(arg, "=", 2)
			vars[parts[0]] = parts[1]
		} else {
			positional = append(positional, arg)
		}
	}
	return positional, vars
}

func completeBoards(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	s, err := openSession()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := []string{}
	for _, name := range s.registry.Names() {
		if strings.HasPrefix(strings.ToLower(name), strings.ToLower(toComplete)) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// exit terminates with the exit code that belongs to `err`.
func exit(err error) {
	if err != nil {
		log.Error("%s\n", err)
	}
	log.Close()
	os.Exit(builderr.ExitCode(err))
}
