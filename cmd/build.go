package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/daedaleanai/pbt/build"
	"github.com/daedaleanai/pbt/environment"
	"github.com/daedaleanai/pbt/log"
	"github.com/daedaleanai/pbt/platform"
	"github.com/daedaleanai/pbt/plugin"
	"github.com/daedaleanai/pbt/toolchain"
	"github.com/daedaleanai/pbt/util"

	"github.com/spf13/cobra"
)

const buildLogPrefix = "BUILDLOG_"

var archFlag []string
var targetFlag string
var skipCompileFlag bool

var buildCmd = &cobra.Command{
	Use:   "build BOARD [KEY=VALUE ...]",
	Args:  cobra.MinimumNArgs(1),
	Short: "Builds the firmware of a board",
	Long: `Builds the firmware of a board.
Arguments of the form KEY=VALUE set build variables. They take precedence over
the values the board defines.`,
	Run:               runBuild,
	ValidArgsFunction: completeBoards,
}

func init() {
	buildCmd.Flags().StringSliceVarP(&archFlag, "arch", "a", nil, "Architectures to build (default: all the board supports)")
	buildCmd.Flags().StringVarP(&targetFlag, "target", "t", "", "Build target (default: the board's first target)")
	buildCmd.Flags().BoolVar(&skipCompileFlag, "skip-compile", false, "Run the build steps around the compiler but not the compiler itself")
	(&platform.Platform{}).AddCommandLineOptions(buildCmd.Flags())
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) {
	boards, vars := parseArgs(args)
	if len(boards) != 1 {
		log.Fatal("Expected exactly one board, got '%s'.\n", strings.Join(boards, "', '"))
	}

	s, err := openSession()
	if err != nil {
		log.Fatal("%s\n", err)
	}
	p, err := s.platform(boards[0])
	if err != nil {
		exit(err)
	}
	if err := p.RetrieveCommandLineOptions(cmd.Flags()); err != nil {
		log.Fatal("%s\n", err)
	}
	openBuildLogs(s, p)
	log.Log("Building '%s' in '%s'.\n", p.Name(), p.WorkspaceRoot())

	archs := util.MappedSlice(archFlag, strings.ToUpper)
	if len(archs) == 0 {
		archs = p.ArchitecturesSupported()
	}
	if err := p.SetArchitectures(archs); err != nil {
		exit(err)
	}
	if targetFlag != "" {
		if err := p.SetTarget(targetFlag); err != nil {
			exit(err)
		}
	}

	env := s.lockedVars(vars)

	silicon := plugin.NewSiliconTools(toolchain.VSLocator{VSWhere: s.config.VSWhere})
	silicon.Dir = s.config.ToolsDir
	silicon.Nmake = s.config.Nmake
	silicon.FitGen = s.config.FitGen

	b := &build.Build{
		Settings: p,
		Driver:   p,
		Plugins:  []plugin.BuildPlugin{silicon},
		Compiler: build.EDK2Compiler{Command: s.config.Edk2Build},
		Context: &platform.BuildContext{
			Env:           env,
			Shell:         environment.NewShell(os.Environ()),
			Runner:        toolchain.ExecRunner{},
			WorkspaceRoot: p.WorkspaceRoot(),
		},
		Target:      p.Target(),
		SkipCompile: skipCompileFlag,
	}
	if p.Production() {
		log.Log("Building a production image.\n")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = b.Run(ctx)
	stop()
	exit(err)
}

func openBuildLogs(s *session, p *platform.Platform) {
	log.SetLevel(log.Console, p.LoggingLevel(log.Console))

	logDir := s.config.Path(p.WorkspaceRoot(), s.config.LogDir)
	for ch, ext := range map[log.Channel]string{log.Text: ".txt", log.Markdown: ".md"} {
		logFile := filepath.Join(logDir, buildLogPrefix+p.Name()+ext)
		if err := log.OpenFile(ch, logFile, p.LoggingLevel(ch)); err != nil {
			log.Warning("Failed to open log file '%s': %s\n", logFile, err)
			continue
		}
		log.Debug("Logging to '%s'.\n", logFile)
	}
}
