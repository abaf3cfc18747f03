package cmd

import (
	"context"

	"github.com/daedaleanai/pbt/log"
	"github.com/daedaleanai/pbt/netrc"
	"github.com/daedaleanai/pbt/submodule"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:               "setup BOARD",
	Args:              cobra.ExactArgs(1),
	Short:             "Checks out the submodules a board requires",
	Long:              `Initializes and updates every submodule the board requires to build.`,
	Run:               runSetup,
	ValidArgsFunction: completeBoards,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) {
	s, err := openSession()
	if err != nil {
		log.Fatal("%s\n", err)
	}
	p, err := s.platform(args[0])
	if err != nil {
		exit(err)
	}

	required := p.RequiredSubmodules()
	if len(required) == 0 {
		log.Success("Board '%s' requires no submodules.\n", p.Name())
		return
	}
	ws, err := submodule.Open(p.WorkspaceRoot())
	if err != nil {
		exit(err)
	}
	ws.Credentials = netrc.Load()
	if err := ws.Init(context.Background(), required); err != nil {
		exit(err)
	}
	log.Success("Done.\n")
}
