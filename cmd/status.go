package cmd

import (
	"os"

	"github.com/daedaleanai/pbt/log"
	"github.com/daedaleanai/pbt/submodule"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:               "status BOARD",
	Args:              cobra.ExactArgs(1),
	Short:             "Prints a status report of the submodules a board requires",
	Long:              `Prints a status report of the submodules a board requires.`,
	Run:               runStatus,
	ValidArgsFunction: completeBoards,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	s, err := openSession()
	if err != nil {
		log.Fatal("%s\n", err)
	}
	p, err := s.platform(args[0])
	if err != nil {
		exit(err)
	}
	log.Log("Workspace: '%s'\n", p.WorkspaceRoot())

	required := p.RequiredSubmodules()
	log.Log("Board '%s' requires %d submodules.\n", p.Name(), len(required))
	if len(required) > 0 {
		ws, err := submodule.Open(p.WorkspaceRoot())
		if err != nil {
			exit(err)
		}
		statuses, err := ws.Check(required)
		if err != nil {
			exit(err)
		}

		for idx, status := range statuses {
			log.IndentationLevel = 1
			log.Log("%d) Submodule '%s':\n", idx+1, status.Path)
			log.IndentationLevel = 2
			switch {
			case !status.Declared:
				log.Error("Submodule is not declared in .gitmodules.\n")
			case !status.Initialized:
				log.Error("Submodule is not initialized. Try running 'pbt setup %s'.\n", p.Name())
			case !status.Clean:
				log.Error("Submodule is at '%s' but the workspace expects '%s'.\n", status.Current, status.Expected)
			default:
				log.Success("Submodule is at '%s'.\n", status.Current)
			}
		}
	}

	log.IndentationLevel = 0
	log.Log("\n")
	if log.ErrorOccured() {
		log.Error("Errors found while checking workspace status.\n")
		os.Exit(1)
	}
	log.Success("Done.\n")
}
