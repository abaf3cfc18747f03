package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/daedaleanai/pbt/board"
	"github.com/daedaleanai/pbt/log"

	"github.com/spf13/cobra"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Args:  cobra.NoArgs,
	Short: "Lists all boards",
	Long:  `Lists the built-in boards and the boards defined in the profiles directory.`,
	Run:   runBoards,
}

func init() {
	rootCmd.AddCommand(boardsCmd)
}

func runBoards(cmd *cobra.Command, args []string) {
	s, err := openSession()
	if err != nil {
		log.Fatal("%s\n", err)
	}
	printBoards(os.Stdout, s.registry.Profiles())
}

func printBoards(w io.Writer, profiles []board.Profile) {
	for _, p := range profiles {
		fmt.Fprintf(w, "  %s [%s]", p.ProductName, strings.Join(p.Architectures, ", "))
		if p.Description != "" {
			fmt.Fprintf(w, "  (%s)", p.Description)
		}
		fmt.Fprintln(w)
	}
}
