package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/daedaleanai/pbt/environment"
	"github.com/daedaleanai/pbt/log"
	"github.com/daedaleanai/pbt/util"

	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env BOARD [KEY=VALUE ...]",
	Args:  cobra.MinimumNArgs(1),
	Short: "Lists the build variables of a board",
	Long: `Lists the build variables the board defines, together with where each value
comes from. Arguments of the form KEY=VALUE override them as they would for 'pbt build'.`,
	Run:               runEnv,
	ValidArgsFunction: completeBoards,
}

func init() {
	envCmd.Flags().StringSliceVarP(&archFlag, "arch", "a", nil, "Architectures to build (default: all the board supports)")
	rootCmd.AddCommand(envCmd)
}

func runEnv(cmd *cobra.Command, args []string) {
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
	if len(archFlag) > 0 {
		if err := p.SetArchitectures(util.MappedSlice(archFlag, strings.ToUpper)); err != nil {
			exit(err)
		}
	}

	env := s.lockedVars(vars)
	if err := p.SetPlatformEnv(env); err != nil {
		exit(err)
	}
	printEnv(os.Stdout, env)
}

func printEnv(w io.Writer, env *environment.VarDict) {
	for _, entry := range env.Entries() {
		fmt.Fprintf(w, "  %s='%s'", entry.Key, entry.Value.Value)
		if entry.Value.Comment != "" {
			fmt.Fprintf(w, " // %s", entry.Value.Comment)
		}
		fmt.Fprintln(w)
	}
}
