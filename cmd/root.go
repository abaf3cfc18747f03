package cmd

import (
	"os"

	"github.com/daedaleanai/pbt/log"

	"github.com/spf13/cobra"
)

var workspaceFlag string
var configFlag string

var rootCmd = &cobra.Command{
	Use:   "pbt",
	Short: "The Platform Build Tool (pbt)",
	Long: `The Platform Build Tool (pbt) builds EDK2 based firmware for a set of boards.
It checks out the sources a board requires, sets up the build environment, runs
the board and silicon specific build steps and the EDK2 build itself.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().BoolVarP(&log.Verbose, "verbose", "v", false, "Print debug output")
	rootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "w", "", "Workspace root (default: found from the working directory)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Configuration file (default: pbt.yaml in the configuration directories)")
	if rootCmd.Execute() != nil {
		os.Exit(1)
	}
}
