package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/daedaleanai/pbt/config"
	"github.com/daedaleanai/pbt/log"
	"github.com/daedaleanai/pbt/util"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Args:  cobra.NoArgs,
	Short: "Prints the version of this tool",
	Long:  `Prints the version of this tool and the minimum version the configuration requires.`,
	Run:   runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) {
	root := workspaceFlag
	if root == "" {
		root, _ = util.GetWorkspaceRoot()
	}
	cfg, err := config.Load(root, configFlag)
	if err != nil {
		log.Warning("%s\n", err)
	}
	printVersion(os.Stdout, cfg.MinVersion)
}

func printVersion(w io.Writer, minVersion string) {
	fmt.Fprintf(w, "pbt %s\n", util.PbtVersion)
	if minVersion != "" {
		fmt.Fprintf(w, "required by configuration: %s\n", minVersion)
	}
}
