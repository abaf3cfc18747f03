package cmd

import (
	"fmt"

	"github.com/daedaleanai/pbt/log"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Args:  cobra.NoArgs,
	Short: "Prints the effective configuration",
	Long:  `Prints the configuration pbt runs with, in the format of pbt.yaml.`,
	Run:   runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) {
	s, err := openSession()
	if err != nil {
		log.Fatal("%s\n", err)
	}
	out, err := s.config.YAML()
	if err != nil {
		log.Fatal("%s\n", err)
	}
	fmt.Print(out)
}
