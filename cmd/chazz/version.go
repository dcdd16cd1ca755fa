package main

import (
	"fmt"

	"github.com/aretw0/chazz"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of chazz",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "chazz version %s\n", chazz.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
