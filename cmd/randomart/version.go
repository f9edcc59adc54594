package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/randomart"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of randomart",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "randomart version %s\n", strings.TrimSpace(randomart.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
