package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	insight "github.com/bahrain-bp/bqa-insight-ai"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of bqa",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bqa version %s\n", strings.TrimSpace(insight.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
