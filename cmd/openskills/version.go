package main

import (
	"fmt"

	"github.com/Geeksfino/openskills/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of openskills",
	Long:  `Print the version, Git commit hash, build date, and platform of openskills.`,
	Run: func(_ *cobra.Command, _ []string) {
		info := version.Get()
		fmt.Printf("openskills version %s\n", info.Full())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
