package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newDiscoverCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:     "discover",
		Short:   "Walk the configured roots and list Tier-1 skill descriptors",
		Example: `  openskills discover --json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime()
			if err != nil {
				return err
			}

			descriptors, err := rt.Discover(cmd.Context())
			if err != nil {
				fatalf("discover", err)
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(descriptors)
			}

			for _, d := range descriptors {
				invocable := ""
				if !d.UserInvocable {
					invocable = " (not user-invocable)"
				}
				fmt.Printf("%s\t%s%s\n", d.ID, d.Description, invocable)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit descriptors as JSON")
	return cmd
}

func init() {
	rootCmd.AddCommand(newDiscoverCmd())
}
