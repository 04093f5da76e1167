package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newActivateCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:     "activate <skill-id>",
		Short:   "Load a skill's full instructions body and declared tool set",
		Example: `  openskills activate code-review`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime()
			if err != nil {
				return err
			}
			if _, err := rt.Discover(cmd.Context()); err != nil {
				fatalf("discover", err)
			}

			result, err := rt.Activate(args[0])
			if err != nil {
				fatalf("activate", err)
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			fmt.Printf("# %s (%s)\n", result.Name, result.ID)
			fmt.Printf("Allowed tools: %v\n\n", result.AllowedTools)
			fmt.Println(result.Instructions)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the activation result as JSON")
	return cmd
}

func init() {
	rootCmd.AddCommand(newActivateCmd())
}
