package main

import (
	"fmt"
	"os"

	"github.com/Geeksfino/openskills/internal/runtime"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "validate <path>",
		Short:   "Validate a skill directory's SKILL.md without discovering it",
		Example: `  openskills validate ./skills/code-review`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := runtime.ValidateSkillDirectory(args[0])
			if err != nil {
				fatalf("validate", err)
			}

			for _, f := range report.Findings {
				fmt.Println(f.String())
			}
			if !report.Valid {
				os.Exit(2)
			}
			fmt.Println("valid")
			return nil
		},
	}
	return cmd
}

func init() {
	rootCmd.AddCommand(newValidateCmd())
}
