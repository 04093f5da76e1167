package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Geeksfino/openskills/internal/runtime"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:     "analyze <path>",
		Short:   "Estimate instruction token count and inventory a skill directory's executable targets",
		Example: `  openskills analyze ./skills/code-review`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := runtime.AnalyzeSkillDirectory(args[0])
			if err != nil {
				fatalf("analyze", err)
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			fmt.Printf("name: %s\n", report.Name)
			fmt.Printf("instruction tokens (estimated): %d\n", report.InstructionTokens)
			fmt.Printf("instruction characters: %d\n", report.InstructionCharacters)
			fmt.Printf("total files: %d\n", report.TotalFiles)
			fmt.Printf("wasm target: %v\n", report.HasWasmTarget)
			fmt.Printf("native script target: %v\n", report.HasNativeScriptTarget)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the analysis report as JSON")
	return cmd
}

func init() {
	rootCmd.AddCommand(newAnalyzeCmd())
}
