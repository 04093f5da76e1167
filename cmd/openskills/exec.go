package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Geeksfino/openskills/internal/runtime"
	"github.com/spf13/cobra"
)

func newExecCmd() *cobra.Command {
	var (
		inputJSON      string
		timeoutMS      int64
		memoryBytes    int64
		wasmOverride   string
		targetOverride string
	)

	cmd := &cobra.Command{
		Use:     "exec <skill-id>",
		Short:   "Execute a skill end to end and print its execution artifacts",
		Example: `  openskills exec code-review --input '{"path":"main.go"}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime()
			if err != nil {
				return err
			}
			if _, err := rt.Discover(cmd.Context()); err != nil {
				fatalf("discover", err)
			}

			var input interface{}
			if inputJSON != "" {
				if err := json.Unmarshal([]byte(inputJSON), &input); err != nil {
					return fmt.Errorf("parsing --input as JSON: %w", err)
				}
			}

			artifacts, rec, runErr := rt.Execute(cmd.Context(), args[0], runtime.ExecuteOptions{
				Input:          input,
				TimeoutMS:      timeoutMS,
				MemoryBytes:    memoryBytes,
				WasmOverride:   wasmOverride,
				TargetOverride: targetOverride,
			})

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(struct {
				Artifacts interface{} `json:"artifacts"`
				Record    interface{} `json:"audit_record"`
			}{artifacts, rec})

			if runErr != nil {
				os.Exit(exitCodeFor(runErr))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputJSON, "input", "", "skill input, as a JSON document")
	cmd.Flags().Int64Var(&timeoutMS, "timeout-ms", 0, "override the skill's default timeout in milliseconds")
	cmd.Flags().Int64Var(&memoryBytes, "memory-bytes", 0, "override the skill's default memory limit in bytes")
	cmd.Flags().StringVar(&wasmOverride, "wasm-override", "", "path to a WASM artifact, relative to the skill root, overriding discovery")
	cmd.Flags().StringVar(&targetOverride, "target-override", "", "path to an execution target, relative to the skill root, overriding discovery")
	return cmd
}

func init() {
	rootCmd.AddCommand(newExecCmd())
}
