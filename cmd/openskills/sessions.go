package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Geeksfino/openskills/internal/execution"
	"github.com/spf13/cobra"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage multi-call execution contexts",
	}
	cmd.AddCommand(newSessionsStartCmd())
	cmd.AddCommand(newSessionsFinishCmd())
	return cmd
}

func newSessionsStartCmd() *cobra.Command {
	var inputJSON string

	cmd := &cobra.Command{
		Use:     "start <skill-id>",
		Short:   "Start a session, printing the resulting context handle",
		Example: `  openskills sessions start code-review`,
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

			session, err := rt.StartSession(args[0], input, nil)
			if err != nil {
				fatalf("start session", err)
			}

			fmt.Println(session.Handle)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputJSON, "input", "", "session input, as a JSON document")
	return cmd
}

func newSessionsFinishCmd() *cobra.Command {
	var (
		outputJSON string
		stdout     string
		stderr     string
		status     string
	)

	cmd := &cobra.Command{
		Use:     "finish <handle>",
		Short:   "Finish a session, printing its final execution artifacts",
		Example: `  openskills sessions finish <handle> --status success`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime()
			if err != nil {
				return err
			}

			var output interface{}
			if outputJSON != "" {
				if err := json.Unmarshal([]byte(outputJSON), &output); err != nil {
					return fmt.Errorf("parsing --output as JSON: %w", err)
				}
			}

			artifacts, err := rt.FinishSession(args[0], output, stdout, stderr, execution.ExitStatus(status))
			if err != nil {
				fatalf("finish session", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(artifacts)
		},
	}

	cmd.Flags().StringVar(&outputJSON, "output", "", "final output, as a JSON document")
	cmd.Flags().StringVar(&stdout, "stdout", "", "captured stdout")
	cmd.Flags().StringVar(&stderr, "stderr", "", "captured stderr")
	cmd.Flags().StringVar(&status, "status", string(execution.ExitSuccess), "exit status: success, failure, timeout, permission_denied")
	return cmd
}

func init() {
	rootCmd.AddCommand(newSessionsCmd())
}
