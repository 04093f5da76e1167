package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newPermissionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permissions",
		Short: "Inspect and manage the permission gate's grant cache",
	}
	cmd.AddCommand(newPermissionsAuditCmd())
	cmd.AddCommand(newPermissionsResetCmd())
	return cmd
}

func newPermissionsAuditCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "audit",
		Short:   "Print the append-only permission decision log",
		Example: `  openskills permissions audit`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime()
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rt.GetPermissionAudit())
		},
	}
}

func newPermissionsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "reset",
		Short:   "Clear the allow-always grant cache, not the audit history",
		Example: `  openskills permissions reset`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime()
			if err != nil {
				return err
			}
			rt.ResetPermissionGrants()
			fmt.Println("permission grants reset")
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newPermissionsCmd())
}
