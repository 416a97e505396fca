package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStorageCommand(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Check the configured storage backend",
	}

	probe := &cobra.Command{
		Use:   "probe",
		Short: "Check that the backend accepts writes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := cli.service.StorageAvailable(cmd.Context())
			if cli.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"driver":    cli.cfg.StorageDriver,
					"available": res.IsOK(),
					"status":    res.Status(),
				})
			}
			if !res.IsOK() {
				return res.Err()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s storage is available\n", cli.cfg.StorageDriver)
			return nil
		},
	}

	usage := &cobra.Command{
		Use:   "usage",
		Short: "Estimate storage used by sessions and analytics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, res := cli.service.StorageInfo(cmd.Context())
			warnResult(cmd.ErrOrStderr(), res)
			if cli.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.2f KB of %.0f KB used (%.2f%%)\n", info.UsedKB, info.TotalKB, info.Percentage)
			return nil
		},
	}

	cmd.AddCommand(probe, usage)
	return cmd
}
