package main

import (
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/spf13/cobra"
)

func newHistoryCommand(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse completed sessions",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List completed sessions, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history, res := cli.service.History(cmd.Context())
			warnResult(cmd.ErrOrStderr(), res)
			if cli.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), history)
			}
			writeSessions(cmd.OutOrStdout(), history)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show one completed session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			found, res := cli.service.SessionByID(cmd.Context(), args[0])
			if !res.IsOK() {
				return res.Err()
			}
			if found == nil {
				return httperror.NewHTTPErrorf(http.StatusNotFound, "session %s not found", args[0])
			}
			if cli.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), found)
			}
			writeResult(cmd.OutOrStdout(), found, cli.locale)
			return nil
		},
	}

	export := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Print the anonymized JSON export of a completed session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := cli.service.Export(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the current session and all history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := cli.service.ClearAll(cmd.Context())
			warnResult(cmd.ErrOrStderr(), res)
			return res.Err()
		},
	}

	cmd.AddCommand(list, show, export, clearCmd)
	return cmd
}
