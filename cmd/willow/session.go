package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCommand(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or update the in-progress session",
	}

	var flags formFlags
	var sessionID string
	save := &cobra.Command{
		Use:   "save",
		Short: "Save partial answers as the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := flags.form(cli.service.Catalog().Questions())
			if err != nil {
				return err
			}
			if !form.HasInput() {
				return errors.New("nothing to save, pass --mbti, --birth or --answer")
			}
			id, res := cli.service.Save(cmd.Context(), form, sessionID)
			warnResult(cmd.ErrOrStderr(), res)
			if cli.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"sessionId": id, "status": res.Status()})
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	flags.register(save)
	save.Flags().StringVar(&sessionID, "session", "", "Update this session id instead of starting a new one")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, res := cli.service.Current(cmd.Context())
			warnResult(cmd.ErrOrStderr(), res)
			if cli.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), current)
			}
			if current == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no current session")
				return nil
			}
			if current.IsCompleted() {
				writeResult(cmd.OutOrStdout(), current, cli.locale)
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (started %s)\n", cyan("Session"), current.SessionID, current.CreatedAt.Format("2006-01-02 15:04"))
			missing := cli.service.Catalog().Questions().Missing(current.FormData.QuestionnaireAnswers)
			fmt.Fprintf(cmd.OutOrStdout(), "  answered %d of %d questions\n",
				cli.service.Catalog().Questions().Len()-len(missing), cli.service.Catalog().Questions().Len())
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Discard the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := cli.service.Clear(cmd.Context())
			warnResult(cmd.ErrOrStderr(), res)
			return res.Err()
		},
	}

	cmd.AddCommand(save, show, clearCmd)
	return cmd
}
