package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ramsey-B/willow/pkg/matching"
)

func newProfileCommand(cli *CLI) *cobra.Command {
	var flags formFlags
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the normalized Five-Element profile of the given answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := flags.form(cli.service.Catalog().Questions())
			if err != nil {
				return err
			}
			scores := cli.service.BuildProfile(cmd.Context(), form)
			if cli.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), scores)
			}
			writeScores(cmd.OutOrStdout(), scores)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

type rankedCandidate struct {
	PersonaID     string  `json:"personaId"`
	Score         float64 `json:"score"`
	MBTIMatch     int     `json:"mbtiMatch"`
	ElementMatch  int     `json:"elementMatch"`
	BehaviorMatch int     `json:"behaviorMatch"`
}

func newRankCommand(cli *CLI) *cobra.Command {
	var flags formFlags
	var limit int
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Score every persona against the given answers, best first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := flags.form(cli.service.Catalog().Questions())
			if err != nil {
				return err
			}
			ranked := cli.service.Rank(cmd.Context(), form)
			if limit > 0 && limit < len(ranked) {
				ranked = ranked[:limit]
			}

			rows := make([]rankedCandidate, len(ranked))
			for i, c := range ranked {
				rows[i] = rankedCandidate{
					PersonaID:     c.Persona.ID,
					Score:         c.Score,
					MBTIMatch:     matching.Percent(c.MBTIScore),
					ElementMatch:  matching.Percent(c.ElementScore),
					BehaviorMatch: matching.Percent(c.BehaviorScore),
				}
			}
			if cli.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), rows)
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "#\tPERSONA\tSCORE\tMBTI\tELEMENT\tBEHAVIOR")
			for i, r := range rows {
				fmt.Fprintf(tw, "%d\t%s\t%.2f\t%d%%\t%d%%\t%d%%\n", i+1, r.PersonaID, r.Score, r.MBTIMatch, r.ElementMatch, r.BehaviorMatch)
			}
			return tw.Flush()
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the first n personas")
	return cmd
}

func newMatchCommand(cli *CLI) *cobra.Command {
	var flags formFlags
	var sessionID string
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match a persona, complete the session and add it to history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := flags.form(cli.service.Catalog().Questions())
			if err != nil {
				return err
			}
			if missing := cli.service.Catalog().Questions().Missing(form.QuestionnaireAnswers); len(missing) > 0 && !cli.jsonOutput() {
				fmt.Fprintln(cmd.ErrOrStderr(), gray(fmt.Sprintf("unanswered: %v", missing)))
			}

			completed, res, err := cli.service.Submit(cmd.Context(), form, sessionID)
			if err != nil {
				return err
			}
			warnResult(cmd.ErrOrStderr(), res)

			if cli.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), completed)
			}
			writeResult(cmd.OutOrStdout(), completed, cli.locale)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&sessionID, "session", "", "Resume this session id instead of starting a new one")
	return cmd
}
