package main

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ramsey-B/willow/pkg/models"
)

func newCatalogCommand(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the persona and question catalogs",
	}

	personas := &cobra.Command{
		Use:   "personas",
		Short: "List every persona",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all := cli.service.Catalog().All()
			if cli.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), all)
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tTITLE\tERA\tELEMENT\tRARITY")
			for _, p := range all {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.LocalizedTitle(cli.locale), p.LocalizedEra(cli.locale), p.FiveElementProfile.Primary, p.Rarity)
			}
			return tw.Flush()
		},
	}

	persona := &cobra.Command{
		Use:   "persona <id>",
		Short: "Show one persona",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := cli.service.Catalog().PersonaByID(args[0])
			if err != nil {
				return err
			}
			return cli.writePersonaOutput(cmd, p)
		},
	}

	random := &cobra.Command{
		Use:   "random",
		Short: "Show a random persona",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
			if cli.seed != 0 {
				r = rand.New(rand.NewPCG(cli.seed, cli.seed))
			}
			return cli.writePersonaOutput(cmd, cli.service.Catalog().RandomPersona(r))
		},
	}

	questions := &cobra.Command{
		Use:   "questions",
		Short: "List the questionnaire with its answer values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all := cli.service.Catalog().Questions().All()
			if cli.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), all)
			}
			w := cmd.OutOrStdout()
			for _, q := range all {
				fmt.Fprintf(w, "%s %s\n", bold(q.ID), questionText(q, cli.locale))
				for _, o := range q.Options {
					fmt.Fprintf(w, "  %-3s %s %s\n", o.Key(), optionLabel(o, cli.locale), gray(strings.Join(o.Tags, " ")))
				}
			}
			return nil
		},
	}

	cmd.AddCommand(personas, persona, random, questions)
	return cmd
}

func (cli *CLI) writePersonaOutput(cmd *cobra.Command, p *models.Persona) error {
	if cli.jsonOutput() {
		return writeJSON(cmd.OutOrStdout(), p)
	}
	writePersona(cmd.OutOrStdout(), p, cli.locale)
	return nil
}

// The questionnaire is authored in Chinese with English variants.
func questionText(q models.Question, locale string) string {
	if locale != models.LocaleZh && q.TextEn != "" {
		return q.TextEn
	}
	return q.Text
}

func optionLabel(o models.QuestionOption, locale string) string {
	if locale != models.LocaleZh && o.LabelEn != "" {
		return o.LabelEn
	}
	return o.Label
}
