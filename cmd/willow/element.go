package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ramsey-B/willow/pkg/element"
	"github.com/Ramsey-B/willow/pkg/models"
)

func newElementCommand(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "element <YYYY-MM-DD|year>",
		Short: "Resolve the Five-Element sign of a birth year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := parseYear(args[0])
			if err != nil {
				return err
			}
			e := element.ResolveYear(year)
			if cli.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"year": year, "element": e})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", year, bold(e))
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "compat <element> <element>",
		Short: "Show the compatibility percentage of two elements",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				if !models.IsElement(arg) {
					return fmt.Errorf("unknown element %q", arg)
				}
			}
			a, b := models.Element(args[0]), models.Element(args[1])
			score := element.Compatibility(a, b)
			if cli.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"a": a, "b": b, "compatibility": score})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s / %s: %d%%\n", a, b, score)
			return nil
		},
	})

	return cmd
}

func parseYear(arg string) (int, error) {
	if year, err := strconv.Atoi(arg); err == nil {
		return year, nil
	}
	date, err := time.Parse(models.BirthDateLayout, arg)
	if err != nil {
		return 0, fmt.Errorf("invalid date or year %q", arg)
	}
	return date.Year(), nil
}
