package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Gobusters/ectolinq"
	"github.com/spf13/cobra"

	"github.com/Ramsey-B/willow/pkg/models"
)

var eventTypes = []models.AnalyticsEventType{
	models.EventSessionStarted,
	models.EventMBTICompleted,
	models.EventMBTISkipped,
	models.EventBirthInfoCompleted,
	models.EventQuestionnaireCompleted,
	models.EventSessionCompleted,
	models.EventResultGenerated,
	models.EventResultShared,
	models.EventFormAbandoned,
	models.EventErrorOccurred,
}

func newAnalyticsCommand(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Inspect the local analytics log",
	}

	summary := &cobra.Command{
		Use:   "summary",
		Short: "Summarize tracked events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := cli.service.Analytics(cmd.Context())
			if cli.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), s)
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintf(tw, "Sessions started\t%d\n", s.TotalSessions)
			fmt.Fprintf(tw, "Sessions completed\t%d\n", s.CompletedSessions)
			fmt.Fprintf(tw, "Abandoned (mbti/birth/questionnaire)\t%d/%d/%d\n",
				s.FormAbandonment.AtMBTI, s.FormAbandonment.AtBirth, s.FormAbandonment.AtQuestionnaire)
			fmt.Fprintf(tw, "Average match score\t%.2f\n", s.AvgMatchScore)

			ids := make([]string, 0, len(s.PersonaDistribution))
			for id := range s.PersonaDistribution {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Fprintf(tw, "  %s\t%d\n", id, s.PersonaDistribution[id])
			}
			return tw.Flush()
		},
	}

	export := &cobra.Command{
		Use:   "export",
		Short: "Print the summary and every event as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := cli.service.ExportAnalytics(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	track := &cobra.Command{
		Use:   "track <event-type> [key=value...]",
		Short: "Record an event, e.g. form_abandoned step=birth",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventType := models.AnalyticsEventType(args[0])
			if !ectolinq.Contains(eventTypes, eventType) {
				return fmt.Errorf("unknown event type %q", args[0])
			}
			data, err := eventData(args[1:])
			if err != nil {
				return err
			}
			cli.service.Track(cmd.Context(), eventType, data)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the analytics log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := cli.service.ClearAnalytics(cmd.Context())
			warnResult(cmd.ErrOrStderr(), res)
			return res.Err()
		},
	}

	cmd.AddCommand(summary, export, track, clearCmd)
	return cmd
}

// eventData parses key=value pairs; numeric values are stored as numbers.
func eventData(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	data := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid event field %q, expected key=value", pair)
		}
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			data[key] = n
			continue
		}
		data[key] = value
	}
	return data, nil
}
