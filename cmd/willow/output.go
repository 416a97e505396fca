package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Gobusters/ectolinq"
	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/Ramsey-B/willow/pkg/models"
	"github.com/Ramsey-B/willow/pkg/storage"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

func (cli *CLI) jsonOutput() bool {
	return cli.output == outputJSON
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// warnResult prints a storage degradation notice; the command itself still succeeds.
func warnResult(w io.Writer, res storage.Result) {
	if res.IsOK() {
		return
	}
	fmt.Fprintln(w, yellow(fmt.Sprintf("warning: %s (%v)", res.Status(), res.Err())))
}

func writeMetrics(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "willow_") {
			continue
		}
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode metrics: %w", err)
		}
	}
	return nil
}

func writeScores(w io.Writer, scores models.FiveElementScores) {
	tw := newTable(w)
	for _, e := range models.Elements {
		fmt.Fprintf(tw, "%s\t%.3f\t%s\n", e, scores.Get(e), strings.Repeat("#", int(scores.Get(e)*20+0.5)))
	}
	tw.Flush()
	if dominant, ok := scores.Dominant(); ok {
		fmt.Fprintf(w, "\nDominant: %s\n", dominant)
	}
}

func writePersona(w io.Writer, p *models.Persona, locale string) {
	fmt.Fprintf(w, "%s %s\n", bold(p.LocalizedTitle(locale)), gray("("+p.ID+")"))
	fmt.Fprintf(w, "  %s, %s, %s\n", p.LocalizedEra(locale), p.LocalizedRegion(locale), p.LocalizedCulture(locale))
	fmt.Fprintf(w, "  Role: %s   Rarity: %s\n", p.LocalizedRole(locale), strings.Repeat("*", p.Rarity))
	fmt.Fprintf(w, "  Element: %s", p.FiveElementProfile.Primary)
	if len(p.FiveElementProfile.Supporting) > 0 {
		fmt.Fprintf(w, " (+%s)", joinElements(p.FiveElementProfile.Supporting))
	}
	fmt.Fprintf(w, "   MBTI: %s\n", joinMBTI(p.MBTIAffinity))
	fmt.Fprintf(w, "  Traits: %s\n", strings.Join(p.LocalizedTraits(locale), ", "))
}

func writeResult(w io.Writer, s *models.Session, locale string) {
	r := s.Result
	fmt.Fprintf(w, "%s %s\n", cyan("Session"), s.SessionID)
	writePersona(w, r.Persona, locale)
	fmt.Fprintf(w, "\n%s %.2f   MBTI %d%%   Element %d%%   Behavior %d%%\n\n",
		green("Match"), r.MatchScore, r.MBTIMatch, r.ElementMatch, r.BehaviorMatch)
	for _, reason := range r.Reasoning {
		fmt.Fprintf(w, "  - %s\n", reason)
	}
	if story := r.Persona.LocalizedStory(locale); story != "" {
		fmt.Fprintf(w, "\n%s\n", strings.TrimSpace(story))
	}
	if note := r.Persona.LocalizedBalanceNote(locale); note != "" {
		fmt.Fprintf(w, "\n%s %s\n", bold("Balance:"), note)
	}
}

func writeSessions(w io.Writer, sessions []*models.Session) {
	tw := newTable(w)
	fmt.Fprintln(tw, "SESSION\tCOMPLETED\tPERSONA\tSCORE")
	for _, s := range sessions {
		completed, persona, score := "-", "-", "-"
		if s.CompletedAt != nil {
			completed = s.CompletedAt.Format("2006-01-02 15:04")
		}
		if s.Result != nil && s.Result.Persona != nil {
			persona = s.Result.Persona.ID
			score = fmt.Sprintf("%.2f", s.Result.MatchScore)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.SessionID, completed, persona, score)
	}
	tw.Flush()
}

func joinElements(elements []models.Element) string {
	return strings.Join(ectolinq.Map(elements, func(e models.Element) string { return string(e) }), ", ")
}

func joinMBTI(types []models.MBTIType) string {
	return strings.Join(ectolinq.Map(types, func(t models.MBTIType) string { return string(t) }), ", ")
}
