package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/vytor/kanjiflash/internal/models"
	"github.com/vytor/kanjiflash/internal/study"
	"github.com/vytor/kanjiflash/internal/summary"
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func paint(s, color string, colorize bool) string {
	if !colorize || color == "" {
		return s
	}
	return color + s + ansiReset
}

func badgeColor(badge string) string {
	switch badge {
	case "New!":
		return ansiBlue
	case "Review Due!":
		return ansiYellow
	}
	return ""
}

func tierColor(t summary.Tier) string {
	switch t {
	case summary.TierExcellent, summary.TierHigh:
		return ansiGreen
	case summary.TierModerate:
		return ansiYellow
	}
	return ansiRed
}

func renderCard(snap study.Snapshot, colorize bool) []string {
	if snap.Front == nil {
		return nil
	}
	lines := []string{
		fmt.Sprintf("%s  [%d/%d]  %.0f%%", snap.DeckTitle, snap.Position, snap.Total, snap.Progress),
		"",
		"    " + paint(snap.Front.Character, ansiBold, colorize),
		"",
	}

	badges := make([]string, 0, len(snap.Front.Badges))
	for _, b := range snap.Front.Badges {
		badges = append(badges, paint("["+b+"]", badgeColor(b), colorize))
	}
	lines = append(lines, fmt.Sprintf("  strokes: %d  frequency: %d  %s",
		snap.Front.StrokeCount, snap.Front.Frequency, strings.Join(badges, " ")))

	if snap.Back != nil {
		lines = append(lines,
			"  meaning: "+snap.Back.Meaning,
			"  reading: "+snap.Back.Reading,
		)
	}
	if snap.Failed > 0 {
		lines = append(lines, paint(fmt.Sprintf("  %d grade(s) could not be saved", snap.Failed), ansiRed, colorize))
	}
	return lines
}

var gradeColumns = []column{{title: "Grade"}, {title: "Cards", numeric: true}}

func renderSummary(sum summary.Summary, colorize bool) string {
	var b strings.Builder

	title := "Session complete"
	if sum.DeckTitle != "" {
		title += ": " + sum.DeckTitle
	}
	fmt.Fprintln(&b, title)
	fmt.Fprintln(&b, paint(sum.Headline, tierColor(sum.Tier), colorize))

	rows := make([][]string, 0, len(models.Grades))
	for _, g := range models.Grades {
		rows = append(rows, []string{strings.ToUpper(g.String()[:1]) + g.String()[1:], strconv.Itoa(sum.Count(g))})
	}
	fmt.Fprintln(&b, renderTable(gradeColumns, rows, "Total", strconv.Itoa(sum.Graded)))

	fmt.Fprintf(&b, "Success rate: %d%% (%d of %d)\n", sum.SuccessRate, sum.Successful, sum.Total)
	for _, rec := range sum.Recommendations {
		fmt.Fprintf(&b, "  - %s\n", rec)
	}
	fmt.Fprintln(&b, sum.Closing)
	return b.String()
}
