package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vytor/kanjiflash/internal/models"
	"github.com/vytor/kanjiflash/internal/services"
)

func newSubmissionsCommand(ctx *commandContext) *cobra.Command {
	var filter models.SubmissionFilter
	var status string
	var stats bool

	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "List journaled grade submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			journal, err := ctx.ensureJournal()
			if err != nil {
				return err
			}
			svc := services.NewSubmissionService(journal)
			out := cmd.OutOrStdout()

			if stats {
				counts, err := svc.Stats(cmd.Context(), filter.SessionID)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, 3)
				total := 0
				for _, s := range []models.SubmissionStatus{models.SubmissionAcknowledged, models.SubmissionFailed, models.SubmissionDropped} {
					rows = append(rows, []string{string(s), strconv.Itoa(counts[s])})
					total += counts[s]
				}
				fmt.Fprintln(out, renderTable([]column{{title: "Status"}, {title: "Count", numeric: true}}, rows, "total", strconv.Itoa(total)))
				return nil
			}

			filter.Status = models.SubmissionStatus(status)
			subs, err := svc.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(subs) == 0 {
				fmt.Fprintln(out, "No submissions recorded")
				return nil
			}
			fmt.Fprintln(out, renderSubmissions(subs))
			return nil
		},
	}

	cmd.Flags().Int64Var(&filter.DeckID, "deck", 0, "Only show submissions for this deck")
	cmd.Flags().StringVar(&filter.SessionID, "session", "", "Only show submissions for this session")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (acknowledged, failed, dropped)")
	cmd.Flags().IntVar(&filter.Limit, "limit", 50, "Maximum rows to show")
	cmd.Flags().BoolVar(&stats, "stats", false, "Show counts per status instead of rows")
	return cmd
}

func renderSubmissions(subs []models.Submission) string {
	rows := make([][]string, 0, len(subs))
	for _, s := range subs {
		rows = append(rows, []string{
			s.CompletedAt.Local().Format("2006-01-02 15:04:05"),
			strconv.FormatInt(s.DeckID, 10),
			strconv.FormatInt(s.CardID, 10),
			s.Grade.String(),
			string(s.Status),
			s.Error,
		})
	}
	return renderTable([]column{
		{title: "Completed"},
		{title: "Deck", numeric: true},
		{title: "Card", numeric: true},
		{title: "Grade"},
		{title: "Status"},
		{title: "Error"},
	}, rows)
}
