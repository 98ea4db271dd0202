package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vytor/kanjiflash/internal/errors"
	"github.com/vytor/kanjiflash/internal/models"
	"github.com/vytor/kanjiflash/internal/services"
	"github.com/vytor/kanjiflash/internal/study"
)

func newStudyCommand(ctx *commandContext) *cobra.Command {
	var deckID int64

	cmd := &cobra.Command{
		Use:   "study",
		Short: "Study the cards due in a deck",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			if deckID <= 0 {
				return fmt.Errorf("--deck must be a positive deck id")
			}
			svc, err := ctx.ensureStudy()
			if err != nil {
				return err
			}
			loop := &studyLoop{
				svc:      svc,
				deckID:   deckID,
				in:       bufio.NewScanner(cmd.InOrStdin()),
				out:      cmd.OutOrStdout(),
				colorize: shouldColorize(cmd.OutOrStdout()),
			}
			return loop.run(cmd.Context())
		},
	}

	cmd.Flags().Int64VarP(&deckID, "deck", "d", 0, "Deck id to study")
	_ = cmd.MarkFlagRequired("deck")
	return cmd
}

// studyLoop reads one command per line and drives a deck's session until the
// user quits or input ends.
type studyLoop struct {
	svc      services.StudyService
	deckID   int64
	in       *bufio.Scanner
	out      io.Writer
	colorize bool
}

func (l *studyLoop) run(ctx context.Context) error {
	snap, err := l.svc.Open(ctx, l.deckID)
	if err != nil {
		return err
	}
	l.render(ctx, snap)

	for {
		fmt.Fprint(l.out, prompt(snap))
		if !l.in.Scan() {
			fmt.Fprintln(l.out)
			l.exit(ctx)
			return l.in.Err()
		}
		input := strings.ToLower(strings.TrimSpace(l.in.Text()))
		if input == "" {
			continue
		}
		if input == "q" || input == "quit" || input == "exit" {
			l.exit(ctx)
			return nil
		}

		next, err := l.handle(ctx, snap, input)
		if err != nil {
			fmt.Fprintln(l.out, paint(describe(err), ansiRed, l.colorize))
			continue
		}
		snap = next
		l.render(ctx, snap)
	}
}

func (l *studyLoop) handle(ctx context.Context, snap study.Snapshot, input string) (study.Snapshot, error) {
	switch snap.Phase {
	case study.PhaseActive:
		if input == "f" || input == "flip" {
			return l.svc.Flip(ctx, l.deckID)
		}
		if _, err := models.ParseGrade(input); err == nil {
			res, err := l.svc.Grade(ctx, l.deckID, input)
			if err != nil {
				return snap, err
			}
			return res.Snapshot, nil
		}
	case study.PhaseComplete, study.PhaseErrored:
		if input == "r" || input == "restart" || input == "retry" {
			return l.svc.Restart(ctx, l.deckID)
		}
	}
	return snap, fmt.Errorf("unknown command %q", input)
}

func (l *studyLoop) render(ctx context.Context, snap study.Snapshot) {
	switch snap.Phase {
	case study.PhaseLoading:
		fmt.Fprintln(l.out, "Loading study session...")
	case study.PhaseActive:
		fmt.Fprintln(l.out)
		for _, line := range renderCard(snap, l.colorize) {
			fmt.Fprintln(l.out, line)
		}
	case study.PhaseErrored:
		fmt.Fprintln(l.out, paint("Could not load the study session: "+snap.Error, ansiRed, l.colorize))
	case study.PhaseComplete:
		if snap.NothingDue {
			fmt.Fprintln(l.out, "No cards are due for review in this deck right now.")
			return
		}
		sum, err := l.svc.Summary(ctx, l.deckID)
		if err != nil {
			fmt.Fprintln(l.out, paint(describe(err), ansiRed, l.colorize))
			return
		}
		fmt.Fprintln(l.out)
		fmt.Fprint(l.out, renderSummary(*sum, l.colorize))
	}
}

func (l *studyLoop) exit(ctx context.Context) {
	_ = l.svc.Exit(ctx, l.deckID)
}

func prompt(snap study.Snapshot) string {
	switch snap.Phase {
	case study.PhaseActive:
		if snap.Revealed {
			return "[1] bad  [2] hard  [3] good  [4] easy  [f] hide  [q] quit > "
		}
		return "[f] flip  [1] bad  [2] hard  [3] good  [4] easy  [q] quit > "
	case study.PhaseComplete:
		return "[r] study again  [q] quit > "
	case study.PhaseErrored:
		return "[r] retry  [q] quit > "
	}
	return "[q] quit > "
}

func describe(err error) string {
	if appErr, ok := errors.As(err); ok {
		return appErr.Message
	}
	return err.Error()
}
