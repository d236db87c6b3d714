package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/conorfennell/knoldeck/internal/domain"
	"github.com/conorfennell/knoldeck/internal/study"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import DECK_ID SOURCE",
		Short: "Import Q:/A: cards from a directory or git repository",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid deck id %q: %w", args[0], err)
			}
			if err := a.cfg.EnsureDataDirs(); err != nil {
				return err
			}
			report, err := a.importer().Import(cmd.Context(), deckID, args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scanned %d files: %d cards parsed, %d added, %d already present, %d errors.\n",
				report.Files, report.Parsed, report.Added, report.Skipped, len(report.Errors))
			for _, e := range report.Errors {
				fmt.Fprintf(out, "- %s\n", e)
			}
			return nil
		},
	}
}

func newDueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "due DECK_ID...",
		Short: "List the cards due for study, honouring --shuffle and --session-limit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckIDs, err := parseDeckIDs(args)
			if err != nil {
				return err
			}
			opts := study.QueueOptions{Shuffle: a.cfg.Shuffle, Limit: a.cfg.SessionLimit}

			views, err := a.studyService().Queue(cmd.Context(), deckIDs, opts)
			if err != nil {
				return err
			}
			if len(views) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing due. Come back later.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDECK\tINTERVAL\tFRONT")
			for _, v := range views {
				interval := v.Interval
				if v.IsNew {
					interval = "new"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.Card.ID, v.DeckName, interval, v.Card.Front)
			}
			return tw.Flush()
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats DECK_ID...",
		Short: "Show card counts for one or more decks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckIDs, err := parseDeckIDs(args)
			if err != nil {
				return err
			}
			st, err := a.studyService().Stats(cmd.Context(), deckIDs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Total: %d\nNew: %d\nLearning: %d\nMature: %d\nDue: %d\n",
				st.Total, st.New, st.Learning, st.Mature, st.Due)
			return nil
		},
	}
}

func newReviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "review CARD_ID GRADE",
		Short: "Record a review with a grade from 0 (blackout) to 5 (perfect)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cardID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid card id %q: %w", args[0], err)
			}
			grade, err := domain.ParseGrade(args[1])
			if err != nil {
				return err
			}

			view, err := a.studyService().Answer(cmd.Context(), cardID, grade)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Next review in %s (ease %.2f, repetitions %d)\n",
				view.Interval, view.Card.EasinessFactor, view.Card.Repetitions)
			return nil
		},
	}
}
