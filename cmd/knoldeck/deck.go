package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/conorfennell/knoldeck/internal/domain"
)

func newDeckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Manage decks",
	}

	var description string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deck, err := domain.NewDeck(args[0], description, time.Now())
			if err != nil {
				return err
			}
			if err := a.db.InsertDeck(cmd.Context(), deck); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created deck %s (%s)\n", deck.Name, deck.ID)
			return nil
		},
	}
	add.Flags().StringVar(&description, "description", "", "Deck description")

	list := &cobra.Command{
		Use:   "list",
		Short: "List decks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			decks, err := a.db.ListDecks(cmd.Context())
			if err != nil {
				return err
			}
			if len(decks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No decks yet. Add one with: knoldeck deck add NAME")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
			for _, d := range decks {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", d.ID, d.Name, d.Description)
			}
			return tw.Flush()
		},
	}

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a deck and its cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid deck id %q: %w", args[0], err)
			}
			if err := a.db.DeleteDeck(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted deck %s\n", id)
			return nil
		},
	}

	cmd.AddCommand(add, list, rm)
	return cmd
}

func parseDeckIDs(args []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(args))
	for _, arg := range args {
		id, err := uuid.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid deck id %q: %w", arg, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
