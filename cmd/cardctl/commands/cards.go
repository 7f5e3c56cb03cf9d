package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/samchan0221/mh-coding-task-2/internal/app"
	"github.com/samchan0221/mh-coding-task-2/internal/domain"
)

func cardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage the cards of the logged-in user",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List cards",
			Args:  cobra.NoArgs,
			RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
				body, _, err := a.Cards.ListCards(cmd.Context())
				if err != nil {
					return err
				}
				printCards(cmd.OutOrStdout(), body.Cards)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "create <monster-id>",
			Short: "Create a card",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
				monsterID, err := parseID("monster id", args[0])
				if err != nil {
					return err
				}
				body, reply, err := a.Cards.CreateCard(cmd.Context(), monsterID)
				if err != nil {
					return err
				}
				printResult(cmd.OutOrStdout(), "created", body, reply)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "update <card-id> <exp>",
			Short: "Set the exp of a card",
			Args:  cobra.ExactArgs(2),
			RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
				cardID, err := parseID("card id", args[0])
				if err != nil {
					return err
				}
				exp, err := strconv.ParseInt(args[1], 10, 64)
				if err != nil {
					return fmt.Errorf("exp: %w", err)
				}
				body, reply, err := a.Cards.UpdateCard(cmd.Context(), cardID, exp)
				if err != nil {
					return err
				}
				printResult(cmd.OutOrStdout(), "updated", body, reply)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "delete <card-id>",
			Short: "Delete a card",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
				cardID, err := parseID("card id", args[0])
				if err != nil {
					return err
				}
				body, reply, err := a.Cards.DeleteCard(cmd.Context(), cardID)
				if err != nil {
					return err
				}
				printResult(cmd.OutOrStdout(), "deleted", body, reply)
				return nil
			}),
		},
	)
	return cmd
}

func parseID(what, s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", what, err)
	}
	return v, nil
}

func printResult(w io.Writer, verb string, body domain.CardsBody, reply *domain.Reply) {
	if body.Card != nil {
		c := body.Card
		fmt.Fprintf(w, "%s card %d (monster %d, exp %d)", verb, c.ID, c.MonsterID, c.Exp)
		if reply != nil && reply.IsCache {
			fmt.Fprint(w, " [cached]")
		}
		fmt.Fprintln(w)
	}
	printCards(w, body.Cards)
}

func printCards(w io.Writer, cards []domain.Card) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "no cards")
		return
	}
	fmt.Fprintf(w, "%-8s %-10s %s\n", "ID", "MONSTER", "EXP")
	for _, c := range cards {
		fmt.Fprintf(w, "%-8d %-10d %d\n", c.ID, c.MonsterID, c.Exp)
	}
}
