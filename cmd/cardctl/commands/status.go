package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/samchan0221/mh-coding-task-2/internal/app"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session, nonce and pending request",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Host:     %s\n", a.Config.Host)
			fmt.Fprintf(out, "Device:   %s\n", a.Client.DeviceID())
			if u := a.Client.User(); u != nil {
				fmt.Fprintf(out, "User:     %d\n", u.UserID)
			} else {
				fmt.Fprintln(out, "User:     not logged in")
			}
			fmt.Fprintf(out, "Nonce:    %d\n", a.Client.Nonce())
			if t := a.Client.PredictedServerTime(); !t.IsZero() {
				fmt.Fprintf(out, "Server:   %s\n", t.UTC().Format(time.RFC3339))
			}
			if p, ok := a.Client.PendingRequest(); ok {
				fmt.Fprintf(out, "Pending:  %s nonce %d since %s\n", p.Route, p.Nonce, p.DispatchedAt.Format(time.RFC3339))
			} else {
				fmt.Fprintln(out, "Pending:  none")
			}
			fmt.Fprintf(out, "Cards:    %d known\n", len(a.Cards.Cards()))
			return nil
		}),
	}
}
