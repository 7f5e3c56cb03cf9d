package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samchan0221/mh-coding-task-2/internal/app"
	"github.com/samchan0221/mh-coding-task-2/internal/domain"
)

func resendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resend",
		Short: "Send the unacknowledged request again under the same nonce",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			p, ok := a.Client.PendingRequest()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to resend")
				return nil
			}
			reply, err := a.Client.Resend(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s acknowledged (nonce %d, cached %t)\n", p.Route, p.Nonce, reply.IsCache)
			if p.Route == domain.RouteLogin {
				return nil
			}
			body, err := a.Cards.Observe(reply)
			if err != nil {
				return err
			}
			printResult(out, "affected", body, reply)
			return nil
		}),
	}
}
