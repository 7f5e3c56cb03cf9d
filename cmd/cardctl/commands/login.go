package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samchan0221/mh-coding-task-2/internal/app"
)

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate this device and store the session",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
			if _, err := a.Client.Login(cmd.Context()); err != nil {
				return err
			}
			u := a.Client.User()
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as user %d (device %s)\n", u.UserID, u.DeviceID)
			return nil
		}),
	}
}
