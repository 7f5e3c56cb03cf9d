package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/samchan0221/mh-coding-task-2/internal/app"
	"github.com/samchan0221/mh-coding-task-2/internal/client"
	"github.com/samchan0221/mh-coding-task-2/internal/logging"
)

var (
	home       string
	configPath string
	passphrase string
	host       string
	timeout    time.Duration

	remoteTimeout        bool
	remoteInvalidPayload bool

	cfg app.Config
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "cardctl",
		Short:        "Client for the secure card service protocol",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".cardctl")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			var err error
			if cfg, err = app.LoadConfig(home, configPath); err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Timeout = timeout
			}
			logging.ConfigureRuntime(cfg.Log)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&home, "home", "", "config dir (default ~/.cardctl)")
	pf.StringVar(&configPath, "config", "", "config file (default <home>/config.toml)")
	pf.StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the saved client state")
	pf.StringVar(&host, "host", app.DefaultHost, "service base URL")
	pf.DurationVar(&timeout, "timeout", client.DefaultTimeout, "request timeout")
	pf.BoolVar(&remoteTimeout, "remote-timeout", false, "ask the service to stall (testing)")
	pf.BoolVar(&remoteInvalidPayload, "remote-invalid-payload", false, "ask the service for an undecodable reply (testing)")
	_ = pf.MarkHidden("remote-timeout")
	_ = pf.MarkHidden("remote-invalid-payload")

	root.AddCommand(initCmd(), keygenCmd(), loginCmd(), cardsCmd(), resendCmd(), statusCmd())
	return root
}

// withApp opens the app for a command and saves the client state when the
// command returns, whatever its outcome.
func withApp(fn func(cmd *cobra.Command, args []string, a *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		a, err := app.Open(cfg, passphrase)
		if err != nil {
			return err
		}
		a.Client.Simulate(client.Simulation{
			RemoteTimeout:            remoteTimeout,
			RemoteSendInvalidPayload: remoteInvalidPayload,
		})
		defer func() {
			if cerr := a.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		return fn(cmd, args, a)
	}
}
