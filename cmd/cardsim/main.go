package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/samchan0221/mh-coding-task-2/internal/app"
	"github.com/samchan0221/mh-coding-task-2/internal/crypto"
	"github.com/samchan0221/mh-coding-task-2/internal/logging"
	"github.com/samchan0221/mh-coding-task-2/internal/simulator"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		addr       string
		home       string
		configPath string
		secret     string
		opts       simulator.Options
		debug      bool
	)
	cmd := &cobra.Command{
		Use:          "cardsim",
		Short:        "In-memory card service for local development",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(home, configPath)
			if err != nil {
				return err
			}
			logging.ConfigureRuntime(cfg.Log)
			if !debug {
				gin.SetMode(gin.ReleaseMode)
			}

			keys, err := cfg.Keys.Parse()
			if err != nil {
				return fmt.Errorf("keys: %w", err)
			}
			engine, err := crypto.NewEngine(keys.VerifyOnly())
			if err != nil {
				return err
			}
			opts.Secret = []byte(secret)
			opts.Version = cfg.Version
			opts.VersionKey = cfg.VersionKey
			sim, err := simulator.New(engine, opts)
			if err != nil {
				return err
			}

			srv := &http.Server{Addr: addr, Handler: sim.Handler(), ReadHeaderTimeout: 10 * time.Second}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdown, cancel := context.WithTimeout(context.Background(), opts.Delay+time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdown)
			}()

			logrus.WithFields(logrus.Fields{"addr": addr, "delay": opts.Delay, "skew": opts.ClockSkew}).Info("cardsim listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&addr, "addr", ":8080", "listen address")
	f.StringVar(&home, "home", ".", "directory holding config.toml with the shared keys")
	f.StringVar(&configPath, "config", "", "config file (default <home>/config.toml)")
	f.StringVar(&secret, "secret", "", "token signing secret (random when empty)")
	f.DurationVar(&opts.Delay, "delay", simulator.DefaultDelay, "execution time of requests flagged remoteTimeout")
	f.DurationVar(&opts.ClockSkew, "skew", 0, "offset added to the server clock")
	f.BoolVar(&debug, "debug", false, "gin debug mode")
	return cmd
}
