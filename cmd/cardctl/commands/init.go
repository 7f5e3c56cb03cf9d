package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/samchan0221/mh-coding-task-2/internal/app"
	"github.com/samchan0221/mh-coding-task-2/internal/crypto"
)

// newDeviceID returns a random 32-character device id.
func newDeviceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func initCmd() *cobra.Command {
	var (
		force       bool
		encKey      string
		signKey     string
		generateKey bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write config.toml with a new device id and the service keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = filepath.Join(home, app.ConfigFile)
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			switch {
			case generateKey:
				keys, err := crypto.GenerateKeys()
				if err != nil {
					return err
				}
				enc, priv, pub := keys.Strings()
				cfg.Keys = app.KeyConfig{Encryption: enc, SignPrivate: priv, SignPublic: pub}
			case encKey != "" && signKey != "":
				cfg.Keys = app.KeyConfig{Encryption: encKey, SignPrivate: signKey}
			default:
				return fmt.Errorf("either --generate or both --encryption-key and --sign-key are required")
			}
			if cfg.DeviceID == "" || force {
				cfg.DeviceID = newDeviceID()
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if _, err := cfg.Keys.Parse(); err != nil {
				return err
			}
			if err := app.SaveConfig(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\nDevice: %s\n", path, cfg.DeviceID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config and device id")
	cmd.Flags().StringVar(&encKey, "encryption-key", "", "base64 32-byte ChaCha20 key shared with the service")
	cmd.Flags().StringVar(&signKey, "sign-key", "", "base64 Ed25519 private key or seed")
	cmd.Flags().BoolVar(&generateKey, "generate", false, "generate a fresh key set")
	return cmd
}
