package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samchan0221/mh-coding-task-2/internal/crypto"
)

// keygen prints a key set in the [keys] layout of config.toml; the
// service needs the encryption key and the public key.
func keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Print a fresh encryption key and signing key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := crypto.GenerateKeys()
			if err != nil {
				return err
			}
			enc, priv, pub := keys.Strings()
			fmt.Fprintf(cmd.OutOrStdout(), "[keys]\nencryption = %q\nsign_private = %q\nsign_public = %q\n", enc, priv, pub)
			return nil
		},
	}
}
