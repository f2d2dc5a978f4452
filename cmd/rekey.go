package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/illarion/jsonlock/internal/keyring"
	"github.com/spf13/cobra"
)

var (
	rekeyPassword    string
	rekeyNewPassword string
)

var rekeyCmd = &cobra.Command{
	Use:   "rekey <file.json>",
	Short: "Re-encrypt a document under a new password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]

		lock, err := newLock()
		if err != nil {
			return err
		}

		// Get current password with retry on stale keyring
		current, _, err := GetPasswordWithRetry(rekeyPassword, path, "Enter current password: ", func(password string) error {
			return lock.VerifyPassword(ctx, path, password)
		})
		if err != nil {
			return err
		}

		newPassword := rekeyNewPassword
		if newPassword == "" {
			if newPassword, err = promptPassword("Enter new password: ", true); err != nil {
				return err
			}
		}

		stop := startSpinner("Re-encrypting " + path + "...")
		result, err := lock.Rekey(ctx, path, current, newPassword)
		stop()
		if err != nil {
			return err
		}

		// Always try to update an existing keyring entry
		if absPath, err := filepath.Abs(path); err == nil && keyring.HasPassword(absPath) {
			if err := keyring.SavePassword(absPath, newPassword); err == nil {
				fmt.Println("Keyring updated with new password")
			} else {
				Logger.Warnf("Failed to update keyring: %v", err)
			}
		}

		fmt.Printf("Password changed for %s (%d values)\n", result.Output, result.Leaves)
		return nil
	},
}

func init() {
	rekeyCmd.Flags().StringVarP(&rekeyPassword, "password", "p", "", "current password")
	rekeyCmd.Flags().StringVar(&rekeyNewPassword, "new-password", "", "new password (default prompt)")
}

func resetRekeyCommandState() {
	rekeyPassword = ""
	rekeyNewPassword = ""
}
