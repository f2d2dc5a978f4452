package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/illarion/jsonlock/internal/keyring"
	"github.com/spf13/cobra"
)

var keyringCmd = &cobra.Command{
	Use:   "keyring",
	Short: "Manage document passwords stored in the OS keyring",
}

var keyringSaveCmd = &cobra.Command{
	Use:   "save <file.json>",
	Short: "Save the password of an encrypted document to the keyring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		absPath, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		lock, err := newLock()
		if err != nil {
			return err
		}

		// Prompt for password
		password, err := promptPassword("Enter password: ", false)
		if err != nil {
			return err
		}

		// Verify password is correct
		if err := lock.VerifyPassword(cmd.Context(), absPath, password); err != nil {
			return err
		}

		if err := keyring.SavePassword(absPath, password); err != nil {
			return fmt.Errorf("failed to save to keyring: %w", err)
		}

		fmt.Println("Password saved to keyring")
		return nil
	},
}

var keyringDeleteCmd = &cobra.Command{
	Use:   "delete <file.json>",
	Short: "Remove a document password from the keyring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		absPath, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		if err := keyring.DeletePassword(absPath); err != nil {
			fmt.Println("No password stored in keyring")
			return nil
		}

		fmt.Println("Password removed from keyring")
		return nil
	},
}

var keyringStatusCmd = &cobra.Command{
	Use:   "status <file.json>",
	Short: "Check whether a document password is in the keyring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		absPath, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		if keyring.HasPassword(absPath) {
			fmt.Println("Password: stored in keyring")
		} else {
			fmt.Println("Password: not stored")
		}
		return nil
	},
}

func init() {
	keyringCmd.AddCommand(keyringSaveCmd)
	keyringCmd.AddCommand(keyringDeleteCmd)
	keyringCmd.AddCommand(keyringStatusCmd)
}
