package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var diffPassword string

var diffCmd = &cobra.Command{
	Use:   "diff <encrypted.json> <plain.json>",
	Short: "Compare an encrypted document with a plaintext one",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		encrypted, plain := args[0], args[1]

		lock, err := newLock()
		if err != nil {
			return err
		}

		password, _, err := GetPasswordWithRetry(diffPassword, encrypted, "Enter password: ", func(password string) error {
			return lock.VerifyPassword(ctx, encrypted, password)
		})
		if err != nil {
			return err
		}

		stop := startSpinner("Decrypting " + encrypted + "...")
		diff, err := lock.Diff(ctx, encrypted, plain, password)
		stop()
		if err != nil {
			return err
		}

		if diff == "" {
			fmt.Println("No differences")
			return nil
		}
		fmt.Print(diff)
		return nil
	},
}

func init() {
	diffCmd.Flags().StringVarP(&diffPassword, "password", "p", "", "password of the encrypted document")
}

func resetDiffCommandState() {
	diffPassword = ""
}
