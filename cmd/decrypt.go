package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/illarion/jsonlock/internal/core"
	"github.com/spf13/cobra"
)

var (
	decryptPassword string
	decryptDryRun   bool
	decryptOutput   string
)

var decryptCmd = &cobra.Command{
	Use:   "decrypt <file.json>",
	Short: "Decrypt every value of a JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDecrypt(cmd.Context(), args[0], decryptPassword, core.DecryptOptions{
			DryRun: decryptDryRun,
			Output: decryptOutput,
		})
	},
}

func init() {
	decryptCmd.Flags().StringVarP(&decryptPassword, "password", "p", "", "password (default $"+core.PasswordEnv+", keyring or prompt)")
	decryptCmd.Flags().BoolVar(&decryptDryRun, "dry-run", false, "print the decrypted document instead of writing it")
	decryptCmd.Flags().StringVar(&decryptOutput, "output", "", "write to this file instead of replacing the input")
}

func resetDecryptCommandState() {
	decryptPassword = ""
	decryptDryRun = false
	decryptOutput = ""
}

func runDecrypt(ctx context.Context, path, passwordFlag string, opts core.DecryptOptions) error {
	if opts.DryRun {
		// stdout carries the document
		Logger.Out = os.Stderr
	}
	Logger.Infof("Starting decrypt command")
	lock, err := newLock()
	if err != nil {
		return err
	}

	password, source, err := GetPasswordWithRetry(passwordFlag, path, "Enter password: ", func(password string) error {
		return lock.VerifyPassword(ctx, path, password)
	})
	if err != nil {
		return err
	}

	stop := startSpinner("Decrypting " + path + "...")
	result, err := lock.DecryptFile(ctx, path, password, opts)
	stop()
	if err != nil {
		return err
	}

	if !result.Written {
		os.Stdout.Write(result.Data)
		return nil
	}

	fmt.Printf("%s Decrypted file has been saved to %s\n", color.GreenString("✓"), result.Output)
	OfferToSavePassword(result.Path, password, source)
	return nil
}
