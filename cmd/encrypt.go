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
	encryptPassword string
	encryptForce    bool
	encryptDryRun   bool
	encryptOutput   string
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt <file.json>",
	Short: "Encrypt every value of a JSON document",
	Long: `Encrypts every string, number, boolean and null of the document in place.
Keys, nesting and array order stay as they are.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEncrypt(cmd.Context(), args[0], encryptPassword, core.EncryptOptions{
			Force:  encryptForce,
			DryRun: encryptDryRun,
			Output: encryptOutput,
		})
	},
}

func init() {
	encryptCmd.Flags().StringVarP(&encryptPassword, "password", "p", "", "password (default $"+core.PasswordEnv+", keyring or prompt)")
	encryptCmd.Flags().BoolVar(&encryptForce, "force", false, "encrypt even if the journal says the document is already encrypted")
	encryptCmd.Flags().BoolVar(&encryptDryRun, "dry-run", false, "print the encrypted document instead of writing it")
	encryptCmd.Flags().StringVar(&encryptOutput, "output", "", "write to this file instead of replacing the input")
}

func resetEncryptCommandState() {
	encryptPassword = ""
	encryptForce = false
	encryptDryRun = false
	encryptOutput = ""
}

func runEncrypt(ctx context.Context, path, passwordFlag string, opts core.EncryptOptions) error {
	if opts.DryRun {
		// stdout carries the document
		Logger.Out = os.Stderr
	}
	Logger.Infof("Starting encrypt command")
	lock, err := newLock()
	if err != nil {
		return err
	}

	password, source, err := GetPassword(passwordFlag, path, "Enter password: ", true)
	if err != nil {
		return err
	}

	stop := startSpinner("Encrypting " + path + "...")
	result, err := lock.EncryptFile(ctx, path, password, opts)
	stop()
	if err != nil {
		return err
	}

	if !result.Written {
		os.Stdout.Write(result.Data)
		return nil
	}

	fmt.Printf("%s Encrypted file has been saved to %s\n", color.GreenString("✓"), result.Output)
	OfferToSavePassword(result.Output, password, source)
	return nil
}
