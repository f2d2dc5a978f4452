package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/jsonlock/internal/core"
	"github.com/illarion/jsonlock/internal/jsontree"
	"github.com/illarion/jsonlock/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	debug       bool
	journalPath string
	noJournal   bool
	Logger      = logging.New(false, false)

	// Flags of the single-shot form: jsonlock -o encrypt -f file.json -p secret
	operation    string
	file         string
	rootPassword string

	RootCmd = &cobra.Command{
		Use:   "jsonlock",
		Short: "Encrypt and decrypt the values of JSON documents",
		Long: `jsonlock encrypts every value of a JSON document with a password while
keeping its structure (objects, arrays and keys) readable.

Each value is sealed with AES-256-GCM under a key derived by Argon2id from
the password and a per-value random salt.

The single-shot form is also accepted:
  jsonlock -o encrypt -f config.json -p secret`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logging.New(verbose, debug)
			Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.Name(), verbose, debug)
		},
		RunE: runRoot,
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().StringVar(&journalPath, "journal", "", "journal location (default $"+core.JournalEnv+" or the user config directory)")
	RootCmd.PersistentFlags().BoolVar(&noJournal, "no-journal", false, "do not read or update the journal")

	RootCmd.Flags().StringVarP(&operation, "operation", "o", "", "operation to perform: encrypt or decrypt")
	RootCmd.Flags().StringVarP(&file, "file", "f", "", "path to the JSON file")
	RootCmd.Flags().StringVarP(&rootPassword, "password", "p", "", "password (default $"+core.PasswordEnv+", keyring or prompt)")

	RootCmd.AddCommand(encryptCmd)
	RootCmd.AddCommand(decryptCmd)
	RootCmd.AddCommand(rekeyCmd)
	RootCmd.AddCommand(diffCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(forgetCmd)
	RootCmd.AddCommand(compactCmd)
	RootCmd.AddCommand(keyringCmd)
}

// Execute runs the command line and returns the process exit code
func Execute(ctx context.Context) int {
	if err := RootCmd.ExecuteContext(ctx); err != nil {
		HandleError(err)
		return 1
	}
	return 0
}

func runRoot(cmd *cobra.Command, args []string) error {
	if operation == "" && file == "" {
		return cmd.Help()
	}
	if file == "" {
		return fmt.Errorf("%w: --file is required with --operation", errUsage)
	}

	dir, err := jsontree.ParseDirection(operation)
	if err != nil {
		return err
	}

	switch dir {
	case jsontree.Encrypt:
		return runEncrypt(cmd.Context(), file, rootPassword, core.EncryptOptions{})
	default:
		return runDecrypt(cmd.Context(), file, rootPassword, core.DecryptOptions{})
	}
}

// newLock builds a JSONLock from the global flags
func newLock() (*core.JSONLock, error) {
	opts := []core.Option{core.WithLogger(Logger)}

	switch {
	case noJournal:
		opts = append(opts, core.WithoutJournal())
	case journalPath != "":
		opts = append(opts, core.WithJournal(journalPath))
	case os.Getenv(core.JournalEnv) != "":
		opts = append(opts, core.WithJournal(os.Getenv(core.JournalEnv)))
	}

	return core.New(opts...)
}

// ResetGlobalState resets all global flag variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	journalPath = ""
	noJournal = false
	operation = ""
	file = ""
	rootPassword = ""
	resetEncryptCommandState()
	resetDecryptCommandState()
	resetRekeyCommandState()
	resetDiffCommandState()
	Logger = logging.New(false, false)
}
