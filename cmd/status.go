package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/illarion/jsonlock/internal/core"
	"github.com/illarion/jsonlock/internal/git"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show documents recorded in the journal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lock, err := newLock()
		if err != nil {
			return err
		}

		// Get status (no password required)
		status, err := lock.Status(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println("Documents:")
		if len(status.Documents) == 0 {
			fmt.Println("  (none)")
		}
		for _, d := range status.Documents {
			fmt.Printf("  %s %s (%d values, %s)\n", stateLabel(d.Current), d.Entry.Path, d.Entry.Leaves, formatSize(d.Entry.Size))
		}

		fmt.Printf("\n%d encrypted, %d decrypted, %d modified, %d missing\n",
			status.EncryptedCount, status.DecryptedCount, status.ModifiedCount, status.MissingCount)
		if !status.LastModified.IsZero() {
			fmt.Printf("Journal: %s (last update: %s)\n", status.JournalPath, status.LastModified.Format(time.RFC3339))
		}

		fmt.Print(git.FormatGitStatus(status.GitStatus))
		return nil
	},
}

func stateLabel(s core.DocumentState) string {
	label := fmt.Sprintf("%-9s", s)
	switch s {
	case core.StateEncrypted:
		return color.GreenString(label)
	case core.StateDecrypted:
		return color.YellowString(label)
	default:
		return color.RedString(label)
	}
}
