package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Compact the journal to reclaim unused space",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lock, err := newLock()
		if err != nil {
			return err
		}

		var sizeBefore int64
		if info, err := os.Stat(lock.JournalPath()); err == nil {
			sizeBefore = info.Size()
		}

		if err := lock.Compact(); err != nil {
			return err
		}

		info, err := os.Stat(lock.JournalPath())
		if err != nil {
			return err
		}

		fmt.Printf("Compacted: %s -> %s\n", formatSize(sizeBefore), formatSize(info.Size()))
		return nil
	},
}
