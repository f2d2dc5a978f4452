package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var forgetCmd = &cobra.Command{
	Use:   "forget <file.json> [file.json...]",
	Short: "Remove documents from the journal",
	Long:  `Removes journal entries only. The documents themselves are not touched.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lock, err := newLock()
		if err != nil {
			return err
		}

		for _, path := range args {
			removed, err := lock.Forget(path)
			if err != nil {
				return err
			}
			if removed {
				fmt.Printf("forgot: %s\n", path)
			} else {
				Logger.Warnf("%s is not in the journal", path)
			}
		}
		return nil
	},
}
