package cli

import (
	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/vrz/internal/ops"
)

var addCmd = &cobra.Command{
	Use:   "add <path>...",
	Short: "Stage files for the next commit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := findRepo()
		if err != nil {
			return err
		}
		return ops.Add(r, args)
	},
}
