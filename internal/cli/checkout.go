package cli

import (
	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/vrz/internal/ops"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout <commit-ish> <empty-dir>",
	Short: "Write a commit or tree's contents into an empty directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := findRepo()
		if err != nil {
			return err
		}
		return ops.Checkout(r, args[0], args[1])
	},
}
