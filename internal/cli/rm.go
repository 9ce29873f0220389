package cli

import (
	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/vrz/internal/ops"
)

var rmKeepWorktree bool

var rmCmd = &cobra.Command{
	Use:   "rm <path>...",
	Short: "Unstage and delete files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := findRepo()
		if err != nil {
			return err
		}
		return ops.Rm(r, args, rmKeepWorktree, false)
	},
}

func init() {
	rmCmd.Flags().BoolVar(&rmKeepWorktree, "cached", false, "unstage without deleting the worktree file")
}
