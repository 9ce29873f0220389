package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/vrz/internal/ops"
)

var commitMessage string

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Record the staged content as a new commit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if commitMessage == "" {
			return fail("commit: -m <message> is required")
		}
		r, err := findRepo()
		if err != nil {
			return err
		}
		sha, err := ops.Commit(r, commitMessage, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, sha)
		return nil
	},
}

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "commit message")
}
