package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/vrz/internal/colors"
	"github.com/yash-srivastava19/vrz/internal/ops"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the working tree status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := findRepo()
		if err != nil {
			return err
		}
		st, err := ops.Report(r)
		if err != nil {
			return err
		}

		if st.Detached {
			fmt.Fprintln(os.Stdout, colors.Dim("HEAD detached"))
		} else {
			fmt.Fprintf(os.Stdout, "On branch %s\n", colors.Bold(st.Branch))
		}

		printGroup := func(label string, names []string, colorize func(string) string) {
			for _, n := range names {
				fmt.Fprintf(os.Stdout, "  %s  %s\n", colorize(label), n)
			}
		}
		printGroup("M", st.ModifiedStaged, colors.Staged)
		printGroup("A", st.Added, colors.Added)
		printGroup("D", st.DeletedStaged, colors.Deleted)
		printGroup("M", st.ModifiedWorktree, colors.Modified)
		printGroup("?", st.Untracked, colors.Untracked)

		return nil
	},
}
