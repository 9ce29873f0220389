package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/vrz/internal/ops"
)

var lsFilesVerbose bool

var lsFilesCmd = &cobra.Command{
	Use:   "ls-files",
	Short: "Show information about staged files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := findRepo()
		if err != nil {
			return err
		}
		entries, err := ops.LsFiles(r)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if lsFilesVerbose {
				fmt.Fprintf(os.Stdout, "%s %s %d\n", e.Sha, e.Name, e.Size)
			} else {
				fmt.Fprintln(os.Stdout, e.Name)
			}
		}
		return nil
	},
}

func init() {
	lsFilesCmd.Flags().BoolVar(&lsFilesVerbose, "verbose", false, "show sha and size alongside each path")
}
