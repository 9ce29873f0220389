package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/vrz/internal/ops"
)

var lsTreeRecursive bool

var lsTreeCmd = &cobra.Command{
	Use:   "ls-tree [-r] <tree-ish>",
	Short: "List the contents of a tree object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := findRepo()
		if err != nil {
			return err
		}
		lines, err := ops.LsTree(r, args[0], lsTreeRecursive)
		if err != nil {
			return err
		}
		for _, l := range lines {
			fmt.Fprintf(os.Stdout, "%s %s %s\t%s\n", l.Mode, l.Type, l.Sha, l.Path)
		}
		return nil
	},
}

func init() {
	lsTreeCmd.Flags().BoolVarP(&lsTreeRecursive, "recursive", "r", false, "recurse into subtrees")
}
