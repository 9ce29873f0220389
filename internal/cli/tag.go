package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/vrz/internal/ops"
)

var tagAnnotated bool

var tagCmd = &cobra.Command{
	Use:   "tag [-a] [<name> [<object>]]",
	Short: "Create or list tags",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := findRepo()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			lines, err := ops.ShowRef(r)
			if err != nil {
				return err
			}
			for _, l := range lines {
				if len(l.Path) > len("refs/tags/") && l.Path[:len("refs/tags/")] == "refs/tags/" {
					fmt.Fprintln(os.Stdout, l.Path[len("refs/tags/"):])
				}
			}
			return nil
		}

		name := args[0]
		target := "HEAD"
		if len(args) == 2 {
			target = args[1]
		}
		return ops.CreateTag(r, name, target, tagAnnotated, time.Now())
	},
}

func init() {
	tagCmd.Flags().BoolVarP(&tagAnnotated, "annotate", "a", false, "create an annotated tag object")
}
