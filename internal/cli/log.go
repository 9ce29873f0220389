package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/vrz/internal/ops"
)

var logCmd = &cobra.Command{
	Use:   "log [commit]",
	Short: "Render a commit's ancestry as a Graphviz graph",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "HEAD"
		if len(args) == 1 {
			name = args[0]
		}
		r, err := findRepo()
		if err != nil {
			return err
		}
		dot, err := ops.Log(r, name)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, dot)
		return nil
	},
}
