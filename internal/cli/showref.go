package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/vrz/internal/ops"
)

var showRefCmd = &cobra.Command{
	Use:   "show-ref",
	Short: "List every ref and the object id it resolves to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := findRepo()
		if err != nil {
			return err
		}
		lines, err := ops.ShowRef(r)
		if err != nil {
			return err
		}
		for _, l := range lines {
			fmt.Fprintf(os.Stdout, "%s %s\n", l.Sha, l.Path)
		}
		return nil
	},
}
