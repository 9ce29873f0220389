package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/vrz/internal/ops"
)

var checkIgnoreCmd = &cobra.Command{
	Use:   "check-ignore <path>...",
	Short: "Report which of the given paths are ignored",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := findRepo()
		if err != nil {
			return err
		}
		results, err := ops.CheckIgnore(r, args)
		if err != nil {
			return err
		}
		for _, p := range args {
			if results[p] {
				fmt.Fprintln(os.Stdout, p)
			}
		}
		return nil
	},
}
