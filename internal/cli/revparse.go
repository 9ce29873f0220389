package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/vrz/internal/ops"
)

var revParseType string

var revParseCmd = &cobra.Command{
	Use:   "rev-parse <name>",
	Short: "Resolve a name to a single object id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := findRepo()
		if err != nil {
			return err
		}
		sha, err := ops.RevParse(r, args[0], revParseType)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, sha)
		return nil
	},
}

func init() {
	revParseCmd.Flags().StringVar(&revParseType, "type", "", "require the resolved object to be (or follow to) this type")
}
