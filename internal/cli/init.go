package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/vrz/internal/repo"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create an empty vrz repository",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) == 1 {
			path = args[0]
		}
		r, err := repo.Create(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Initialized empty vrz repository in %s\n", r.VrzDir)
		return nil
	},
}
