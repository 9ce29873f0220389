package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/vrz/internal/objstore"
)

// catFileCmd takes its type positionally (cat-file <type> <object>),
// matching cmd_fns.py's cat_file_cmd rather than inferring the type
// from the stored object (Supplemented Features §10).
var catFileCmd = &cobra.Command{
	Use:   "cat-file <type> <object>",
	Short: "Print the content of a repository object",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := findRepo()
		if err != nil {
			return err
		}
		kind := objstore.Kind(args[0])
		sha, err := objstore.Find(r, args[1], kind, true)
		if err != nil {
			return err
		}
		obj, err := objstore.ReadObject(r, sha)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(obj.Content)
		return err
	},
}
