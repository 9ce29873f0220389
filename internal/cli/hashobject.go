package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/vrz/internal/objstore"
	"github.com/yash-srivastava19/vrz/internal/repo"
)

var (
	hashObjectType  string
	hashObjectWrite bool
)

// hashObjectCmd is routed to its own handler rather than sharing add's
// (Open Question (f): the source's CLI dispatch table maps "hash-object"
// to the add entry point, which silently ignores -t/-w; here it calls
// objstore.HashObject directly).
var hashObjectCmd = &cobra.Command{
	Use:   "hash-object <path>",
	Short: "Compute the object id for a file, optionally writing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		kind := objstore.Kind(hashObjectType)
		if hashObjectType == "" {
			kind = objstore.KindBlob
		}

		var r *repo.Repo
		if hashObjectWrite {
			found, err := findRepo()
			if err != nil {
				return err
			}
			r = found
		}

		sha, err := objstore.HashObject(r, kind, content, hashObjectWrite)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, sha)
		return nil
	},
}

func init() {
	hashObjectCmd.Flags().StringVarP(&hashObjectType, "type", "t", "blob", "object type (blob, tree, commit, tag)")
	hashObjectCmd.Flags().BoolVarP(&hashObjectWrite, "write", "w", false, "persist the object to the store")
}
