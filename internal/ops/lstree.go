package ops

import (
	"fmt"
	"path"

	"github.com/yash-srivastava19/vrz/internal/objstore"
	"github.com/yash-srivastava19/vrz/internal/repo"
)

// TreeLine is one rendered ls-tree row.
type TreeLine struct {
	Mode string
	Type string
	Sha  string
	Path string
}

// LsTree resolves ref to a tree and lists its entries, recursing into
// subtrees when recursive is true (matching other_utils.py:ls_tree).
func LsTree(r *repo.Repo, ref string, recursive bool) ([]TreeLine, error) {
	sha, err := objstore.Find(r, ref, objstore.KindTree, true)
	if err != nil {
		return nil, err
	}
	var out []TreeLine
	if err := lsTreeWalk(r, sha, recursive, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func lsTreeWalk(r *repo.Repo, treeSha string, recursive bool, prefix string, out *[]TreeLine) error {
	obj, err := objstore.ReadObject(r, treeSha)
	if err != nil {
		return err
	}
	entries, err := objstore.ParseTree(obj.Content)
	if err != nil {
		return err
	}

	for _, e := range entries {
		typ, err := entryType(e.Mode)
		if err != nil {
			return err
		}
		full := path.Join(prefix, e.Path)

		if recursive && typ == "tree" {
			if err := lsTreeWalk(r, e.Sha, recursive, full, out); err != nil {
				return err
			}
			continue
		}

		*out = append(*out, TreeLine{
			Mode: padMode(e.Mode),
			Type: typ,
			Sha:  e.Sha,
			Path: full,
		})
	}
	return nil
}

func entryType(mode string) (string, error) {
	switch modeTypePrefix(mode) {
	case "04":
		return "tree", nil
	case "10", "12":
		return "blob", nil
	case "16":
		return "commit", nil
	default:
		return "", fmt.Errorf("weird tree leaf mode %q", mode)
	}
}

func padMode(mode string) string {
	if len(mode) == 5 {
		return "0" + mode
	}
	return mode
}
