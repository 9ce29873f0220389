package ops

import (
	"fmt"

	"github.com/yash-srivastava19/vrz/internal/ignore"
	"github.com/yash-srivastava19/vrz/internal/objstore"
	"github.com/yash-srivastava19/vrz/internal/refs"
	"github.com/yash-srivastava19/vrz/internal/repo"
	"github.com/yash-srivastava19/vrz/internal/vrzerr"
)

func findKind(r *repo.Repo, name, kindStr string) (string, error) {
	var kind objstore.Kind
	switch kindStr {
	case "":
		kind = ""
	case "blob":
		kind = objstore.KindBlob
	case "tree":
		kind = objstore.KindTree
	case "commit":
		kind = objstore.KindCommit
	case "tag":
		kind = objstore.KindTag
	default:
		return "", fmt.Errorf("%s: %w", kindStr, vrzerr.ErrUnknownObjectKind)
	}
	return objstore.Find(r, name, kind, true)
}

// ShowRefLine is one rendered show-ref row.
type ShowRefLine struct {
	Sha  string
	Path string
}

// ShowRef depth-first lists every ref under refs/, sha first then the
// slash-joined path, per other_utils.py:show_ref via refs.Walk.
func ShowRef(r *repo.Repo) ([]ShowRefLine, error) {
	nodes, err := refs.List(r, "refs")
	if err != nil {
		return nil, err
	}
	var out []ShowRefLine
	refs.Walk(nodes, "refs", func(path, sha string) {
		out = append(out, ShowRefLine{Sha: sha, Path: path})
	})
	return out, nil
}

// CheckIgnore reports, for each path, whether it is ignored.
func CheckIgnore(r *repo.Repo, paths []string) (map[string]bool, error) {
	rules, err := ignore.Read(r)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(paths))
	for _, p := range paths {
		ignored, err := ignore.Check(rules, p)
		if err != nil {
			return nil, err
		}
		out[p] = ignored
	}
	return out, nil
}
