package ops

import (
	"github.com/yash-srivastava19/vrz/internal/historylog"
	"github.com/yash-srivastava19/vrz/internal/objstore"
	"github.com/yash-srivastava19/vrz/internal/repo"
)

// Log resolves name to a commit and renders its full ancestry as a
// Graphviz DOT document.
func Log(r *repo.Repo, name string) (string, error) {
	sha, err := objstore.Find(r, name, objstore.KindCommit, true)
	if err != nil {
		return "", err
	}
	return historylog.Graph(r, sha)
}
