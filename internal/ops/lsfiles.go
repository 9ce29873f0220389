package ops

import (
	"github.com/yash-srivastava19/vrz/internal/index"
	"github.com/yash-srivastava19/vrz/internal/repo"
)

// LsFiles returns the currently staged index entries, in on-disk
// (name-sorted) order.
func LsFiles(r *repo.Repo) ([]*index.Entry, error) {
	idx, err := index.Read(r)
	if err != nil {
		return nil, err
	}
	return idx.Entries, nil
}

// RevParse resolves name to a single sha, optionally constrained to
// follow to kind (mirrors object_find's follow chase).
func RevParse(r *repo.Repo, name string, kind string) (string, error) {
	return findKind(r, name, kind)
}
