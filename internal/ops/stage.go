package ops

import (
	"github.com/yash-srivastava19/vrz/internal/index"
	"github.com/yash-srivastava19/vrz/internal/repo"
)

// Add stages the given worktree paths.
func Add(r *repo.Repo, paths []string) error {
	return index.Add(r, paths)
}

// Rm unstages the given worktree paths, deleting them on disk unless
// keepWorktreeFile is true.
func Rm(r *repo.Repo, paths []string, keepWorktreeFile, skipMissing bool) error {
	idx, err := index.Read(r)
	if err != nil {
		return err
	}
	return index.Rm(r, idx, paths, !keepWorktreeFile, skipMissing)
}
