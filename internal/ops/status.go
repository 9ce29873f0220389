package ops

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/yash-srivastava19/vrz/internal/ignore"
	"github.com/yash-srivastava19/vrz/internal/index"
	"github.com/yash-srivastava19/vrz/internal/objstore"
	"github.com/yash-srivastava19/vrz/internal/refs"
	"github.com/yash-srivastava19/vrz/internal/repo"
)

// Status is the four-part report described in §4's composition section.
type Status struct {
	Branch          string
	Detached        bool
	ModifiedStaged  []string // differing sha between HEAD tree and index
	Added           []string // present in index, absent from HEAD tree
	DeletedStaged   []string // present in HEAD tree, absent from index
	ModifiedWorktree []string // index entries whose content no longer matches their recorded sha
	Untracked       []string
}

// Report computes the worktree/index/HEAD three-way status.
func Report(r *repo.Repo) (*Status, error) {
	st := &Status{}

	branch, detached, err := refs.ActiveBranch(r)
	if err != nil {
		return nil, err
	}
	st.Branch, st.Detached = branch, detached

	idx, err := index.Read(r)
	if err != nil {
		return nil, err
	}

	headTree, err := headFlatTree(r)
	if err != nil {
		return nil, err
	}

	indexByName := make(map[string]*index.Entry, len(idx.Entries))
	for _, e := range idx.Entries {
		indexByName[e.Name] = e
	}

	for name, sha := range headTree {
		if e, ok := indexByName[name]; ok {
			if e.Sha != sha {
				st.ModifiedStaged = append(st.ModifiedStaged, name)
			}
		} else {
			st.DeletedStaged = append(st.DeletedStaged, name)
		}
	}
	for name := range indexByName {
		if _, ok := headTree[name]; !ok {
			st.Added = append(st.Added, name)
		}
	}

	for _, e := range idx.Entries {
		abs := filepath.Join(r.Worktree, e.Name)
		info, err := os.Stat(abs)
		if err != nil {
			st.ModifiedWorktree = append(st.ModifiedWorktree, e.Name)
			continue
		}
		mtime := info.ModTime()
		if uint32(mtime.Unix()) == e.MtimeSec && uint32(mtime.Nanosecond()) == e.MtimeNano {
			continue
		}
		content, err := os.ReadFile(abs)
		if err != nil {
			st.ModifiedWorktree = append(st.ModifiedWorktree, e.Name)
			continue
		}
		sha := objstore.Sha1Hex(objstore.Frame(objstore.KindBlob, content))
		if sha != e.Sha {
			st.ModifiedWorktree = append(st.ModifiedWorktree, e.Name)
		}
	}

	rules, err := ignore.Read(r)
	if err != nil {
		return nil, err
	}
	var worktreeFiles []string
	err = filepath.Walk(r.Worktree, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(r.Worktree, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if info.IsDir() {
			if rel == ".vrz" {
				return filepath.SkipDir
			}
			return nil
		}
		worktreeFiles = append(worktreeFiles, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, f := range worktreeFiles {
		if _, tracked := indexByName[f]; tracked {
			continue
		}
		ignored, err := ignore.Check(rules, f)
		if err != nil {
			return nil, err
		}
		if !ignored {
			st.Untracked = append(st.Untracked, f)
		}
	}

	sort.Strings(st.ModifiedStaged)
	sort.Strings(st.Added)
	sort.Strings(st.DeletedStaged)
	sort.Strings(st.ModifiedWorktree)
	sort.Strings(st.Untracked)

	return st, nil
}

// headFlatTree returns path -> sha for every blob reachable from HEAD's
// tree, per other_utils.py:tree_to_dict.
func headFlatTree(r *repo.Repo) (map[string]string, error) {
	out := make(map[string]string)
	headSha, err := refs.Resolve(r, "HEAD")
	if err != nil {
		return nil, err
	}
	if headSha == "" {
		return out, nil
	}

	treeSha, err := objstore.Find(r, headSha, objstore.KindTree, true)
	if err != nil {
		return nil, err
	}
	if err := flattenTree(r, treeSha, "", out); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenTree(r *repo.Repo, treeSha, prefix string, out map[string]string) error {
	obj, err := objstore.ReadObject(r, treeSha)
	if err != nil {
		return err
	}
	entries, err := objstore.ParseTree(obj.Content)
	if err != nil {
		return err
	}
	for _, e := range entries {
		full := e.Path
		if prefix != "" {
			full = prefix + "/" + e.Path
		}
		if objstore.IsDirMode(e.Mode) {
			if err := flattenTree(r, e.Sha, full, out); err != nil {
				return err
			}
		} else {
			out[full] = e.Sha
		}
	}
	return nil
}
