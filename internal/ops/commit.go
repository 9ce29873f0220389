// Package ops is the composition layer (§4 "Composition: commit,
// status, checkout, log"): it wires components A-E together into the
// user-facing operations, and is the one package allowed to import both
// internal/objstore and internal/refs together (tag creation needs
// both: write a tag object, then point a ref at it).
package ops

import (
	"fmt"
	"time"

	"github.com/yash-srivastava19/vrz/internal/index"
	"github.com/yash-srivastava19/vrz/internal/objstore"
	"github.com/yash-srivastava19/vrz/internal/refs"
	"github.com/yash-srivastava19/vrz/internal/repo"
	"github.com/yash-srivastava19/vrz/internal/uconfig"
)

// Commit builds the root tree from the current index, links it to the
// current HEAD as parent (if any), and advances the active branch ref
// (or a detached HEAD) to the new commit. now is injected so callers
// control the author/committer timestamp.
func Commit(r *repo.Repo, message string, now time.Time) (string, error) {
	idx, err := index.Read(r)
	if err != nil {
		return "", err
	}

	var treeSha string
	if len(idx.Entries) == 0 {
		framed, err := objstore.SerializeTree(nil)
		if err != nil {
			return "", err
		}
		treeSha, err = objstore.HashObject(r, objstore.KindTree, framed, true)
		if err != nil {
			return "", err
		}
	} else {
		treeSha, err = index.TreeFromIndex(r, idx)
		if err != nil {
			return "", err
		}
	}

	parentSha, err := refs.Resolve(r, "HEAD")
	if err != nil {
		return "", err
	}

	cfg, err := uconfig.Read()
	if err != nil {
		return "", err
	}
	author, err := uconfig.Author(cfg)
	if err != nil {
		return "", err
	}

	kvlm := objstore.NewKVLM()
	kvlm.Set("tree", []byte(treeSha))
	if parentSha != "" {
		kvlm.Set("parent", []byte(parentSha))
	}
	ident := formatIdentity(author, now)
	kvlm.Set("author", []byte(ident))
	kvlm.Set("committer", []byte(ident))
	kvlm.Message = []byte(message)

	commitSha, err := objstore.HashObject(r, objstore.KindCommit, kvlm.Serialize(), true)
	if err != nil {
		return "", err
	}

	branch, detached, err := refs.ActiveBranch(r)
	if err != nil {
		return "", err
	}
	if detached {
		if err := refs.SetHeadDetached(r, commitSha); err != nil {
			return "", err
		}
	} else {
		if err := refs.CreateRef(r, "refs/heads/"+branch, commitSha); err != nil {
			return "", err
		}
	}

	return commitSha, nil
}

func formatIdentity(author string, now time.Time) string {
	_, offset := now.Zone()
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	hours := offset / 3600
	minutes := (offset % 3600) / 60
	tz := fmt.Sprintf("%s%02d%02d", sign, hours, minutes)
	return fmt.Sprintf("%s %d %s", author, now.Unix(), tz)
}
