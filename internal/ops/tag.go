package ops

import (
	"fmt"
	"time"

	"github.com/yash-srivastava19/vrz/internal/objstore"
	"github.com/yash-srivastava19/vrz/internal/refs"
	"github.com/yash-srivastava19/vrz/internal/repo"
	"github.com/yash-srivastava19/vrz/internal/uconfig"
)

// CreateTag makes a lightweight tag (ref pointing directly at the
// resolved object) or, when annotated is true, an annotated tag object
// that the ref then points at.
//
// Fixes Open Question (c): other_utils.py:tag_create writes the ref
// before the tag object exists in one reading of the source's control
// flow ambiguity around create_tag_object; here the tag object is
// always persisted to the store first, then the ref is created to
// point at it, so a reader can never observe a ref naming an absent
// object.
func CreateTag(r *repo.Repo, name, target string, annotated bool, now time.Time) error {
	sha, err := objstore.Find(r, target, "", false)
	if err != nil {
		return err
	}

	if !annotated {
		return refs.CreateRef(r, "refs/tags/"+name, sha)
	}

	cfg, err := uconfig.Read()
	if err != nil {
		return err
	}
	tagger, err := uconfig.Author(cfg)
	if err != nil {
		return err
	}

	kvlm := objstore.NewKVLM()
	kvlm.Set("object", []byte(sha))
	kvlm.Set("type", []byte(objstore.KindCommit))
	kvlm.Set("tag", []byte(name))
	kvlm.Set("tagger", []byte(formatIdentity(tagger, now)))
	kvlm.Message = []byte(fmt.Sprintf("tag %s", name))

	tagSha, err := objstore.HashObject(r, objstore.KindTag, kvlm.Serialize(), true)
	if err != nil {
		return err
	}

	return refs.CreateRef(r, "refs/tags/"+name, tagSha)
}
