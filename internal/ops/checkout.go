package ops

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yash-srivastava19/vrz/internal/objstore"
	"github.com/yash-srivastava19/vrz/internal/repo"
	"github.com/yash-srivastava19/vrz/internal/vrzerr"
)

// Checkout resolves name to a tree (following commits/tags) and writes
// its contents into path, which must not already contain files. Ported
// from other_utils.py:tree_checkout; symlink modes are unimplemented
// per spec Non-goals and raise an error naming the offending path
// instead of silently writing the link target as a file.
func Checkout(r *repo.Repo, name, path string) error {
	treeSha, err := objstore.Find(r, name, objstore.KindTree, true)
	if err != nil {
		return err
	}

	if info, err := os.Stat(path); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s: %w", path, vrzerr.ErrCheckoutTargetNotEmpty)
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return vrzerr.Wrap(path, err)
		}
		if len(entries) > 0 {
			return fmt.Errorf("%s: %w", path, vrzerr.ErrCheckoutTargetNotEmpty)
		}
	} else if os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return vrzerr.Wrap(path, err)
		}
	} else {
		return vrzerr.Wrap(path, err)
	}

	return checkoutTree(r, treeSha, path)
}

func checkoutTree(r *repo.Repo, treeSha, destDir string) error {
	obj, err := objstore.ReadObject(r, treeSha)
	if err != nil {
		return err
	}
	entries, err := objstore.ParseTree(obj.Content)
	if err != nil {
		return err
	}

	for _, e := range entries {
		dest := filepath.Join(destDir, e.Path)

		switch modeTypePrefix(e.Mode) {
		case "04":
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return vrzerr.Wrap(dest, err)
			}
			if err := checkoutTree(r, e.Sha, dest); err != nil {
				return err
			}
		case "12":
			return fmt.Errorf("%s: symlink checkout is not supported", dest)
		case "10":
			content, err := objstore.ReadObject(r, e.Sha)
			if err != nil {
				return err
			}
			if err := os.WriteFile(dest, content.Content, 0o644); err != nil {
				return vrzerr.Wrap(dest, err)
			}
		default:
			return fmt.Errorf("%s: unsupported tree entry mode %q", dest, e.Mode)
		}
	}
	return nil
}

func modeTypePrefix(mode string) string {
	if len(mode) == 5 {
		return "0" + mode[:1]
	}
	return mode[:2]
}
