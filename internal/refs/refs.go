// Package refs implements component C: the reference store. It resolves
// symbolic and direct refs, enumerates the refs/ namespace, and gathers
// the name-disambiguation candidate set used by rev-parse and friends.
//
// Grounded on original_source/verizon/other_utils.py (ref_resolve,
// ref_list, ref_create, branch_get_active) and class_utils.py
// (object_resolve's candidate-gathering order), restructured in the
// read/write-whole-file idiom the teacher (javanhut-IvaldiVCS)
// internal/refs package uses (os.ReadFile / os.WriteFile, TrimPrefix
// parsing of "ref: "), but against the spec's plain-text ref-file shape
// rather than the teacher's blake3/sha256/timestamp line format.
package refs

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yash-srivastava19/vrz/internal/repo"
	"github.com/yash-srivastava19/vrz/internal/vrzerr"
)

const maxSymbolicDepth = 16

var hexPrefixRE = regexp.MustCompile(`^[0-9A-Fa-f]{4,40}$`)

// Resolve follows refPath (relative to .vrz, e.g. "HEAD" or
// "refs/heads/main") through any chain of symbolic indirection to a
// 40-hex sha. Returns "" with a nil error if the ref does not exist.
func Resolve(r *repo.Repo, refPath string) (string, error) {
	return resolveDepth(r, refPath, 0)
}

func resolveDepth(r *repo.Repo, refPath string, depth int) (string, error) {
	if depth > maxSymbolicDepth {
		return "", fmt.Errorf("%s: %w", refPath, vrzerr.ErrRefCycle)
	}

	path := r.File(refPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", vrzerr.Wrap(path, err)
	}

	content := strings.TrimRight(string(data), "\n")
	if strings.HasPrefix(content, "ref: ") {
		return resolveDepth(r, strings.TrimPrefix(content, "ref: "), depth+1)
	}
	return content, nil
}

// ActiveBranch returns the branch name if HEAD is symbolic to
// refs/heads/<name>; detached is true otherwise (including a malformed
// HEAD, which is treated as detached rather than erroring).
func ActiveBranch(r *repo.Repo) (name string, detached bool, err error) {
	data, err := os.ReadFile(r.File("HEAD"))
	if err != nil {
		return "", false, vrzerr.Wrap(r.File("HEAD"), err)
	}
	content := strings.TrimRight(string(data), "\n")
	const prefix = "ref: refs/heads/"
	if strings.HasPrefix(content, prefix) {
		return strings.TrimPrefix(content, prefix), false, nil
	}
	return "", true, nil
}

// SetHeadSymbolic points HEAD at refs/heads/<branch>.
func SetHeadSymbolic(r *repo.Repo, branch string) error {
	return atomicWriteFile(r.File("HEAD"), []byte("ref: refs/heads/"+branch+"\n"))
}

// SetHeadDetached points HEAD directly at sha.
func SetHeadDetached(r *repo.Repo, sha string) error {
	return atomicWriteFile(r.File("HEAD"), []byte(sha+"\n"))
}

// CreateRef writes refPath (relative to .vrz, e.g. "refs/heads/main")
// to contain sha, creating parent directories as needed.
func CreateRef(r *repo.Repo, refPath, sha string) error {
	parts := strings.Split(refPath, "/")
	if len(parts) > 1 {
		if _, err := r.Dir(true, parts[:len(parts)-1]...); err != nil {
			return err
		}
	}
	return atomicWriteFile(r.File(parts...), []byte(sha+"\n"))
}

func atomicWriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return vrzerr.Wrap(tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return vrzerr.Wrap(path, err)
	}
	return nil
}

// Node is one entry in the ordered ref tree returned by List: either a
// leaf (Sha set, Children nil) or a subdirectory (Children set).
type Node struct {
	Name     string
	Sha      string
	Children []*Node
}

// List recursively enumerates refPath (relative to .vrz, e.g. "refs"),
// sorted by name at each level (os.ReadDir already returns directory
// entries in filename order).
func List(r *repo.Repo, refPath string) ([]*Node, error) {
	absDir := r.File(refPath)
	entries, err := os.ReadDir(absDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, vrzerr.Wrap(absDir, err)
	}

	nodes := make([]*Node, 0, len(entries))
	for _, e := range entries {
		childPath := refPath + "/" + e.Name()
		if e.IsDir() {
			children, err := List(r, childPath)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, &Node{Name: e.Name(), Children: children})
			continue
		}
		sha, err := Resolve(r, childPath)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, &Node{Name: e.Name(), Sha: sha})
	}
	return nodes, nil
}

// Walk calls fn(path, sha) for every leaf in a List result, depth-first,
// joining names with "/" the way show-ref expects.
func Walk(nodes []*Node, prefix string, fn func(path, sha string)) {
	for _, n := range nodes {
		p := n.Name
		if prefix != "" {
			p = prefix + "/" + n.Name
		}
		if n.Children != nil {
			Walk(n.Children, p, fn)
			continue
		}
		fn(p, n.Sha)
	}
}

// ObjectCandidates gathers the candidate sha set for name per §4.C:
// HEAD is special-cased and non-ambiguous; hex prefixes of length 4..40
// contribute every matching loose object; refs/tags/<name> and
// refs/heads/<name> each contribute a candidate if present. Order
// matters for AmbiguousReference error messages.
func ObjectCandidates(r *repo.Repo, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	if name == "HEAD" {
		sha, err := Resolve(r, "HEAD")
		if err != nil {
			return nil, err
		}
		if sha == "" {
			return nil, nil
		}
		return []string{sha}, nil
	}

	var candidates []string

	if hexPrefixRE.MatchString(name) {
		lower := strings.ToLower(name)
		prefix, rest := lower[:2], lower[2:]
		dir, err := r.Dir(false, "objects", prefix)
		if err != nil {
			return nil, err
		}
		if dir != "" {
			entries, err := os.ReadDir(dir)
			if err != nil {
				return nil, vrzerr.Wrap(dir, err)
			}
			for _, e := range entries {
				if strings.HasPrefix(e.Name(), rest) {
					candidates = append(candidates, prefix+e.Name())
				}
			}
		}
	}

	if sha, err := Resolve(r, "refs/tags/"+name); err != nil {
		return nil, err
	} else if sha != "" {
		candidates = append(candidates, sha)
	}

	if sha, err := Resolve(r, "refs/heads/"+name); err != nil {
		return nil, err
	} else if sha != "" {
		candidates = append(candidates, sha)
	}

	return candidates, nil
}

// IsHexPrefix reports whether name looks like a sha prefix (used by
// callers that want to skip ref lookups for literal hashes).
func IsHexPrefix(name string) bool { return hexPrefixRE.MatchString(name) }

// JoinRefPath is a small helper so callers don't hand-build
// filepath.Join(...) calls against ref-relative paths.
func JoinRefPath(elems ...string) string { return filepath.Join(elems...) }
