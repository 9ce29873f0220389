// Package objstore implements component B: the object database. It
// frames, hashes, writes, and reads the four object kinds (blob, tree,
// commit, tag) as zlib-compressed files under .vrz/objects/ab/cdef…
//
// Grounded on original_source/verizon/class_utils.py (object_write,
// object_read, object_find, tree_parse/tree_serialize) and
// other_utils.py (kvlm_parse/kvlm_serialize), following the two-level
// hex-directory, write-to-temp-then-rename idiom from the teacher's
// internal/cas/file_cas.go. Compression uses klauspost/compress/zlib (a
// drop-in replacement for compress/zlib already in the teacher's
// go.mod) rather than the stdlib package directly.
package objstore

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zlib"

	"github.com/yash-srivastava19/vrz/internal/refs"
	"github.com/yash-srivastava19/vrz/internal/repo"
	"github.com/yash-srivastava19/vrz/internal/vrzerr"
)

// Kind is the object-header discriminator for the four object variants.
type Kind string

const (
	KindBlob   Kind = "blob"
	KindTree   Kind = "tree"
	KindCommit Kind = "commit"
	KindTag    Kind = "tag"
)

func validKind(k Kind) bool {
	switch k {
	case KindBlob, KindTree, KindCommit, KindTag:
		return true
	}
	return false
}

// RawObject is the kind plus the (already-validated) payload bytes read
// back from the store.
type RawObject struct {
	Kind    Kind
	Content []byte
}

// Frame produces the canonical "<kind> <len>\x00<content>" bytes that get
// hashed and stored.
func Frame(kind Kind, content []byte) []byte {
	header := fmt.Sprintf("%s %d\x00", kind, len(content))
	out := make([]byte, 0, len(header)+len(content))
	out = append(out, header...)
	out = append(out, content...)
	return out
}

// Sha1Hex returns the lowercase hex SHA-1 of framed bytes.
func Sha1Hex(framed []byte) string {
	sum := sha1.Sum(framed)
	return hex.EncodeToString(sum[:])
}

// HashObject frames and hashes content of the given kind, writing it to
// the object store when persist is true. Writes are skipped when the
// target path already exists, preserving the content-addressed
// invariant under concurrent writers.
func HashObject(r *repo.Repo, kind Kind, content []byte, persist bool) (string, error) {
	if !validKind(kind) {
		return "", fmt.Errorf("%s: %w", kind, vrzerr.ErrUnknownObjectKind)
	}
	framed := Frame(kind, content)
	sha := Sha1Hex(framed)
	if persist {
		if err := writeObjectFile(r, sha, framed); err != nil {
			return "", err
		}
	}
	return sha, nil
}

func writeObjectFile(r *repo.Repo, sha string, framed []byte) error {
	path, err := r.FileMkdir(true, "objects", sha[:2], sha[2:])
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		r.Log.Debugf("object %s already exists, skipping write", sha)
		return nil
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return vrzerr.Wrap(tmp, err)
	}

	zw := zlib.NewWriter(f)
	_, writeErr := zw.Write(framed)
	closeErr := zw.Close()
	fileCloseErr := f.Close()

	if writeErr != nil || closeErr != nil || fileCloseErr != nil {
		os.Remove(tmp)
		if writeErr != nil {
			return vrzerr.Wrap(path, writeErr)
		}
		if closeErr != nil {
			return vrzerr.Wrap(path, closeErr)
		}
		return vrzerr.Wrap(path, fileCloseErr)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return vrzerr.Wrap(path, err)
	}
	return nil
}

// ReadObject decompresses and validates the object stored at sha.
func ReadObject(r *repo.Repo, sha string) (*RawObject, error) {
	if len(sha) != 40 {
		return nil, fmt.Errorf("invalid object id %q", sha)
	}
	path := r.File("objects", sha[:2], sha[2:])

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", sha, vrzerr.ErrObjectNotFound)
		}
		return nil, vrzerr.Wrap(path, err)
	}
	defer f.Close()

	zr, err := zlib.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sha, vrzerr.ErrMalformedObject)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, vrzerr.Wrap(path, err)
	}

	nul := bytes.IndexByte(raw, 0)
	if nul < 0 {
		return nil, fmt.Errorf("%s: %w", sha, vrzerr.ErrMalformedObject)
	}
	parts := strings.SplitN(string(raw[:nul]), " ", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%s: %w", sha, vrzerr.ErrMalformedObject)
	}
	kind := Kind(parts[0])
	if !validKind(kind) {
		return nil, fmt.Errorf("%s: %w", kind, vrzerr.ErrUnknownObjectKind)
	}
	size, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sha, vrzerr.ErrMalformedObject)
	}
	content := raw[nul+1:]
	if size != len(content) {
		return nil, fmt.Errorf("%s: %w", sha, vrzerr.ErrMalformedObject)
	}

	return &RawObject{Kind: kind, Content: content}, nil
}

// Find resolves name to a unique sha (via refs.ObjectCandidates), then,
// if kind is non-empty, follows tag->object and commit->tree links
// until an object of the requested kind is reached.
func Find(r *repo.Repo, name string, kind Kind, follow bool) (string, error) {
	candidates, err := refs.ObjectCandidates(r, name)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%s: %w", name, vrzerr.ErrObjectNotFound)
	}
	if len(candidates) > 1 {
		return "", &vrzerr.AmbiguousRefError{Name: name, Candidates: candidates}
	}

	sha := candidates[0]
	if kind == "" {
		return sha, nil
	}

	for {
		obj, err := ReadObject(r, sha)
		if err != nil {
			return "", err
		}
		if obj.Kind == kind {
			return sha, nil
		}
		if !follow {
			return "", fmt.Errorf("%s: %w", name, vrzerr.ErrObjectNotFound)
		}

		switch obj.Kind {
		case KindTag:
			kvlm, err := ParseKVLM(obj.Content)
			if err != nil {
				return "", err
			}
			next, ok := kvlm.First("object")
			if !ok {
				return "", fmt.Errorf("%s: %w", name, vrzerr.ErrObjectNotFound)
			}
			sha = string(next)
		case KindCommit:
			kvlm, err := ParseKVLM(obj.Content)
			if err != nil {
				return "", err
			}
			next, ok := kvlm.First("tree")
			if !ok {
				return "", fmt.Errorf("%s: %w", name, vrzerr.ErrObjectNotFound)
			}
			sha = string(next)
		default:
			return "", fmt.Errorf("%s: %w", name, vrzerr.ErrObjectNotFound)
		}
	}
}

// ---------------------------------------------------------------------
// KVLM — the ordered, repeatable-key mapping used by commit and tag
// objects (§3, §4.B).
// ---------------------------------------------------------------------

// KVLM is an insertion-ordered mapping of byte keys to one-or-more byte
// values, plus a trailing message body.
type KVLM struct {
	keys    []string
	values  map[string][][]byte
	Message []byte
}

// NewKVLM returns an empty KVLM.
func NewKVLM() *KVLM {
	return &KVLM{values: make(map[string][][]byte)}
}

// Add appends value under key, preserving first-seen key order.
func (k *KVLM) Add(key string, value []byte) {
	if _, ok := k.values[key]; !ok {
		k.keys = append(k.keys, key)
	}
	k.values[key] = append(k.values[key], value)
}

// Set replaces all values of key with a single value.
func (k *KVLM) Set(key string, value []byte) {
	if _, ok := k.values[key]; !ok {
		k.keys = append(k.keys, key)
	}
	k.values[key] = [][]byte{value}
}

// All returns every value stored under key, in insertion order.
func (k *KVLM) All(key string) ([][]byte, bool) {
	v, ok := k.values[key]
	return v, ok
}

// First returns the first value stored under key.
func (k *KVLM) First(key string) ([]byte, bool) {
	v, ok := k.values[key]
	if !ok || len(v) == 0 {
		return nil, false
	}
	return v[0], true
}

// Keys returns the keys in first-seen order.
func (k *KVLM) Keys() []string {
	out := make([]string, len(k.keys))
	copy(out, k.keys)
	return out
}

// ParseKVLM parses a commit/tag object payload. Rewritten as an
// explicit loop (Design Notes §9) rather than the source's recursive
// kvlm_parse, so pathological input can't exhaust the stack.
func ParseKVLM(raw []byte) (*KVLM, error) {
	k := NewKVLM()
	pos := 0
	for {
		spc := indexFrom(raw, ' ', pos)
		nl := indexFrom(raw, '\n', pos)

		if spc < 0 || (nl >= 0 && nl < spc) {
			if nl != pos {
				return nil, fmt.Errorf("%w: unterminated header at byte %d", vrzerr.ErrMalformedObject, pos)
			}
			rawMsg := raw[pos+1:]
			k.Message = bytes.TrimSuffix(rawMsg, []byte("\n"))
			return k, nil
		}

		key := string(raw[pos:spc])
		end := pos
		for {
			next := indexFrom(raw, '\n', end+1)
			if next < 0 {
				return nil, fmt.Errorf("%w: unterminated value for %q", vrzerr.ErrMalformedObject, key)
			}
			end = next
			if end+1 >= len(raw) || raw[end+1] != ' ' {
				break
			}
		}

		value := bytes.ReplaceAll(raw[spc+1:end], []byte("\n "), []byte("\n"))
		k.Add(key, value)
		pos = end + 1
	}
}

func indexFrom(data []byte, b byte, from int) int {
	if from >= len(data) {
		return -1
	}
	i := bytes.IndexByte(data[from:], b)
	if i < 0 {
		return -1
	}
	return from + i
}

// Serialize reproduces the RFC-822-like KVLM wire form: one "key value"
// line per value (continuation newlines re-escaped to "\n "), a blank
// line, then the message body terminated by a final newline.
//
// This fixes Open Question (a): the source's kvlm_serialize calls
// v.replace(b"\n ") with no second argument, a no-op; the correct
// operation re-inserts the "\n " continuation prefix.
func (k *KVLM) Serialize() []byte {
	var buf bytes.Buffer
	for _, key := range k.keys {
		for _, v := range k.values[key] {
			buf.WriteString(key)
			buf.WriteByte(' ')
			buf.Write(bytes.ReplaceAll(v, []byte("\n"), []byte("\n ")))
			buf.WriteByte('\n')
		}
	}
	buf.WriteByte('\n')
	buf.Write(k.Message)
	buf.WriteByte('\n')
	return buf.Bytes()
}

// ---------------------------------------------------------------------
// Tree — the directory object (§3, §4.B).
// ---------------------------------------------------------------------

// TreeEntry is one (mode, path, sha) record in a tree object. Mode is
// kept as the literal ascii-octal string as parsed (5 or 6 digits) so
// that re-serializing an unmodified entry reproduces its original
// bytes exactly (§4.B: "when a mode is 5 ascii digits ... it is stored
// as 5 digits").
type TreeEntry struct {
	Mode string
	Path string
	Sha  string
}

func normalizeMode(mode string) string {
	if len(mode) == 5 {
		return "0" + mode
	}
	return mode
}

// IsDirMode reports whether mode names a subtree (leading "04" once
// normalized to 6 digits).
func IsDirMode(mode string) bool {
	return strings.HasPrefix(normalizeMode(mode), "04")
}

func sortKey(e TreeEntry) string {
	if IsDirMode(e.Mode) {
		return e.Path + "/"
	}
	return e.Path
}

// ParseTree parses a tree object payload into its entries.
func ParseTree(data []byte) ([]TreeEntry, error) {
	var entries []TreeEntry
	pos := 0
	for pos < len(data) {
		sp := bytes.IndexByte(data[pos:], ' ')
		if sp < 0 {
			return nil, fmt.Errorf("%w: missing mode separator", vrzerr.ErrMalformedObject)
		}
		sp += pos
		modeLen := sp - pos
		if modeLen != 5 && modeLen != 6 {
			return nil, fmt.Errorf("%w: bad mode length %d", vrzerr.ErrMalformedObject, modeLen)
		}
		mode := string(data[pos:sp])

		nul := bytes.IndexByte(data[sp+1:], 0)
		if nul < 0 {
			return nil, fmt.Errorf("%w: missing NUL after path", vrzerr.ErrMalformedObject)
		}
		nul += sp + 1
		path := string(data[sp+1 : nul])

		if nul+21 > len(data) {
			return nil, fmt.Errorf("%w: truncated entry sha", vrzerr.ErrMalformedObject)
		}
		sha := hex.EncodeToString(data[nul+1 : nul+21])

		entries = append(entries, TreeEntry{Mode: mode, Path: path, Sha: sha})
		pos = nul + 21
	}
	return entries, nil
}

// SerializeTree sorts a copy of entries into canonical order (§3) and
// concatenates them. Fixes Open Question (b): the mode/path separator
// space, omitted by the source, is written.
func SerializeTree(entries []TreeEntry) ([]byte, error) {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sortKey(sorted[i]) < sortKey(sorted[j]) })

	var buf bytes.Buffer
	for _, e := range sorted {
		shaBytes, err := hex.DecodeString(e.Sha)
		if err != nil || len(shaBytes) != 20 {
			return nil, fmt.Errorf("%w: bad entry sha %q", vrzerr.ErrMalformedObject, e.Sha)
		}
		buf.WriteString(e.Mode)
		buf.WriteByte(' ')
		buf.WriteString(e.Path)
		buf.WriteByte(0)
		buf.Write(shaBytes)
	}
	return buf.Bytes(), nil
}
