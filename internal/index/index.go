// Package index implements component D: the binary staging area ("DIRC"
// format, version 2 only — §4.D, Non-goals exclude versions 3/4).
//
// Grounded on original_source/verizon/class_utils.py (index_read,
// index_write) and other_utils.py (add, rm, tree_from_index), ported to
// Go's encoding/binary big-endian primitives the way the teacher
// (javanhut-IvaldiVCS) internal/wsindex package frames its own on-disk
// records, but against the spec's DIRC entry layout rather than the
// teacher's JSON-line index.
package index

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/yash-srivastava19/vrz/internal/objstore"
	"github.com/yash-srivastava19/vrz/internal/repo"
	"github.com/yash-srivastava19/vrz/internal/vrzerr"
)

const (
	signature      = "DIRC"
	version2       = 2
	entryFixedSize = 62
	nameLenMask    = 0x0FFF
	nameLenSat     = 0x0FFF
	stageMask      = 0x3000
	extendedBit    = 0x4000
	assumeValidBit = 0x8000
)

// Entry is one staged file record.
type Entry struct {
	CtimeSec, CtimeNano uint32
	MtimeSec, MtimeNano uint32
	Dev, Ino            uint32
	ModeType            uint16 // 0b1000 regular, 0b1010 symlink, 0b1110 gitlink-equivalent
	ModePerms           uint16
	UID, GID            uint32
	Size                uint32
	Sha                 string // 40-hex
	AssumeValid         bool
	Stage               uint16 // 0..3, occupies bits 12-13
	Name                string // path relative to worktree, '/'-separated
}

// Index is the parsed staging area; Version is always 2 once loaded
// through this package (§4.D Non-goals: no v3/v4 support).
type Index struct {
	Version uint32
	Entries []*Entry
}

// New returns an empty version-2 index.
func New() *Index {
	return &Index{Version: version2}
}

// Read loads the index file, returning an empty index if it does not
// yet exist (a freshly initialized repository has no staged files).
func Read(r *repo.Repo) (*Index, error) {
	path := r.File("index")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, vrzerr.Wrap(path, err)
	}
	return parse(data)
}

func parse(raw []byte) (*Index, error) {
	if len(raw) < 12 {
		return nil, fmt.Errorf("%w: truncated header", vrzerr.ErrBadIndexSignature)
	}
	if string(raw[:4]) != signature {
		return nil, fmt.Errorf("%w: got %q", vrzerr.ErrBadIndexSignature, raw[:4])
	}
	version := binary.BigEndian.Uint32(raw[4:8])
	if version != version2 {
		return nil, fmt.Errorf("%w: %d", vrzerr.ErrUnsupportedIndexVersion, version)
	}
	count := binary.BigEndian.Uint32(raw[8:12])

	idx := &Index{Version: version}
	pos := 12

	for i := uint32(0); i < count; i++ {
		if pos+entryFixedSize > len(raw) {
			return nil, fmt.Errorf("%w: truncated entry %d", vrzerr.ErrBadIndexSignature, i)
		}
		entryStart := pos
		fixed := raw[pos : pos+entryFixedSize]

		e := &Entry{
			CtimeSec:  binary.BigEndian.Uint32(fixed[0:4]),
			CtimeNano: binary.BigEndian.Uint32(fixed[4:8]),
			MtimeSec:  binary.BigEndian.Uint32(fixed[8:12]),
			MtimeNano: binary.BigEndian.Uint32(fixed[12:16]),
			Dev:       binary.BigEndian.Uint32(fixed[16:20]),
			Ino:       binary.BigEndian.Uint32(fixed[20:24]),
		}

		unused := binary.BigEndian.Uint16(fixed[24:26])
		if unused != 0 {
			return nil, fmt.Errorf("%w: nonzero padding in entry %d", vrzerr.ErrBadIndexSignature, i)
		}

		mode := binary.BigEndian.Uint16(fixed[26:28])
		e.ModeType = mode >> 12
		switch e.ModeType {
		case 0b1000, 0b1010, 0b1110:
		default:
			return nil, fmt.Errorf("%w: bad mode type 0b%b in entry %d", vrzerr.ErrBadIndexSignature, e.ModeType, i)
		}
		e.ModePerms = mode & 0b0000000111111111

		e.UID = binary.BigEndian.Uint32(fixed[28:32])
		e.GID = binary.BigEndian.Uint32(fixed[32:36])
		e.Size = binary.BigEndian.Uint32(fixed[36:40])
		e.Sha = hex.EncodeToString(fixed[40:60])

		flags := binary.BigEndian.Uint16(fixed[60:62])
		if flags&extendedBit != 0 {
			return nil, fmt.Errorf("%w: extended flag set in entry %d", vrzerr.ErrBadIndexSignature, i)
		}
		e.AssumeValid = flags&assumeValidBit != 0
		e.Stage = (flags & stageMask) >> 12
		nameLen := int(flags & nameLenMask)

		pos += entryFixedSize

		var rawName []byte
		if nameLen < nameLenSat {
			if pos+nameLen >= len(raw) || raw[pos+nameLen] != 0 {
				return nil, fmt.Errorf("%w: missing NUL terminator in entry %d", vrzerr.ErrBadIndexSignature, i)
			}
			rawName = raw[pos : pos+nameLen]
			pos += nameLen + 1
		} else {
			nul := bytes.IndexByte(raw[pos+nameLenSat:], 0)
			if nul < 0 {
				return nil, fmt.Errorf("%w: unterminated long name in entry %d", vrzerr.ErrBadIndexSignature, i)
			}
			nul += pos + nameLenSat
			rawName = raw[pos:nul]
			pos = nul + 1
		}
		e.Name = string(rawName)

		if consumed := pos - entryStart; consumed%8 != 0 {
			pos += 8 - (consumed % 8)
		}

		idx.Entries = append(idx.Entries, e)
	}

	return idx, nil
}

// Write serializes idx to .vrz/index (write-to-temp-then-rename).
func Write(r *repo.Repo, idx *Index) error {
	var buf bytes.Buffer
	buf.WriteString(signature)
	writeU32(&buf, version2)
	writeU32(&buf, uint32(len(idx.Entries)))

	for _, e := range idx.Entries {
		entryStart := buf.Len()

		writeU32(&buf, e.CtimeSec)
		writeU32(&buf, e.CtimeNano)
		writeU32(&buf, e.MtimeSec)
		writeU32(&buf, e.MtimeNano)
		writeU32(&buf, e.Dev)
		writeU32(&buf, e.Ino)

		mode := (e.ModeType << 12) | e.ModePerms
		writeU16(&buf, mode)

		writeU32(&buf, e.UID)
		writeU32(&buf, e.GID)
		writeU32(&buf, e.Size)

		shaBytes, err := hex.DecodeString(e.Sha)
		if err != nil || len(shaBytes) != 20 {
			return fmt.Errorf("%w: bad entry sha %q", vrzerr.ErrBadIndexSignature, e.Sha)
		}
		buf.Write(shaBytes)

		var flags uint16
		if e.AssumeValid {
			flags |= assumeValidBit
		}
		flags |= (e.Stage << 12) & stageMask

		nameBytes := []byte(e.Name)
		nameLen := len(nameBytes)
		if nameLen >= nameLenSat {
			if nameLen > 0xFFFF {
				return fmt.Errorf("%s: %w", e.Name, vrzerr.ErrIndexEntryTooLong)
			}
			flags |= nameLenSat
		} else {
			flags |= uint16(nameLen)
		}
		writeU16(&buf, flags)

		buf.Write(nameBytes)
		buf.WriteByte(0)

		written := buf.Len() - entryStart
		if written%8 != 0 {
			pad := 8 - (written % 8)
			buf.Write(make([]byte, pad))
		}
	}

	path := r.File("index")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return vrzerr.Wrap(tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return vrzerr.Wrap(path, err)
	}
	return nil
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

// Find returns the entry for name, or nil if untracked.
func (idx *Index) Find(name string) *Entry {
	for _, e := range idx.Entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Rm removes paths from both the index and (when deleteFromDisk is
// true) the worktree. Paths outside the worktree are always an error;
// paths not currently tracked are an error unless skipMissing is true.
func Rm(r *repo.Repo, idx *Index, paths []string, deleteFromDisk, skipMissing bool) error {
	worktree := r.Worktree + string(filepath.Separator)

	var abspaths []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if !strings.HasPrefix(abs+string(filepath.Separator), worktree) && abs != r.Worktree {
			return fmt.Errorf("%s: %w", p, vrzerr.ErrOutsideWorktree)
		}
		abspaths = append(abspaths, abs)
	}

	var kept []*Entry
	var toDelete []string
	for _, e := range idx.Entries {
		full := filepath.Join(r.Worktree, e.Name)
		if i := indexOf(abspaths, full); i >= 0 {
			toDelete = append(toDelete, full)
			abspaths = append(abspaths[:i], abspaths[i+1:]...)
		} else {
			kept = append(kept, e)
		}
	}
	if len(abspaths) > 0 && !skipMissing {
		return fmt.Errorf("%v: %w", abspaths, vrzerr.ErrPathNotInIndex)
	}

	if deleteFromDisk {
		for _, p := range toDelete {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				return vrzerr.Wrap(p, err)
			}
		}
	}

	idx.Entries = kept
	return Write(r, idx)
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// Add stages paths: hashes and persists each file as a blob, then
// appends (or replaces) its index entry. Fixes Open Question (e): the
// source's ctime_ns/mtime_ns computation multiplies an already-in-nanoseconds
// value by 10**9; here the nanosecond remainder is taken directly from
// Stat_t without rescaling.
func Add(r *repo.Repo, paths []string) error {
	idx, err := Read(r)
	if err != nil {
		return err
	}
	if err := Rm(r, idx, paths, false, true); err != nil {
		return err
	}
	idx, err = Read(r)
	if err != nil {
		return err
	}

	worktree := r.Worktree + string(filepath.Separator)

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		info, statErr := os.Stat(abs)
		if !strings.HasPrefix(abs+string(filepath.Separator), worktree) || statErr != nil || info.IsDir() {
			return fmt.Errorf("%s: not a file, or outside the worktree", p)
		}
		rel, err := filepath.Rel(r.Worktree, abs)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		content, err := os.ReadFile(abs)
		if err != nil {
			return vrzerr.Wrap(abs, err)
		}
		sha, err := objstore.HashObject(r, objstore.KindBlob, content, true)
		if err != nil {
			return err
		}

		entry := entryFromStat(info, sha, rel)
		idx.Entries = append(idx.Entries, entry)
	}

	sort.Slice(idx.Entries, func(i, j int) bool { return idx.Entries[i].Name < idx.Entries[j].Name })
	return Write(r, idx)
}

func entryFromStat(info os.FileInfo, sha, relPath string) *Entry {
	mtime := info.ModTime()
	e := &Entry{
		MtimeSec:  uint32(mtime.Unix()),
		MtimeNano: uint32(mtime.Nanosecond()),
		ModeType:  0b1000,
		ModePerms: 0o644,
		Size:      uint32(info.Size()),
		Sha:       sha,
		Name:      relPath,
	}
	e.CtimeSec, e.CtimeNano = e.MtimeSec, e.MtimeNano
	if sys, ok := info.Sys().(*syscall.Stat_t); ok {
		e.Dev = uint32(sys.Dev)
		e.Ino = uint32(sys.Ino)
		e.UID = sys.Uid
		e.GID = sys.Gid
		ctime := time.Unix(sys.Ctim.Sec, sys.Ctim.Nsec)
		e.CtimeSec = uint32(ctime.Unix())
		e.CtimeNano = uint32(ctime.Nanosecond())
	}
	return e
}

// treeNode is a staged directory's pending children: either a leaf
// index entry or an already-built subtree (name, sha).
type treeNode struct {
	entry    *Entry
	childDir string
	childSha string
}

// TreeFromIndex builds and persists a tree object (and all of its
// subtrees) from the staged entries, returning the root tree's sha.
// Ported from other_utils.py:tree_from_index — entries are bucketed by
// containing directory, then directories are serialized longest-path
// first so each subtree's sha is known before its parent is built.
func TreeFromIndex(r *repo.Repo, idx *Index) (string, error) {
	contents := map[string][]treeNode{"": nil}

	for _, e := range idx.Entries {
		dirname := dirOf(e.Name)
		key := dirname
		for key != "" {
			if _, ok := contents[key]; !ok {
				contents[key] = nil
			}
			key = dirOf(key)
		}
		contents[dirname] = append(contents[dirname], treeNode{entry: e})
	}

	paths := make([]string, 0, len(contents))
	for p := range contents {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return len(paths[i]) > len(paths[j]) })

	var sha string
	for _, p := range paths {
		var entries []objstore.TreeEntry
		for _, n := range contents[p] {
			if n.entry != nil {
				e := n.entry
				mode := fmt.Sprintf("%02o%04o", e.ModeType, e.ModePerms)
				entries = append(entries, objstore.TreeEntry{
					Mode: mode,
					Path: baseOf(e.Name),
					Sha:  e.Sha,
				})
			} else {
				entries = append(entries, objstore.TreeEntry{
					Mode: "040000",
					Path: n.childDir,
					Sha:  n.childSha,
				})
			}
		}

		framed, err := objstore.SerializeTree(entries)
		if err != nil {
			return "", err
		}
		sha, err = objstore.HashObject(r, objstore.KindTree, framed, true)
		if err != nil {
			return "", err
		}

		parent := dirOf(p)
		base := baseOf(p)
		contents[parent] = append(contents[parent], treeNode{childDir: base, childSha: sha})
	}

	return sha, nil
}

func dirOf(p string) string {
	d := filepath.ToSlash(filepath.Dir(p))
	if d == "." {
		return ""
	}
	return d
}

func baseOf(p string) string {
	return filepath.Base(filepath.ToSlash(p))
}
