package index

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/yash-srivastava19/vrz/internal/repo"
)

func newTestRepo(t *testing.T) *repo.Repo {
	t.Helper()
	dir := t.TempDir()
	r, err := repo.Create(filepath.Join(dir, "work"))
	if err != nil {
		t.Fatalf("repo.Create: %v", err)
	}
	return r
}

func roundTrip(t *testing.T, idx *Index) *Index {
	t.Helper()
	r := newTestRepo(t)
	if err := Write(r, idx); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(r)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return got
}

func entryWithName(name string) *Entry {
	return &Entry{
		CtimeSec: 1000, CtimeNano: 2000,
		MtimeSec: 1000, MtimeNano: 2000,
		Dev: 1, Ino: 2,
		ModeType: 0b1000, ModePerms: 0o644,
		UID: 501, GID: 20,
		Size: 42,
		Sha:  "3333333333333333333333333333333333333333",
		Name: name,
	}
}

func TestIndexRoundTripEmpty(t *testing.T) {
	got := roundTrip(t, New())
	if len(got.Entries) != 0 {
		t.Errorf("expected no entries, got %d", len(got.Entries))
	}
}

func TestIndexRoundTripBasic(t *testing.T) {
	idx := New()
	idx.Entries = append(idx.Entries, entryWithName("a.txt"), entryWithName("dir/b.txt"))

	got := roundTrip(t, idx)
	if len(got.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got.Entries))
	}
	if got.Entries[0].Name != "a.txt" || got.Entries[1].Name != "dir/b.txt" {
		t.Errorf("unexpected names: %+v", got.Entries)
	}
	if got.Entries[0].Sha != idx.Entries[0].Sha {
		t.Errorf("sha mismatch: %s vs %s", got.Entries[0].Sha, idx.Entries[0].Sha)
	}
}

// Boundary behaviors from §8: names of exactly 0xFFE, 0xFFF, and 0x1000 bytes.
func TestIndexRoundTripBoundaryNameLengths(t *testing.T) {
	for _, n := range []int{0xFFE, 0xFFF, 0x1000} {
		n := n
		t.Run("", func(t *testing.T) {
			name := strings.Repeat("a", n)
			idx := New()
			idx.Entries = append(idx.Entries, entryWithName(name))

			got := roundTrip(t, idx)
			if len(got.Entries) != 1 {
				t.Fatalf("expected 1 entry, got %d", len(got.Entries))
			}
			if got.Entries[0].Name != name {
				t.Errorf("name length %d: round trip produced %d-byte name", n, len(got.Entries[0].Name))
			}
		})
	}
}

func TestTreeFromIndexNestedDirectories(t *testing.T) {
	r := newTestRepo(t)
	idx := New()
	idx.Entries = append(idx.Entries,
		entryWithName("a.txt"),
		entryWithName("dir/b.txt"),
		entryWithName("dir/sub/c.txt"),
	)

	sha, err := TreeFromIndex(r, idx)
	if err != nil {
		t.Fatalf("TreeFromIndex: %v", err)
	}
	if sha == "" {
		t.Fatal("expected a non-empty root tree sha")
	}
}
