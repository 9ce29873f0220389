package objstore

import (
	"bytes"
	"os"
	"path/filepath"
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

func TestSha1HexSingleByteBlob(t *testing.T) {
	// Testable Properties scenario 2: the exact sha of a single-byte blob "a".
	framed := Frame(KindBlob, []byte("a"))
	got := Sha1Hex(framed)
	want := "2e65efe2a145dda7ee51d1741299f848e5bf752e"
	if got != want {
		t.Errorf("sha of blob %q = %s, want %s", "a", got, want)
	}
}

func TestHashObjectRoundTrip(t *testing.T) {
	r := newTestRepo(t)
	content := []byte("hello, vrz")

	sha, err := HashObject(r, KindBlob, content, true)
	if err != nil {
		t.Fatalf("HashObject: %v", err)
	}

	obj, err := ReadObject(r, sha)
	if err != nil {
		t.Fatalf("ReadObject: %v", err)
	}
	if obj.Kind != KindBlob {
		t.Errorf("kind = %s, want blob", obj.Kind)
	}
	if !bytes.Equal(obj.Content, content) {
		t.Errorf("content = %q, want %q", obj.Content, content)
	}
}

func TestHashObjectIsIdempotent(t *testing.T) {
	r := newTestRepo(t)
	content := []byte("repeat me")

	sha1, err := HashObject(r, KindBlob, content, true)
	if err != nil {
		t.Fatalf("HashObject #1: %v", err)
	}
	sha2, err := HashObject(r, KindBlob, content, true)
	if err != nil {
		t.Fatalf("HashObject #2: %v", err)
	}
	if sha1 != sha2 {
		t.Fatalf("hashes differ across writes: %s vs %s", sha1, sha2)
	}

	path := r.File("objects", sha1[:2], sha1[2:])
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("object file missing: %v", err)
	}
}

func TestReadObjectMalformedLength(t *testing.T) {
	// Testable Properties scenario 6: malformed-length object rejection.
	r := newTestRepo(t)
	framed := Frame(KindBlob, []byte("short"))
	// Corrupt the declared length so it no longer matches the payload.
	corrupted := bytes.Replace(framed, []byte("blob 5\x00"), []byte("blob 50\x00"), 1)
	sha := Sha1Hex(corrupted)
	if err := writeObjectFile(r, sha, corrupted); err != nil {
		t.Fatalf("writeObjectFile: %v", err)
	}

	if _, err := ReadObject(r, sha); err == nil {
		t.Fatal("expected malformed-object error, got nil")
	}
}

func TestKVLMRoundTrip(t *testing.T) {
	k := NewKVLM()
	k.Add("tree", []byte("abc123"))
	k.Add("parent", []byte("parent one"))
	k.Add("parent", []byte("parent two\ncontinued"))
	k.Message = []byte("a commit message\nwith a second line")

	serialized := k.Serialize()
	parsed, err := ParseKVLM(serialized)
	if err != nil {
		t.Fatalf("ParseKVLM: %v", err)
	}
	reserialized := parsed.Serialize()

	if !bytes.Equal(serialized, reserialized) {
		t.Errorf("round trip mismatch:\n got: %q\nwant: %q", reserialized, serialized)
	}

	parents, ok := parsed.All("parent")
	if !ok || len(parents) != 2 {
		t.Fatalf("expected 2 parent values, got %v", parents)
	}
	if !bytes.Equal(parents[1], []byte("parent two\ncontinued")) {
		t.Errorf("continuation line not restored: %q", parents[1])
	}
}

func TestKVLMEmptyMessageRoundTrip(t *testing.T) {
	k := NewKVLM()
	k.Set("tree", []byte("deadbeef"))
	k.Message = nil

	serialized := k.Serialize()
	parsed, err := ParseKVLM(serialized)
	if err != nil {
		t.Fatalf("ParseKVLM: %v", err)
	}
	if len(parsed.Message) != 0 {
		t.Errorf("expected empty message, got %q", parsed.Message)
	}
	if !bytes.Equal(serialized, parsed.Serialize()) {
		t.Error("round trip mismatch on empty-message commit")
	}
}

func TestTreeCanonicalSort(t *testing.T) {
	// Testable Properties scenario 3: a directory and a file sharing a
	// common prefix must sort with the directory's trailing "/" applied.
	entries := []TreeEntry{
		{Mode: "100644", Path: "foo.txt", Sha: "1111111111111111111111111111111111111111"},
		{Mode: "040000", Path: "foo", Sha: "2222222222222222222222222222222222222222"},
	}
	framed, err := SerializeTree(entries)
	if err != nil {
		t.Fatalf("SerializeTree: %v", err)
	}
	parsed, err := ParseTree(framed)
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(parsed))
	}
	// The directory's sort key is "foo/"; '.' (0x2E) < '/' (0x2F), so
	// "foo.txt" sorts before "foo/" and must come first.
	if parsed[0].Path != "foo.txt" || parsed[1].Path != "foo" {
		t.Errorf("unexpected sort order: %+v", parsed)
	}
}

func TestTreeCanonicalSortScenario3(t *testing.T) {
	// Testable Properties scenario 3 verbatim: mode=100644 path="a" and
	// mode=040000 path="a.b" must place "a" before "a.b/".
	entries := []TreeEntry{
		{Mode: "040000", Path: "a.b", Sha: "4444444444444444444444444444444444444444"},
		{Mode: "100644", Path: "a", Sha: "5555555555555555555555555555555555555555"},
	}
	framed, err := SerializeTree(entries)
	if err != nil {
		t.Fatalf("SerializeTree: %v", err)
	}
	parsed, err := ParseTree(framed)
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}
	if parsed[0].Path != "a" || parsed[1].Path != "a.b" {
		t.Errorf("expected a before a.b/, got %+v", parsed)
	}
}

func TestTreeRoundTripPreservesFiveDigitMode(t *testing.T) {
	entries := []TreeEntry{
		{Mode: "40000", Path: "sub", Sha: "3333333333333333333333333333333333333333"},
	}
	framed, err := SerializeTree(entries)
	if err != nil {
		t.Fatalf("SerializeTree: %v", err)
	}
	parsed, err := ParseTree(framed)
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}
	if parsed[0].Mode != "40000" {
		t.Errorf("mode = %q, want %q (5-digit form preserved)", parsed[0].Mode, "40000")
	}
}

func TestFindAmbiguousReference(t *testing.T) {
	r := newTestRepo(t)
	if err := os.WriteFile(r.File("refs", "heads", "x"), []byte("1111111111111111111111111111111111111111\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(r.File("refs", "tags", "x"), []byte("2222222222222222222222222222222222222222\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Find(r, "x", "", false)
	if err == nil {
		t.Fatal("expected ambiguous reference error")
	}
}
