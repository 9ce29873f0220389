package ini

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseAndGet(t *testing.T) {
	src := `[core]
repositoryformatversion = 0
filemode = false
# a comment
bare = false
`
	f, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	v, ok := f.Get("core", "repositoryformatversion")
	if !ok || v != "0" {
		t.Errorf("repositoryformatversion = (%q, %v), want (0, true)", v, ok)
	}
}

func TestWritePreservesOrder(t *testing.T) {
	f := New()
	f.Set("core", "repositoryformatversion", "0")
	f.Set("core", "filemode", "false")
	f.Set("user", "name", "Ada Lovelace")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := "[core]\nrepositoryformatversion = 0\nfilemode = false\n[user]\nname = Ada Lovelace\n"
	if buf.String() != want {
		t.Errorf("Write() =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestMergeFromLaterWins(t *testing.T) {
	base := New()
	base.Set("user", "name", "Old Name")
	base.Set("user", "email", "old@example.com")

	override := New()
	override.Set("user", "name", "New Name")

	base.MergeFrom(override)

	name, _ := base.Get("user", "name")
	email, _ := base.Get("user", "email")
	if name != "New Name" {
		t.Errorf("name = %q, want New Name", name)
	}
	if email != "old@example.com" {
		t.Errorf("email = %q, want old@example.com (untouched)", email)
	}
}
