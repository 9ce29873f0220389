package ops

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yash-srivastava19/vrz/internal/ini"
	"github.com/yash-srivastava19/vrz/internal/refs"
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

// withIdentity points XDG_CONFIG_HOME/HOME at a throwaway directory
// containing a user.name/user.email so Commit/CreateTag can resolve an
// author without touching the real environment.
func withIdentity(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	cfgDir := filepath.Join(home, ".config", "vrz")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	f := ini.New()
	f.Set("user", "name", "Ada Lovelace")
	f.Set("user", "email", "ada@example.com")
	if err := f.WriteFile(filepath.Join(cfgDir, "config")); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
}

func TestAddCommitStatusClean(t *testing.T) {
	withIdentity(t)
	r := newTestRepo(t)

	fooPath := filepath.Join(r.Worktree, "foo")
	if err := os.WriteFile(fooPath, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Add(r, []string{fooPath}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := Commit(r, "m", time.Now()); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	st, err := Report(r)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if len(st.ModifiedStaged) != 0 || len(st.Added) != 0 || len(st.DeletedStaged) != 0 ||
		len(st.ModifiedWorktree) != 0 || len(st.Untracked) != 0 {
		t.Errorf("expected a clean status, got %+v", st)
	}

	// Testable Properties scenario 4: touching mtime without changing
	// content must not be reported as a modification.
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(fooPath, future, future); err != nil {
		t.Fatal(err)
	}
	st, err = Report(r)
	if err != nil {
		t.Fatalf("Report after touch: %v", err)
	}
	if len(st.ModifiedWorktree) != 0 {
		t.Errorf("mtime-only touch reported as modified: %+v", st.ModifiedWorktree)
	}
}

func TestAddCommitStatusDetectsContentChange(t *testing.T) {
	withIdentity(t)
	r := newTestRepo(t)

	fooPath := filepath.Join(r.Worktree, "foo")
	if err := os.WriteFile(fooPath, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Add(r, []string{fooPath}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := Commit(r, "m", time.Now()); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := os.WriteFile(fooPath, []byte("hello, changed"), 0o644); err != nil {
		t.Fatal(err)
	}
	st, err := Report(r)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if len(st.ModifiedWorktree) != 1 || st.ModifiedWorktree[0] != "foo" {
		t.Errorf("expected foo reported modified, got %+v", st.ModifiedWorktree)
	}
}

func TestCommitCheckoutRoundTrip(t *testing.T) {
	withIdentity(t)
	r := newTestRepo(t)

	files := map[string]string{
		"a.txt":      "top level",
		"dir/b.txt":  "nested",
	}
	for name, content := range files {
		full := filepath.Join(r.Worktree, name)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var paths []string
	for name := range files {
		paths = append(paths, filepath.Join(r.Worktree, name))
	}
	if err := Add(r, paths); err != nil {
		t.Fatalf("Add: %v", err)
	}
	commitSha, err := Commit(r, "initial", time.Now())
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	out := t.TempDir()
	if err := Checkout(r, commitSha, out); err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	for name, content := range files {
		got, err := os.ReadFile(filepath.Join(out, name))
		if err != nil {
			t.Fatalf("reading checked-out %s: %v", name, err)
		}
		if string(got) != content {
			t.Errorf("%s = %q, want %q", name, got, content)
		}
	}
}

func TestCreateTagLightweightAndAnnotated(t *testing.T) {
	withIdentity(t)
	r := newTestRepo(t)

	if err := os.WriteFile(filepath.Join(r.Worktree, "f"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Add(r, []string{filepath.Join(r.Worktree, "f")}); err != nil {
		t.Fatal(err)
	}
	commitSha, err := Commit(r, "c1", time.Now())
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := CreateTag(r, "v1", "HEAD", false, time.Now()); err != nil {
		t.Fatalf("CreateTag lightweight: %v", err)
	}
	if err := CreateTag(r, "v2", "HEAD", true, time.Now()); err != nil {
		t.Fatalf("CreateTag annotated: %v", err)
	}

	resolved, err := RevParse(r, "v1", "")
	if err != nil {
		t.Fatalf("RevParse v1: %v", err)
	}
	if resolved != commitSha {
		t.Errorf("lightweight tag resolved to %s, want %s", resolved, commitSha)
	}

	// An annotated tag's ref points at the tag object, which must follow
	// back to the same commit.
	resolvedCommit, err := RevParse(r, "v2", "commit")
	if err != nil {
		t.Fatalf("RevParse v2 --type commit: %v", err)
	}
	if resolvedCommit != commitSha {
		t.Errorf("annotated tag followed to %s, want %s", resolvedCommit, commitSha)
	}
}

func TestRevParseAmbiguousReference(t *testing.T) {
	withIdentity(t)
	r := newTestRepo(t)

	if err := os.WriteFile(filepath.Join(r.Worktree, "f"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Add(r, []string{filepath.Join(r.Worktree, "f")}); err != nil {
		t.Fatal(err)
	}
	commitSha, err := Commit(r, "c1", time.Now())
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := CreateTag(r, "x", "HEAD", false, time.Now()); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	// Scenario 5: refs/heads/x and refs/tags/x both present.
	if err := refs.CreateRef(r, "refs/heads/x", commitSha); err != nil {
		t.Fatal(err)
	}

	if _, err := RevParse(r, "x", ""); err == nil {
		t.Fatal("expected an ambiguous reference error")
	}
}
