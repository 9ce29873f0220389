// Package repo implements component A: discovering and creating a vrz
// repository rooted at a worktree directory with a ".vrz" metadata tree.
//
// Grounded on original_source/verizon/utils.py (repo_find, repo_create,
// repo_path, repo_dir, repo_file) and classes.py (VerizonRepository),
// restructured in the teacher's (javanhut-IvaldiVCS) idiom of small
// constructor functions returning (*T, error) and fmt.Errorf("...: %w").
package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/yash-srivastava19/vrz/internal/ini"
	"github.com/yash-srivastava19/vrz/internal/vrzerr"
)

const metaDirName = ".vrz"

// Repo is a located or newly created vrz repository.
type Repo struct {
	Worktree string // absolute path to the worktree root
	VrzDir   string // absolute path to Worktree/.vrz
	Conf     *ini.File
	Log      *logrus.Logger
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

// Find walks upward from start (resolving symlinks) until a directory
// containing ".vrz" is found. If required is false, a missing repository
// returns (nil, nil) instead of an error.
func Find(start string, required bool) (*Repo, error) {
	real, err := filepath.EvalSymlinks(start)
	if err != nil {
		return nil, vrzerr.Wrap(start, err)
	}
	real, err = filepath.Abs(real)
	if err != nil {
		return nil, vrzerr.Wrap(start, err)
	}

	for {
		candidate := filepath.Join(real, metaDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return open(real, candidate, false)
		}

		parent := filepath.Dir(real)
		if parent == real {
			if required {
				return nil, fmt.Errorf("%s: %w", start, vrzerr.ErrNotARepository)
			}
			return nil, nil
		}
		real = parent
	}
}

func open(worktree, vrzDir string, force bool) (*Repo, error) {
	r := &Repo{Worktree: worktree, VrzDir: vrzDir, Log: newLogger()}

	confPath := r.File("config")
	cf, err := ini.ParseFile(confPath)
	if err != nil {
		if force {
			r.Conf = ini.New()
			return r, nil
		}
		return nil, fmt.Errorf("%s: %w", confPath, vrzerr.ErrConfigMissing)
	}
	r.Conf = cf

	if !force {
		vers, ok := cf.Get("core", "repositoryformatversion")
		if !ok || vers != "0" {
			return nil, fmt.Errorf("unsupported repositoryformatversion %q", vers)
		}
	}
	return r, nil
}

// Create initializes a new repository at path. The worktree must be
// absent or empty.
func Create(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	vrzDir := filepath.Join(abs, metaDirName)

	if info, err := os.Stat(abs); err == nil {
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", abs)
		}
		if entries, err := os.ReadDir(vrzDir); err == nil && len(entries) > 0 {
			return nil, fmt.Errorf("%s: %w", abs, vrzerr.ErrRepositoryExists)
		}
		if entries, err := os.ReadDir(abs); err == nil && len(entries) > 0 {
			return nil, fmt.Errorf("%s is not empty", abs)
		}
	} else {
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return nil, vrzerr.Wrap(abs, err)
		}
	}

	r := &Repo{Worktree: abs, VrzDir: vrzDir, Conf: ini.New(), Log: newLogger()}

	for _, d := range [][]string{{"branches"}, {"objects"}, {"refs", "tags"}, {"refs", "heads"}} {
		if _, err := r.Dir(true, d...); err != nil {
			return nil, err
		}
	}

	if err := os.WriteFile(r.File("description"), []byte(
		"This is an unnamed repo, edit this file 'description' to name the repo.\n"), 0o644); err != nil {
		return nil, vrzerr.Wrap(r.File("description"), err)
	}

	if err := os.WriteFile(r.File("HEAD"), []byte("ref: refs/heads/master\n"), 0o644); err != nil {
		return nil, vrzerr.Wrap(r.File("HEAD"), err)
	}

	conf := defaultConfig()
	if err := conf.WriteFile(r.File("config")); err != nil {
		return nil, vrzerr.Wrap(r.File("config"), err)
	}
	r.Conf = conf

	return r, nil
}

func defaultConfig() *ini.File {
	f := ini.New()
	f.Set("core", "repositoryformatversion", "0")
	f.Set("core", "filemode", "false")
	f.Set("core", "bare", "false")
	return f
}

// Path joins elems under .vrz.
func (r *Repo) Path(elems ...string) string {
	return filepath.Join(append([]string{r.VrzDir}, elems...)...)
}

// Dir resolves a directory under .vrz, creating intermediate directories
// when mkdir is true. Returns ("", nil) if absent and mkdir is false.
func (r *Repo) Dir(mkdir bool, elems ...string) (string, error) {
	p := r.Path(elems...)
	if info, err := os.Stat(p); err == nil {
		if !info.IsDir() {
			return "", fmt.Errorf("not a directory: %s", p)
		}
		return p, nil
	}
	if mkdir {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return "", vrzerr.Wrap(p, err)
		}
		return p, nil
	}
	return "", nil
}

// File resolves a file path under .vrz without creating anything.
func (r *Repo) File(elems ...string) string {
	return r.Path(elems...)
}

// FileMkdir resolves a file path under .vrz, creating its parent
// directory when mkdir is true.
func (r *Repo) FileMkdir(mkdir bool, elems ...string) (string, error) {
	if len(elems) == 0 {
		return r.VrzDir, nil
	}
	if _, err := r.Dir(mkdir, elems[:len(elems)-1]...); err != nil {
		return "", err
	}
	return r.Path(elems...), nil
}
