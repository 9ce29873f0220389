// Package uconfig reads the user-level identity configuration (as
// distinct from a repository's own .vrz/config, handled by
// internal/repo). Grounded on original_source/verizon/other_utils.py
// (vrzconfig_read, vrzconfig_user_get): ${XDG_CONFIG_HOME:-~/.config}/vrz/config
// is read first, then ~/.vrzconfig merged on top so the latter wins, the
// same precedence Python's configparser.read() gives a later path.
package uconfig

import (
	"os"
	"path/filepath"

	"github.com/yash-srivastava19/vrz/internal/ini"
	"github.com/yash-srivastava19/vrz/internal/vrzerr"
)

// Read merges the two well-known user config files into one ini.File.
// Missing files are silently skipped; the result may be empty.
func Read() (*ini.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	merged := ini.New()
	for _, path := range []string{
		filepath.Join(configHome, "vrz", "config"),
		filepath.Join(home, ".vrzconfig"),
	} {
		f, err := ini.ParseFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		merged.MergeFrom(f)
	}
	return merged, nil
}

// Author returns "Name <email>" from the user.name/user.email keys.
func Author(f *ini.File) (string, error) {
	name, ok1 := f.Get("user", "name")
	email, ok2 := f.Get("user", "email")
	if !ok1 || !ok2 || name == "" || email == "" {
		return "", vrzerr.ErrMissingUserIdentity
	}
	return name + " <" + email + ">", nil
}
