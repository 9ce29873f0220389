package cli

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/yash-srivastava19/vrz/internal/repo"
)

func findRepo() (*repo.Repo, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	r, err := repo.Find(cwd, true)
	if err != nil {
		return nil, err
	}
	if verbose {
		r.Log.SetLevel(logrus.DebugLevel)
	}
	return r, nil
}
