package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/chrissnell/heightgrid/internal/errs"
)

// DatasetResolver maps a dataset id to a readable path.
type DatasetResolver interface {
	Resolve(id string) (string, error)
}

// DirResolver resolves dataset ids to files directly inside Dir. Ids are
// plain file names; anything that would leave Dir is rejected.
type DirResolver struct {
	Dir string
}

// Resolve returns the path of the regular file named id inside Dir. Invalid
// ids and missing files are load errors.
func (d DirResolver) Resolve(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) || filepath.Base(id) != id {
		return "", errs.Load("invalid dataset id "+id, nil)
	}

	path := filepath.Join(d.Dir, id)
	info, err := os.Stat(path)
	if err != nil {
		return "", errs.Load("dataset "+id, err)
	}
	if info.IsDir() {
		return "", errs.Load("dataset "+id+" is a directory", nil)
	}
	return path, nil
}
