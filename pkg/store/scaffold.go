package store

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/matzehuels/portindex/pkg/catalog"
	"github.com/matzehuels/portindex/pkg/errors"
)

// InfoFile is the per-package file written by [Scaffold].
const InfoFile = "info.json"

// Info is the content of an info.json file.
type Info struct {
	Name     string `json:"Name"`
	Homepage string `json:"Homepage"`
}

// ScaffoldResult lists what [Scaffold] wrote and what it refused.
type ScaffoldResult struct {
	Written []Info
	Skipped []error // Names unusable as directory names
}

// Scaffold writes <dir>/<name>/info.json for every registry record whose
// homepage mentions github. Existing files are overwritten. Records whose
// name is not a safe path component are reported in Skipped.
func Scaffold(dir string, pkgs []catalog.RawPackage) (*ScaffoldResult, error) {
	res := &ScaffoldResult{Written: []Info{}}
	for _, p := range pkgs {
		if !strings.Contains(p.Homepage, "github") {
			continue
		}
		if err := errors.ValidatePackageName(p.Name); err != nil {
			res.Skipped = append(res.Skipped, err)
			continue
		}

		info := Info{Name: p.Name, Homepage: p.Homepage}
		data, err := json.Marshal(info)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodePersist, err, "encode %s", p.Name)
		}
		if err := WriteFile(filepath.Join(dir, p.Name, InfoFile), data); err != nil {
			return nil, err
		}
		res.Written = append(res.Written, info)
	}
	return res, nil
}
