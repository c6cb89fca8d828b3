package overrides

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/portindex/pkg/catalog"
	"github.com/matzehuels/portindex/pkg/errors"
)

// File names recognized inside a package directory.
const (
	EntryFile     = "entry.json"     // Full record in registry schema
	OverridesFile = "overrides.json" // Canonical field map
)

// Override patches fields of every record named Target.
type Override struct {
	Target string                     // Package name (the directory name)
	Fields map[string]json.RawMessage // Canonical field name -> JSON value
	Source string                     // File the override was read from
}

// Addition is a full record contributed by an entry file.
type Addition struct {
	Package catalog.RawPackage
	Source  string
}

// Result is the outcome of scanning an override tree.
type Result struct {
	Overrides []Override
	Additions []Addition
	Errors    []error // OVERRIDE_FILE_ERROR per rejected file or directory
}

// Load scans the immediate subdirectories of root in lexicographic order.
// Each directory may hold an entry file, an overrides file, or both. A file
// that cannot be read or decoded is recorded in Result.Errors and the scan
// continues. Only a missing or unreadable root fails the load.
func Load(root string) (*Result, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeOverrideFile, err, "read override root %s", root)
	}

	res := &Result{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if err := errors.ValidatePackageName(name); err != nil {
			res.Errors = append(res.Errors, errors.Wrap(errors.ErrCodeOverrideFile, err, "skip directory %q", name))
			continue
		}
		dir := filepath.Join(root, name)

		if add, ok, err := loadEntry(filepath.Join(dir, EntryFile)); err != nil {
			res.Errors = append(res.Errors, err)
		} else if ok {
			res.Additions = append(res.Additions, add)
		}

		if ov, ok, err := loadOverride(name, filepath.Join(dir, OverridesFile)); err != nil {
			res.Errors = append(res.Errors, err)
		} else if ok {
			res.Overrides = append(res.Overrides, ov)
		}
	}
	return res, nil
}

func loadEntry(path string) (Addition, bool, error) {
	data, ok, err := readOptional(path)
	if err != nil || !ok {
		return Addition{}, false, err
	}
	pkg, err := catalog.DecodeRawPackage(data)
	if err != nil {
		return Addition{}, false, errors.Wrap(errors.ErrCodeOverrideFile, err, "decode %s", path)
	}
	return Addition{Package: pkg, Source: path}, true, nil
}

func loadOverride(target, path string) (Override, bool, error) {
	data, ok, err := readOptional(path)
	if err != nil || !ok {
		return Override{}, false, err
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		return Override{}, false, errors.New(errors.ErrCodeOverrideFile, "decode %s: expected a JSON object", path)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Override{}, false, errors.Wrap(errors.ErrCodeOverrideFile, err, "decode %s", path)
	}
	return Override{Target: target, Fields: fields, Source: path}, true, nil
}

func readOptional(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeOverrideFile, err, "read %s", path)
	}
	return data, true, nil
}

// String implements fmt.Stringer for log output.
func (o Override) String() string {
	return fmt.Sprintf("%s (%d fields from %s)", o.Target, len(o.Fields), o.Source)
}
