package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlatPackage is a [Package] with every list or structured field encoded as
// a JSON string, for storage without collection-typed columns.
type FlatPackage struct {
	Name            string `json:"name"`
	Git             string `json:"git"`
	GitShort        string `json:"git_short"`
	TargetLink      string `json:"target_link"`
	Description     string `json:"description"`
	Version         string `json:"version"`
	License         string `json:"license"`
	Summary         string `json:"summary"`
	Documentation   string `json:"documentation"`
	DefaultFeatures string `json:"default_features"`
	Features        string `json:"features"`
	Dependencies    string `json:"dependencies"`
	Maintainers     string `json:"maintainers"`
	Supports        string `json:"supports"`
	PortVersion     int    `json:"port_version"`
	Stars           *int   `json:"stars"`
	OpenIssues      *int   `json:"open_issues"`
	Forks           *int   `json:"forks"`
	Versions        string `json:"versions"`
}

// Flatten encodes pkgs for relational storage. Absent raw values become the
// string "null". The input slice and its records are not modified.
func Flatten(pkgs []Package) []FlatPackage {
	out := make([]FlatPackage, len(pkgs))
	for i, p := range pkgs {
		out[i] = FlatPackage{
			Name:            p.Name,
			Git:             p.Git,
			GitShort:        p.GitShort,
			TargetLink:      p.TargetLink,
			Description:     rawString(p.Description),
			Version:         p.Version,
			License:         p.License,
			Summary:         p.Summary,
			Documentation:   p.Documentation,
			DefaultFeatures: rawString(p.DefaultFeatures),
			Features:        rawString(p.Features),
			Dependencies:    encode(p.Dependencies),
			Maintainers:     rawString(p.Maintainers),
			Supports:        rawString(p.Supports),
			PortVersion:     p.PortVersion,
			Stars:           copyInt(p.Stars),
			OpenIssues:      copyInt(p.OpenIssues),
			Forks:           copyInt(p.Forks),
			Versions:        encode(p.Versions),
		}
	}
	return out
}

// ParseDependencies decodes a flattened dependency column.
func ParseDependencies(s string) ([]DependencyRef, error) {
	var deps []DependencyRef
	if err := json.Unmarshal([]byte(s), &deps); err != nil {
		return nil, err
	}
	return deps, nil
}

func rawString(m json.RawMessage) string {
	if len(m) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, m); err != nil {
		return string(m)
	}
	return buf.String()
}

func encode(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "null"
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Expand decodes a flattened row back into a [Package].
func Expand(f FlatPackage) (Package, error) {
	p := Package{
		Name:            f.Name,
		Git:             f.Git,
		GitShort:        f.GitShort,
		TargetLink:      f.TargetLink,
		Description:     rawValue(f.Description),
		Version:         f.Version,
		License:         f.License,
		Summary:         f.Summary,
		Documentation:   f.Documentation,
		DefaultFeatures: rawValue(f.DefaultFeatures),
		Features:        rawValue(f.Features),
		Maintainers:     rawValue(f.Maintainers),
		Supports:        rawValue(f.Supports),
		PortVersion:     f.PortVersion,
		Stars:           copyInt(f.Stars),
		OpenIssues:      copyInt(f.OpenIssues),
		Forks:           copyInt(f.Forks),
	}

	deps, err := ParseDependencies(f.Dependencies)
	if err != nil {
		return Package{}, fmt.Errorf("%s: dependencies: %w", f.Name, err)
	}
	p.Dependencies = deps

	if err := json.Unmarshal([]byte(f.Versions), &p.Versions); err != nil {
		return Package{}, fmt.Errorf("%s: versions: %w", f.Name, err)
	}
	return p, nil
}

func rawValue(s string) json.RawMessage {
	if s == "" || s == "null" || !json.Valid([]byte(s)) {
		return nil
	}
	return json.RawMessage(s)
}
