package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Package is one canonical catalog record. The JSON field names are the
// canonical field names used by overrides and by every persisted artifact.
//
// Fields the registry publishes in more than one shape (a string or a
// list) are kept as raw JSON. Stats and Versions stay nil until their
// enrichment phase resolves them.
type Package struct {
	Name            string          `json:"name"`
	Git             string          `json:"git"`
	GitShort        string          `json:"git_short"`
	TargetLink      string          `json:"target_link"`
	Description     json.RawMessage `json:"description"`
	Version         string          `json:"version"`
	License         string          `json:"license"`
	Summary         string          `json:"summary"`
	Documentation   string          `json:"documentation"`
	DefaultFeatures json.RawMessage `json:"default_features"`
	Features        json.RawMessage `json:"features"`
	Dependencies    []DependencyRef `json:"dependencies"`
	Maintainers     json.RawMessage `json:"maintainers"`
	Supports        json.RawMessage `json:"supports"`
	PortVersion     int             `json:"port_version"`
	Stars           *int            `json:"stars"`
	OpenIssues      *int            `json:"open_issues"`
	Forks           *int            `json:"forks"`
	Versions        []string        `json:"versions"`
}

// HasStats reports whether repository statistics were resolved.
func (p *Package) HasStats() bool {
	return p.Stars != nil && p.OpenIssues != nil && p.Forks != nil
}

// DependencyRef names a package dependency.
type DependencyRef struct {
	Name string `json:"name"`
}

// UnmarshalJSON accepts either a bare string or an object with a name key.
func (d *DependencyRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &d.Name)
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("dependency must be a string or {name}: %w", err)
	}
	d.Name = obj.Name
	return nil
}

// RawPackage is a record in the registry's own schema.
type RawPackage struct {
	Homepage        string          `json:"Homepage"`
	Name            string          `json:"Name"`
	Description     json.RawMessage `json:"Description,omitempty"`
	Version         string          `json:"Version,omitempty"`
	License         string          `json:"License,omitempty"`
	Dependencies    json.RawMessage `json:"Dependencies,omitempty"`
	Maintainers     json.RawMessage `json:"Maintainers,omitempty"`
	Supports        json.RawMessage `json:"Supports,omitempty"`
	Features        json.RawMessage `json:"Features,omitempty"`
	PortVersion     int             `json:"Port-Version,omitempty"`
	Summary         string          `json:"Summary,omitempty"`
	Documentation   string          `json:"Documentation,omitempty"`
	DefaultFeatures json.RawMessage `json:"Default-Features,omitempty"`
	Stars           json.RawMessage `json:"Stars,omitempty"`
}

// DecodeRawPackage decodes a single registry-schema record.
func DecodeRawPackage(data []byte) (RawPackage, error) {
	var p RawPackage
	if err := json.Unmarshal(data, &p); err != nil {
		return RawPackage{}, err
	}
	return p, nil
}

// Index returns the positions of every package by name. Names may repeat
// because additions are never deduplicated.
func Index(pkgs []Package) map[string][]int {
	idx := make(map[string][]int, len(pkgs))
	for i := range pkgs {
		idx[pkgs[i].Name] = append(idx[pkgs[i].Name], i)
	}
	return idx
}
