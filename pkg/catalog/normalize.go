package catalog

import (
	"bytes"
	"encoding/json"
	"strings"
)

const githubHost = "github.com"

// Normalize maps registry records to canonical packages. Records whose
// homepage is not hosted on GitHub are dropped. The input is not modified.
func Normalize(raw []RawPackage) []Package {
	out := make([]Package, 0, len(raw))
	for _, r := range raw {
		if r.Homepage == "" || !strings.Contains(r.Homepage, githubHost) {
			continue
		}
		out = append(out, normalizeOne(r))
	}
	return out
}

func normalizeOne(r RawPackage) Package {
	return Package{
		Name:            r.Name,
		Git:             r.Homepage,
		GitShort:        ShortenGitURL(r.Homepage),
		TargetLink:      r.Name,
		Description:     r.Description,
		Version:         r.Version,
		License:         r.License,
		Summary:         r.Summary,
		Documentation:   r.Documentation,
		DefaultFeatures: r.DefaultFeatures,
		Features:        r.Features,
		Dependencies:    FilterDependencies(r.Dependencies),
		Maintainers:     r.Maintainers,
		Supports:        r.Supports,
		PortVersion:     r.PortVersion,
	}
}

// ShortenGitURL returns the "owner/repo" part of a GitHub URL: the first
// two path segments after the host. Extra segments are ignored, so
// "https://github.com/a/b/tree/main" yields "a/b". When fewer than two
// segments follow the host the URL is returned unchanged.
func ShortenGitURL(git string) string {
	i := strings.Index(git, githubHost+"/")
	if i < 0 {
		return git
	}
	segs := strings.SplitN(git[i+len(githubHost)+1:], "/", 3)
	if len(segs) < 2 || segs[0] == "" || segs[1] == "" {
		return git
	}
	return segs[0] + "/" + segs[1]
}

// FilterDependencies turns a registry dependency list into references.
// Anything other than a JSON array yields an empty list. Structured
// (conditional) entries are dropped, as are names matched by
// [ExclusionRules]. The result is never nil.
func FilterDependencies(raw json.RawMessage) []DependencyRef {
	deps := []DependencyRef{}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return deps
	}

	for _, e := range entries {
		e = bytes.TrimSpace(e)
		if len(e) == 0 || e[0] != '"' {
			continue
		}
		var name string
		if err := json.Unmarshal(e, &name); err != nil {
			continue
		}
		if Excluded(ExclusionRules, name, nil, "") {
			continue
		}
		deps = append(deps, DependencyRef{Name: name})
	}
	return deps
}
