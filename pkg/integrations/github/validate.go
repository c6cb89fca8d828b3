package github

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumeric, hyphen, underscore, or dot
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// ParseRepoRef splits an "owner/repo" identifier and validates both parts.
// A trailing ".git" on the repository name is removed.
func ParseRepoRef(ref string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(ref, "/")
	if !ok || strings.Contains(repo, "/") {
		return "", "", errors.New("invalid repo format: use owner/repo")
	}
	repo = strings.TrimSuffix(repo, ".git")
	if !validOwner.MatchString(owner) {
		return "", "", errors.New("invalid owner format: must be 1-39 alphanumeric characters or hyphens, cannot start with hyphen")
	}
	if !validRepo.MatchString(repo) || repo == "." || repo == ".." {
		return "", "", errors.New("invalid repo format: must be 1-100 alphanumeric characters, hyphens, underscores, or dots")
	}
	return owner, repo, nil
}

// RepoURL returns the clone URL of owner/repo under base, e.g.
// "https://github.com".
func RepoURL(base, owner, repo string) string {
	return strings.TrimSuffix(base, "/") + "/" + owner + "/" + repo
}
