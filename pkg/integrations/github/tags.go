package github

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/matzehuels/portindex/pkg/catalog"
)

// TagLister lists the tag names advertised by a remote repository.
type TagLister interface {
	ListTags(ctx context.Context, repoURL string) ([]string, error)
}

// RemoteLister lists tags over the git smart protocol using go-git. Only the
// reference advertisement is fetched; no objects are downloaded.
type RemoteLister struct{}

// NewRemoteLister creates a go-git backed [TagLister].
func NewRemoteLister() *RemoteLister {
	return &RemoteLister{}
}

// ListTags returns the tag names of repoURL in advertisement order.
func (l *RemoteLister) ListTags(ctx context.Context, repoURL string) ([]string, error) {
	remote := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: "origin",
		URLs: []string{repoURL},
	})

	refs, err := remote.ListContext(ctx, &git.ListOptions{PeelingOption: git.IgnorePeeled})
	if err != nil {
		return nil, fmt.Errorf("list remote %s: %w", repoURL, err)
	}

	tags := make([]string, 0, len(refs))
	for _, ref := range refs {
		if !ref.Name().IsTag() {
			continue
		}
		if name, ok := catalog.TagName(ref.Name().String()); ok {
			tags = append(tags, name)
		}
	}
	return tags, nil
}

// ExecLister lists tags by running "git ls-remote --tags" with the system
// git binary.
type ExecLister struct {
	// GitPath is the git executable. Empty means "git" from PATH.
	GitPath string
}

// NewExecLister creates an [ExecLister] using git from PATH.
func NewExecLister() *ExecLister {
	return &ExecLister{}
}

// ListTags returns the tag names of repoURL in listing order.
func (l *ExecLister) ListTags(ctx context.Context, repoURL string) ([]string, error) {
	bin := l.GitPath
	if bin == "" {
		bin = "git"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "ls-remote", "--tags", repoURL)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Env = append(cmd.Environ(), "GIT_TERMINAL_PROMPT=0")

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("git ls-remote %s: %w: %s", repoURL, err, msg)
		}
		return nil, fmt.Errorf("git ls-remote %s: %w", repoURL, err)
	}
	return catalog.ParseRefListing(stdout.String()), nil
}

var (
	_ TagLister = (*RemoteLister)(nil)
	_ TagLister = (*ExecLister)(nil)
)
