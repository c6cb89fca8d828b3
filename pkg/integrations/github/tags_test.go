package github

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"
)

func fakeGit(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stub requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "git")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExecLister_ListTags(t *testing.T) {
	bin := fakeGit(t, `printf 'a1\trefs/tags/v1.0\na1\trefs/tags/v1.0^{}\nb2\trefs/tags/release/2.0\n'`)

	l := &ExecLister{GitPath: bin}
	tags, err := l.ListTags(context.Background(), "https://github.com/owner/repo")
	if err != nil {
		t.Fatalf("ListTags() error: %v", err)
	}

	want := []string{"v1.0", "2.0"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("ListTags() = %v, want %v", tags, want)
	}
}

func TestExecLister_Failure(t *testing.T) {
	bin := fakeGit(t, `echo "fatal: repository not found" >&2; exit 128`)

	l := &ExecLister{GitPath: bin}
	_, err := l.ListTags(context.Background(), "https://github.com/owner/missing")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "repository not found") {
		t.Errorf("error should carry stderr, got %v", err)
	}
}

func TestExecLister_NoTags(t *testing.T) {
	bin := fakeGit(t, `exit 0`)

	tags, err := (&ExecLister{GitPath: bin}).ListTags(context.Background(), "https://github.com/o/r")
	if err != nil {
		t.Fatalf("ListTags() error: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("expected no tags, got %v", tags)
	}
}

func TestRemoteLister_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := NewRemoteLister().ListTags(ctx, "http://127.0.0.1:1/owner/repo")
	if err == nil {
		t.Error("expected error for unreachable remote")
	}
}
