package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "index_tmp.json")
	v := []map[string]any{{"git": "https://github.com/a/b", "summary": "a <b> & c"}}

	if err := WriteJSON(path, v); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, `"https://github.com/a/b"`) {
		t.Errorf("forward slashes must be literal: %s", out)
	}
	if !strings.Contains(out, `"a <b> & c"`) {
		t.Errorf("HTML characters must not be escaped: %s", out)
	}
	if !strings.Contains(out, "\n  {") {
		t.Errorf("expected indented output: %s", out)
	}

	var back []map[string]any
	if err := ReadJSON(path, &back); err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if back[0]["summary"] != "a <b> & c" {
		t.Errorf("ReadJSON() = %v", back)
	}
}

func TestWriteFileReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	if err := WriteFile(path, []byte("old")); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(path, []byte("new")); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("content = %q", data)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %d entries", len(entries))
	}
}
