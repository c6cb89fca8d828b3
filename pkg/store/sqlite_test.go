package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/matzehuels/portindex/pkg/catalog"
	"github.com/matzehuels/portindex/pkg/errors"
)

func intPtr(v int) *int { return &v }

func openTestDB(t *testing.T) *SQLite {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "dist", "packages.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteReplacePackages(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	first := catalog.Flatten([]catalog.Package{
		{Name: "old", GitShort: "o/old", Dependencies: []catalog.DependencyRef{}},
	})
	if err := db.ReplacePackages(ctx, first); err != nil {
		t.Fatalf("ReplacePackages() error: %v", err)
	}

	second := catalog.Flatten([]catalog.Package{
		{
			Name:         "zlib",
			GitShort:     "madler/zlib",
			Dependencies: []catalog.DependencyRef{{Name: "a"}},
			Stars:        intPtr(5),
			OpenIssues:   intPtr(0),
			Forks:        intPtr(2),
			Versions:     []string{"v1.3"},
			PortVersion:  1,
		},
		{Name: "fmt", GitShort: "fmtlib/fmt", Dependencies: []catalog.DependencyRef{}},
	})
	if err := db.ReplacePackages(ctx, second); err != nil {
		t.Fatalf("ReplacePackages() error: %v", err)
	}

	rows, err := db.Packages(ctx)
	if err != nil {
		t.Fatalf("Packages() error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (table must be replaced)", len(rows))
	}
	if rows[0].Name != "zlib" || rows[1].Name != "fmt" {
		t.Errorf("rows out of order: %s, %s", rows[0].Name, rows[1].Name)
	}

	z := rows[0]
	if z.Stars == nil || *z.Stars != 5 || z.OpenIssues == nil || *z.OpenIssues != 0 {
		t.Errorf("stats = %v/%v", z.Stars, z.OpenIssues)
	}
	if z.Dependencies != `[{"name":"a"}]` || z.Versions != `["v1.3"]` || z.PortVersion != 1 {
		t.Errorf("row = %+v", z)
	}
	if rows[1].Stars != nil {
		t.Error("unset stats must read back as NULL")
	}
}

func TestSQLitePackage(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.ReplacePackages(ctx, catalog.Flatten([]catalog.Package{{Name: "zlib"}})); err != nil {
		t.Fatal(err)
	}

	p, err := db.Package(ctx, "zlib")
	if err != nil {
		t.Fatalf("Package() error: %v", err)
	}
	if p.Name != "zlib" || p.Description != "null" {
		t.Errorf("Package() = %+v", p)
	}

	if _, err := db.Package(ctx, "missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestSQLiteInMemory(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.ReplacePackages(ctx, nil); err != nil {
		t.Fatalf("ReplacePackages(nil) error: %v", err)
	}
	rows, err := db.Packages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows", len(rows))
	}
}
