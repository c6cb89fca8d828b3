package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/matzehuels/portindex/pkg/catalog"
	"github.com/matzehuels/portindex/pkg/errors"
)

// PackagesTable is the relational table holding the flattened catalog.
const PackagesTable = "packages"

const createPackages = `CREATE TABLE packages (
	"index" INTEGER,
	name TEXT,
	git TEXT,
	git_short TEXT,
	target_link TEXT,
	description TEXT,
	version TEXT,
	license TEXT,
	summary TEXT,
	documentation TEXT,
	default_features TEXT,
	features TEXT,
	dependencies TEXT,
	maintainers TEXT,
	supports TEXT,
	port_version INTEGER,
	stars INTEGER,
	open_issues INTEGER,
	forks INTEGER,
	versions TEXT
)`

const insertPackage = `INSERT INTO packages (
	"index", name, git, git_short, target_link, description, version, license, summary,
	documentation, default_features, features, dependencies, maintainers, supports,
	port_version, stars, open_issues, forks, versions
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectPackages = `SELECT
	name, git, git_short, target_link, description, version, license, summary,
	documentation, default_features, features, dependencies, maintainers, supports,
	port_version, stars, open_issues, forks, versions
FROM packages`

// SQLite stores the flattened catalog in a SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path. Use ":memory:" for an
// in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodePersist, err, "create database directory")
		}
		dsn = "file:" + path
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersist, err, "open %s", path)
	}
	// One connection keeps ":memory:" databases alive across statements.
	db.SetMaxOpenConns(1)
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// ReplacePackages drops and recreates the packages table and inserts rows in
// order, all in one transaction. Readers see either the old table or the
// complete new one.
func (s *SQLite) ReplacePackages(ctx context.Context, rows []catalog.FlatPackage) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodePersist, err, "begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DROP TABLE IF EXISTS packages`); err != nil {
		return errors.Wrap(errors.ErrCodePersist, err, "drop table")
	}
	if _, err = tx.ExecContext(ctx, createPackages); err != nil {
		return errors.Wrap(errors.ErrCodePersist, err, "create table")
	}

	stmt, err := tx.PrepareContext(ctx, insertPackage)
	if err != nil {
		return errors.Wrap(errors.ErrCodePersist, err, "prepare insert")
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err = stmt.ExecContext(ctx,
			i, r.Name, r.Git, r.GitShort, r.TargetLink, r.Description, r.Version, r.License,
			r.Summary, r.Documentation, r.DefaultFeatures, r.Features, r.Dependencies,
			r.Maintainers, r.Supports, r.PortVersion, r.Stars, r.OpenIssues, r.Forks, r.Versions,
		); err != nil {
			return errors.Wrap(errors.ErrCodePersist, err, "insert %s", r.Name)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodePersist, err, "commit")
	}
	return nil
}

// Packages returns every row in insertion order.
func (s *SQLite) Packages(ctx context.Context) ([]catalog.FlatPackage, error) {
	rows, err := s.db.QueryContext(ctx, selectPackages+` ORDER BY "index"`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersist, err, "query packages")
	}
	defer rows.Close()

	var out []catalog.FlatPackage
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodePersist, err, "query packages")
	}
	return out, nil
}

// Package returns the first row named name.
func (s *SQLite) Package(ctx context.Context, name string) (catalog.FlatPackage, error) {
	row := s.db.QueryRowContext(ctx, selectPackages+` WHERE name = ? ORDER BY "index" LIMIT 1`, name)
	p, err := scanPackage(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return catalog.FlatPackage{}, errors.New(errors.ErrCodeNotFound, "package %q not found", name)
	}
	return p, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPackage(sc scanner) (catalog.FlatPackage, error) {
	var (
		p                      catalog.FlatPackage
		stars, issues, forks   sql.NullInt64
		license, summary, docs sql.NullString
		version, git, gitShort sql.NullString
		versions, targetLink   sql.NullString
		description, defFeat   sql.NullString
		features, deps, maint  sql.NullString
		supports               sql.NullString
		portVersion            sql.NullInt64
	)
	err := sc.Scan(
		&p.Name, &git, &gitShort, &targetLink, &description, &version, &license, &summary,
		&docs, &defFeat, &features, &deps, &maint, &supports,
		&portVersion, &stars, &issues, &forks, &versions,
	)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, errors.Wrap(errors.ErrCodePersist, err, "scan package")
	}

	p.Git, p.GitShort, p.TargetLink = git.String, gitShort.String, targetLink.String
	p.Description, p.Version, p.License = description.String, version.String, license.String
	p.Summary, p.Documentation = summary.String, docs.String
	p.DefaultFeatures, p.Features, p.Dependencies = defFeat.String, features.String, deps.String
	p.Maintainers, p.Supports, p.Versions = maint.String, supports.String, versions.String
	p.PortVersion = int(portVersion.Int64)
	p.Stars, p.OpenIssues, p.Forks = nullInt(stars), nullInt(issues), nullInt(forks)
	return p, nil
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
