// Package store implements wonk's persistent index: a SQLite database with a
// companion full-text symbol index, opened with pragmas tuned for a single
// writer and many concurrent readers.
//
// Build with the sqlite_fts5 tag (CGO_ENABLED=1) so symbols_fts is available;
// without it, the schema's fts5 virtual table cannot be created and Open
// fails.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite-backed index for one repository.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates the schema idempotently (if needed) and returns a Store with
// pragmas applied for concurrent reader/writer use.
func Open(path string) (*Store, error) {
	return open(path, true)
}

// OpenExisting opens path without creating the schema. It fails if the file
// does not contain a wonk index (the files table is absent).
func OpenExisting(path string) (*Store, error) {
	s, err := open(path, false)
	if err != nil {
		return nil, err
	}
	var name string
	err = s.db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='files'`).Scan(&name)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("store: %s: no index present", path)
	}
	return s, nil
}

func open(path string, migrate bool) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", path, err)
	}
	// A SQLite connection pool with more than one writer connection defeats
	// the single-writer discipline WAL mode assumes; keep one connection and
	// let the busy_timeout absorb contention from other processes.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if migrate {
		if err := s.migrate(); err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

// DB returns the underlying *sql.DB for direct queries by other packages in
// this module (the ranker and router need ad hoc SELECTs).
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the filesystem path this Store was opened from.
func (s *Store) Path() string { return s.path }

// Close releases the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

const schemaDDL = `
CREATE TABLE IF NOT EXISTS files (
  path            TEXT PRIMARY KEY,
  language        TEXT NOT NULL,
  content_hash    TEXT NOT NULL,
  last_indexed    INTEGER NOT NULL,
  line_count      INTEGER NOT NULL DEFAULT 0,
  symbols_count   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS symbols (
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  name       TEXT NOT NULL,
  kind       TEXT NOT NULL,
  file       TEXT NOT NULL REFERENCES files(path),
  line       INTEGER NOT NULL,
  col        INTEGER NOT NULL,
  end_line   INTEGER,
  scope      TEXT,
  signature  TEXT NOT NULL DEFAULT '',
  language   TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file);
CREATE INDEX IF NOT EXISTS idx_symbols_kind ON symbols(kind);

CREATE VIRTUAL TABLE IF NOT EXISTS symbols_fts USING fts5(
  name, kind, file,
  content=symbols, content_rowid=id,
  tokenize="unicode61 tokenchars '_'"
);

CREATE TRIGGER IF NOT EXISTS symbols_ai AFTER INSERT ON symbols BEGIN
  INSERT INTO symbols_fts(rowid, name, kind, file) VALUES (new.id, new.name, new.kind, new.file);
END;
CREATE TRIGGER IF NOT EXISTS symbols_ad AFTER DELETE ON symbols BEGIN
  INSERT INTO symbols_fts(symbols_fts, rowid, name, kind, file) VALUES('delete', old.id, old.name, old.kind, old.file);
END;
CREATE TRIGGER IF NOT EXISTS symbols_au AFTER UPDATE ON symbols BEGIN
  INSERT INTO symbols_fts(symbols_fts, rowid, name, kind, file) VALUES('delete', old.id, old.name, old.kind, old.file);
  INSERT INTO symbols_fts(rowid, name, kind, file) VALUES (new.id, new.name, new.kind, new.file);
END;

CREATE TABLE IF NOT EXISTS references_ (
  id       INTEGER PRIMARY KEY AUTOINCREMENT,
  name     TEXT NOT NULL,
  kind     TEXT NOT NULL,
  file     TEXT NOT NULL REFERENCES files(path),
  line     INTEGER NOT NULL,
  col      INTEGER NOT NULL,
  context  TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_references_name ON references_(name);
CREATE INDEX IF NOT EXISTS idx_references_file ON references_(file);

CREATE TABLE IF NOT EXISTS file_imports (
  id             INTEGER PRIMARY KEY AUTOINCREMENT,
  source_file    TEXT NOT NULL REFERENCES files(path),
  import_path    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_file_imports_source ON file_imports(source_file);
CREATE INDEX IF NOT EXISTS idx_file_imports_path ON file_imports(import_path);

CREATE TABLE IF NOT EXISTS daemon_status (
  key         TEXT PRIMARY KEY,
  value       TEXT NOT NULL,
  updated_at  INTEGER NOT NULL
);
`

func (s *Store) migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// Rebuild truncates all indexed data (files, symbols, references, imports;
// the symbols_fts triggers clear the FTS index along with symbols) but
// leaves daemon_status untouched.
func (s *Store) Rebuild() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: rebuild: begin: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM symbols`,
		`DELETE FROM references_`,
		`DELETE FROM file_imports`,
		`DELETE FROM files`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("store: rebuild: %s: %w", stmt, err)
		}
	}
	return tx.Commit()
}
