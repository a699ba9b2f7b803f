package store

import (
	"database/sql"
	"fmt"
)

// ApplyBuildBatch performs the Index Builder's single-transaction batch
// insert (§4.D step 4): upsert every file record, then insert its symbols,
// references, and imports. Any pre-existing rows for a path (a build run
// against a store that wasn't freshly Rebuilt) are replaced, preserving the
// "unique files.path" invariant.
func (s *Store) ApplyBuildBatch(results []FileResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: apply build batch: begin: %w", err)
	}
	defer tx.Rollback()

	for _, r := range results {
		if err := deleteFileDataTx(tx, r.File.Path); err != nil {
			return fmt.Errorf("store: apply build batch: delete %s: %w", r.File.Path, err)
		}
		if err := upsertFileTx(tx, r.File); err != nil {
			return fmt.Errorf("store: apply build batch: upsert file %s: %w", r.File.Path, err)
		}
		if err := insertFileRowsTx(tx, r); err != nil {
			return fmt.Errorf("store: apply build batch: insert rows %s: %w", r.File.Path, err)
		}
	}
	return tx.Commit()
}

// ApplyFileUpdate performs the Incremental Updater's Reindex transaction
// (§4.E): delete this file's old symbols/references/imports, upsert the
// files row, insert the new rows. Single file, single transaction.
func (s *Store) ApplyFileUpdate(r FileResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: apply file update: begin: %w", err)
	}
	defer tx.Rollback()

	if err := deleteFileDataTx(tx, r.File.Path); err != nil {
		return fmt.Errorf("store: apply file update: delete: %w", err)
	}
	if err := upsertFileTx(tx, r.File); err != nil {
		return fmt.Errorf("store: apply file update: upsert file: %w", err)
	}
	if err := insertFileRowsTx(tx, r); err != nil {
		return fmt.Errorf("store: apply file update: insert rows: %w", err)
	}
	return tx.Commit()
}

// DeleteFile performs the Incremental Updater's Remove transaction (§4.E):
// delete this file's rows from symbols, references, file_imports, and files.
func (s *Store) DeleteFile(path string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: delete file: begin: %w", err)
	}
	defer tx.Rollback()

	if err := deleteFileDataTx(tx, path); err != nil {
		return fmt.Errorf("store: delete file: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("store: delete file: files row: %w", err)
	}
	return tx.Commit()
}

// deleteFileDataTx removes symbols, references, and import edges for path.
// It does not touch the files row itself — callers that are about to
// re-upsert the file call this first; callers removing the file entirely
// delete the files row afterward.
func deleteFileDataTx(tx *sql.Tx, path string) error {
	for _, stmt := range []string{
		`DELETE FROM symbols WHERE file = ?`,
		`DELETE FROM references_ WHERE file = ?`,
		`DELETE FROM file_imports WHERE source_file = ?`,
	} {
		if _, err := tx.Exec(stmt, path); err != nil {
			return err
		}
	}
	return nil
}

func upsertFileTx(tx *sql.Tx, f FileRecord) error {
	_, err := tx.Exec(
		`INSERT INTO files(path, language, content_hash, last_indexed, line_count, symbols_count)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		   language = excluded.language,
		   content_hash = excluded.content_hash,
		   last_indexed = excluded.last_indexed,
		   line_count = excluded.line_count,
		   symbols_count = excluded.symbols_count`,
		f.Path, f.Language, f.ContentHash, f.LastIndexed, f.LineCount, f.SymbolsCount,
	)
	return err
}

func insertFileRowsTx(tx *sql.Tx, r FileResult) error {
	for _, sym := range r.Symbols {
		var endLine any
		if sym.EndLine != 0 {
			endLine = sym.EndLine
		}
		var scope any
		if sym.Scope != "" {
			scope = sym.Scope
		}
		if _, err := tx.Exec(
			`INSERT INTO symbols(name, kind, file, line, col, end_line, scope, signature, language)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sym.Name, string(sym.Kind), r.File.Path, sym.Line, sym.Col, endLine, scope, sym.Signature, sym.Language,
		); err != nil {
			return fmt.Errorf("insert symbol %s: %w", sym.Name, err)
		}
	}
	for _, ref := range r.References {
		if _, err := tx.Exec(
			`INSERT INTO references_(name, kind, file, line, col, context) VALUES (?, ?, ?, ?, ?, ?)`,
			ref.Name, string(ref.Kind), r.File.Path, ref.Line, ref.Col, ref.Context,
		); err != nil {
			return fmt.Errorf("insert reference %s: %w", ref.Name, err)
		}
	}
	for _, imp := range r.Imports {
		if _, err := tx.Exec(
			`INSERT INTO file_imports(source_file, import_path) VALUES (?, ?)`,
			r.File.Path, imp.ImportPath,
		); err != nil {
			return fmt.Errorf("insert import %s: %w", imp.ImportPath, err)
		}
	}
	return nil
}
