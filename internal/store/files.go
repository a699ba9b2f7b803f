package store

import "database/sql"

// FileByPath returns the FileRecord for path, or (nil, nil) if absent.
func (s *Store) FileByPath(path string) (*FileRecord, error) {
	return scanFile(s.db.QueryRow(
		`SELECT path, language, content_hash, last_indexed, line_count, symbols_count
		 FROM files WHERE path = ?`, path))
}

func scanFile(row *sql.Row) (*FileRecord, error) {
	var f FileRecord
	err := row.Scan(&f.Path, &f.Language, &f.ContentHash, &f.LastIndexed, &f.LineCount, &f.SymbolsCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// DistinctLanguages returns the sorted-by-query-order set of languages with
// at least one indexed file.
func (s *Store) DistinctLanguages() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT language FROM files ORDER BY language`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var langs []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		langs = append(langs, l)
	}
	return langs, rows.Err()
}

// FilesUnder returns every indexed file path with the given directory prefix
// (empty prefix returns everything), used by the `ls` listing query.
func (s *Store) FilesUnder(prefix string) ([]FileRecord, error) {
	rows, err := s.db.Query(
		`SELECT path, language, content_hash, last_indexed, line_count, symbols_count
		 FROM files WHERE path LIKE ? ORDER BY path`, prefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FileRecord
	for rows.Next() {
		var f FileRecord
		if err := rows.Scan(&f.Path, &f.Language, &f.ContentHash, &f.LastIndexed, &f.LineCount, &f.SymbolsCount); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// FileCount returns the total number of indexed files.
func (s *Store) FileCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&n)
	return n, err
}
