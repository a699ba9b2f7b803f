package store

// Deps returns the distinct import paths written in sourceFile (forward
// edges). spec.md §9 leaves insert-time dedup to the implementor; this
// applies DISTINCT on read.
func (s *Store) Deps(sourceFile string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT import_path FROM file_imports WHERE source_file = ? ORDER BY import_path`,
		sourceFile)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStrings(rows)
}

// RDeps returns the distinct files that import importPath (reverse edges).
// importPath is matched both as an exact string and as a path ending in
// "/<importPath>", so a bare package name finds same-tree importers too.
func (s *Store) RDeps(importPath string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT source_file FROM file_imports
		 WHERE import_path = ? OR import_path LIKE ?
		 ORDER BY source_file`,
		importPath, "%/"+importPath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStrings(rows)
}

func scanStrings(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]string, error) {
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
