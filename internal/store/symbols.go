package store

import (
	"fmt"
	"strings"
)

// SymbolLookup filters a SymbolsByName query.
type SymbolLookup struct {
	Name  string
	Kind  SymbolKind // empty means any kind
	Exact bool       // false allows substring match
}

// SymbolsByName resolves a name/kind lookup (§4.H) against the symbols table.
func (s *Store) SymbolsByName(q SymbolLookup) ([]Symbol, error) {
	query := `SELECT id, name, kind, file, line, col, end_line, scope, signature, language FROM symbols WHERE `
	var args []any
	if q.Exact {
		query += `name = ?`
		args = append(args, q.Name)
	} else {
		query += `name LIKE ?`
		args = append(args, "%"+q.Name+"%")
	}
	if q.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(q.Kind))
	}
	query += ` ORDER BY file, line`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSymbols(rows)
}

// SymbolsByFile returns every symbol defined in path, in source order.
func (s *Store) SymbolsByFile(path string) ([]Symbol, error) {
	rows, err := s.db.Query(
		`SELECT id, name, kind, file, line, col, end_line, scope, signature, language
		 FROM symbols WHERE file = ? ORDER BY line`, path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSymbols(rows)
}

func scanSymbols(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]Symbol, error) {
	var out []Symbol
	for rows.Next() {
		var sym Symbol
		var endLine *int
		var scope *string
		var kind, lang string
		if err := rows.Scan(&sym.ID, &sym.Name, &kind, &sym.File, &sym.Line, &sym.Col, &endLine, &scope, &sym.Signature, &lang); err != nil {
			return nil, err
		}
		sym.Kind = SymbolKind(kind)
		sym.Language = lang
		if endLine != nil {
			sym.EndLine = *endLine
		}
		if scope != nil {
			sym.Scope = *scope
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

// SymbolLinesByFiles returns, per file, the set of lines with a Definition
// (a symbols row), for the ranker's bulk index lookup (§4.I).
func (s *Store) SymbolLinesByFiles(files []string) (map[string]map[int]bool, error) {
	return s.lineSetByFiles("symbols", files)
}

// ReferenceLinesByFiles is the reference-table analogue of SymbolLinesByFiles.
func (s *Store) ReferenceLinesByFiles(files []string) (map[string]map[int]bool, error) {
	return s.lineSetByFiles("references_", files)
}

// lineSetByFiles issues a single `(file, line) WHERE file IN (...)` query
// against table and materializes the result as per-file line sets, giving
// the ranker O(1) membership tests (§4.I: "at most two queries").
func (s *Store) lineSetByFiles(table string, files []string) (map[string]map[int]bool, error) {
	result := make(map[string]map[int]bool)
	if len(files) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(files)), ",")
	args := make([]any, len(files))
	for i, f := range files {
		args[i] = f
	}

	query := fmt.Sprintf(`SELECT file, line FROM %s WHERE file IN (%s)`, table, placeholders)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var file string
		var line int
		if err := rows.Scan(&file, &line); err != nil {
			return nil, err
		}
		set, ok := result[file]
		if !ok {
			set = make(map[int]bool)
			result[file] = set
		}
		set[line] = true
	}
	return result, rows.Err()
}

// CountMatchingSymbols returns the count of exact-phrase matches of name in
// the full-text symbol index. Patterns containing FTS5 special characters
// are wrapped as a literal phrase so they can never cause a syntax panic.
func (s *Store) CountMatchingSymbols(name string) (int, error) {
	phrase := fmt.Sprintf(`"%s"`, strings.ReplaceAll(name, `"`, `""`))
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM symbols_fts WHERE symbols_fts MATCH ?`, phrase,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count matching symbols: %w", err)
	}
	return n, nil
}
