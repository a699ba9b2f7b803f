package store

// ReferenceLookup filters a ReferencesByName query.
type ReferenceLookup struct {
	Name string
	Path string // empty means no path scope
}

// ReferencesByName resolves a name/path lookup (§4.H) against references_.
func (s *Store) ReferencesByName(q ReferenceLookup) ([]Reference, error) {
	query := `SELECT id, name, kind, file, line, col, context FROM references_ WHERE name = ?`
	args := []any{q.Name}
	if q.Path != "" {
		query += ` AND file = ?`
		args = append(args, q.Path)
	}
	query += ` ORDER BY file, line`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reference
	for rows.Next() {
		var r Reference
		var kind string
		if err := rows.Scan(&r.ID, &r.Name, &kind, &r.File, &r.Line, &r.Col, &r.Context); err != nil {
			return nil, err
		}
		r.Kind = ReferenceKind(kind)
		out = append(out, r)
	}
	return out, rows.Err()
}
