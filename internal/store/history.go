package store

import "fmt"

// AppendHistory records a playback by fingerprint
func (s *Store) AppendHistory(fingerprint string, playedAt int64) error {
	_, err := s.db.Exec(
		"INSERT INTO history (fingerprint, played_at) VALUES (?, ?)",
		fingerprint, playedAt)
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// History returns up to limit entries, most recent first. limit <= 0 means
// no limit.
func (s *Store) History(limit int) ([]*HistoryEntry, error) {
	query := "SELECT fingerprint, played_at FROM history ORDER BY played_at DESC, id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []*HistoryEntry
	for rows.Next() {
		e := &HistoryEntry{}
		if err := rows.Scan(&e.Fingerprint, &e.PlayedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
