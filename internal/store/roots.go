package store

import (
	"database/sql"
	"fmt"
)

// InsertRoot registers a new scan root. The caller generates the id.
func (s *Store) InsertRoot(r *Root) error {
	_, err := s.db.Exec(`
		INSERT INTO roots (id, name, kind, path, base_url, username, password, connected)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Name, r.Kind, r.Path, r.BaseURL, r.Username, r.Password, r.Connected)
	if err != nil {
		return fmt.Errorf("failed to insert root: %w", err)
	}
	return nil
}

func scanRoot(row interface{ Scan(dest ...any) error }) (*Root, error) {
	r := &Root{}
	err := row.Scan(
		&r.ID, &r.Name, &r.Kind, &r.Path, &r.BaseURL, &r.Username, &r.Password,
		&r.TotalFiles, &r.TrackCount, &r.LastSync, &r.Connected,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

const rootColumns = `id, name, kind, path, base_url, username, password,
	total_files, track_count, last_sync, connected`

// GetRoot retrieves a root by id, or nil when absent
func (s *Store) GetRoot(id string) (*Root, error) {
	row := s.db.QueryRow("SELECT "+rootColumns+" FROM roots WHERE id = ?", id)
	r, err := scanRoot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get root: %w", err)
	}
	return r, nil
}

// ListRoots returns every registered root
func (s *Store) ListRoots() ([]*Root, error) {
	rows, err := s.db.Query("SELECT " + rootColumns + " FROM roots ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list roots: %w", err)
	}
	defer rows.Close()

	var roots []*Root
	for rows.Next() {
		r, err := scanRoot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan root: %w", err)
		}
		roots = append(roots, r)
	}
	return roots, rows.Err()
}

// DeleteRoot removes a root and cascade-deletes its tracks
func (s *Store) DeleteRoot(id string) (int64, error) {
	deleted, err := s.DeleteTracksByRoot(id)
	if err != nil {
		return 0, err
	}
	if _, err := s.db.Exec("DELETE FROM roots WHERE id = ?", id); err != nil {
		return deleted, fmt.Errorf("failed to delete root %s: %w", id, err)
	}
	return deleted, nil
}

// UpdateRootStats persists the per-root bookkeeping after a sync
func (s *Store) UpdateRootStats(id string, totalFiles, trackCount int, lastSync int64) error {
	_, err := s.db.Exec(`
		UPDATE roots SET total_files = ?, track_count = ?, last_sync = ?
		WHERE id = ?
	`, totalFiles, trackCount, lastSync, id)
	if err != nil {
		return fmt.Errorf("failed to update root stats: %w", err)
	}
	return nil
}

// SetRootConnected flips the durable connectivity flag
func (s *Store) SetRootConnected(id string, connected bool) error {
	_, err := s.db.Exec("UPDATE roots SET connected = ? WHERE id = ?", connected, id)
	if err != nil {
		return fmt.Errorf("failed to update root connectivity: %w", err)
	}
	return nil
}
