package store

import (
	"database/sql"
	"fmt"
)

// CreatePlaylist creates a playlist. The caller generates the id.
func (s *Store) CreatePlaylist(p *Playlist) error {
	_, err := s.db.Exec("INSERT INTO playlists (id, name) VALUES (?, ?)", p.ID, p.Name)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}
	return nil
}

// GetPlaylist retrieves a playlist by id, or nil when absent
func (s *Store) GetPlaylist(id string) (*Playlist, error) {
	p := &Playlist{}
	err := s.db.QueryRow("SELECT id, name FROM playlists WHERE id = ?", id).Scan(&p.ID, &p.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}
	return p, nil
}

// ListPlaylists returns every playlist
func (s *Store) ListPlaylists() ([]*Playlist, error) {
	rows, err := s.db.Query("SELECT id, name FROM playlists ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*Playlist
	for rows.Next() {
		p := &Playlist{}
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

// DeletePlaylist removes a playlist and its items
func (s *Store) DeletePlaylist(id string) error {
	if _, err := s.db.Exec("DELETE FROM playlist_items WHERE playlist_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete playlist items: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM playlists WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	return nil
}

// AppendPlaylistTrack appends a fingerprint to a playlist. Fingerprints
// already present keep their position.
func (s *Store) AppendPlaylistTrack(playlistID, fingerprint string) error {
	_, err := s.db.Exec(`
		INSERT INTO playlist_items (playlist_id, fingerprint, position)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM playlist_items WHERE playlist_id = ?))
		ON CONFLICT(playlist_id, fingerprint) DO NOTHING
	`, playlistID, fingerprint, playlistID)
	if err != nil {
		return fmt.Errorf("failed to append playlist track: %w", err)
	}
	return nil
}

// RemovePlaylistTrack removes a fingerprint from a playlist
func (s *Store) RemovePlaylistTrack(playlistID, fingerprint string) error {
	_, err := s.db.Exec(
		"DELETE FROM playlist_items WHERE playlist_id = ? AND fingerprint = ?",
		playlistID, fingerprint)
	if err != nil {
		return fmt.Errorf("failed to remove playlist track: %w", err)
	}
	return nil
}

// PlaylistFingerprints returns a playlist's fingerprints in order
func (s *Store) PlaylistFingerprints(playlistID string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT fingerprint FROM playlist_items
		WHERE playlist_id = ? ORDER BY position
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist items: %w", err)
	}
	defer rows.Close()

	var fingerprints []string
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("failed to scan playlist item: %w", err)
		}
		fingerprints = append(fingerprints, fp)
	}
	return fingerprints, rows.Err()
}

// MovePlaylistTrack moves a fingerprint before the target fingerprint, or
// to the end when target is empty. Playlists are ordered fingerprints, so
// the move survives re-scans of the underlying tracks.
func (s *Store) MovePlaylistTrack(playlistID, fingerprint, beforeFingerprint string) error {
	fingerprints, err := s.PlaylistFingerprints(playlistID)
	if err != nil {
		return err
	}

	reordered := make([]string, 0, len(fingerprints))
	found := false
	for _, fp := range fingerprints {
		if fp == fingerprint {
			found = true
			continue
		}
		reordered = append(reordered, fp)
	}
	if !found {
		return fmt.Errorf("fingerprint %s not in playlist %s", fingerprint, playlistID)
	}

	if beforeFingerprint == "" {
		reordered = append(reordered, fingerprint)
	} else {
		inserted := false
		withTarget := make([]string, 0, len(reordered)+1)
		for _, fp := range reordered {
			if fp == beforeFingerprint && !inserted {
				withTarget = append(withTarget, fingerprint)
				inserted = true
			}
			withTarget = append(withTarget, fp)
		}
		if !inserted {
			return fmt.Errorf("target fingerprint %s not in playlist %s", beforeFingerprint, playlistID)
		}
		reordered = withTarget
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, fp := range reordered {
		_, err := tx.Exec(
			"UPDATE playlist_items SET position = ? WHERE playlist_id = ? AND fingerprint = ?",
			i+1, playlistID, fp)
		if err != nil {
			return fmt.Errorf("failed to reposition playlist item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit playlist reorder: %w", err)
	}
	return nil
}
