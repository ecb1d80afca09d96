package store

import (
	"database/sql"
	"fmt"
	"time"
)

const trackColumns = `fingerprint, name, artist, album, year, genre,
	duration_ms, bitrate, cover, COALESCE(cover_mime, ''), root_id,
	file_name, rel_path, size_bytes, last_modified, date_added`

func scanTrack(row interface{ Scan(dest ...any) error }) (*Track, error) {
	t := &Track{}
	err := row.Scan(
		&t.Fingerprint, &t.Name, &t.Artist, &t.Album, &t.Year, &t.Genre,
		&t.DurationMS, &t.Bitrate, &t.Cover, &t.CoverMIME, &t.RootID,
		&t.FileName, &t.RelPath, &t.SizeBytes, &t.LastModified, &t.DateAdded,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpsertTracks writes a batch of tracks in one transaction. Existing entries
// are replaced by fingerprint; date_added is set at first insertion and
// never overwritten by a re-sync.
func (s *Store) UpsertTracks(tracks []*Track) error {
	if len(tracks) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO tracks (
			fingerprint, name, artist, album, year, genre,
			duration_ms, bitrate, cover, cover_mime, root_id,
			file_name, rel_path, size_bytes, last_modified, date_added
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET
			name = excluded.name,
			artist = excluded.artist,
			album = excluded.album,
			year = excluded.year,
			genre = excluded.genre,
			duration_ms = excluded.duration_ms,
			bitrate = excluded.bitrate,
			cover = excluded.cover,
			cover_mime = excluded.cover_mime,
			root_id = excluded.root_id,
			file_name = excluded.file_name,
			rel_path = excluded.rel_path,
			size_bytes = excluded.size_bytes,
			last_modified = excluded.last_modified
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare track upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, t := range tracks {
		dateAdded := t.DateAdded
		if dateAdded == 0 {
			dateAdded = now
		}
		_, err := stmt.Exec(
			t.Fingerprint, t.Name, t.Artist, t.Album, t.Year, t.Genre,
			t.DurationMS, t.Bitrate, t.Cover, t.CoverMIME, t.RootID,
			t.FileName, t.RelPath, t.SizeBytes, t.LastModified, dateAdded,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert track %s: %w", t.Fingerprint, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit track batch: %w", err)
	}

	return nil
}

// TrackByFingerprint retrieves one track, or nil when absent
func (s *Store) TrackByFingerprint(fingerprint string) (*Track, error) {
	row := s.db.QueryRow(
		"SELECT "+trackColumns+" FROM tracks WHERE fingerprint = ?", fingerprint)
	t, err := scanTrack(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get track: %w", err)
	}
	return t, nil
}

func (s *Store) queryTracks(query string, args ...any) ([]*Track, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// AllTracks returns every cached track ordered by insertion time
func (s *Store) AllTracks() ([]*Track, error) {
	return s.queryTracks("SELECT " + trackColumns + " FROM tracks ORDER BY date_added, fingerprint")
}

// TracksByRoot returns the tracks that belong to one root
func (s *Store) TracksByRoot(rootID string) ([]*Track, error) {
	return s.queryTracks(
		"SELECT "+trackColumns+" FROM tracks WHERE root_id = ? ORDER BY rel_path", rootID)
}

// TracksByArtist returns tracks whose artist list contains the given artist
func (s *Store) TracksByArtist(artist string) ([]*Track, error) {
	return s.queryTracks(
		"SELECT "+trackColumns+" FROM tracks WHERE artist = ? OR artist LIKE ? OR artist LIKE ? OR artist LIKE ? ORDER BY album, name",
		artist, artist+"/%", "%/"+artist, "%/"+artist+"/%")
}

// TracksByAlbum returns the tracks of one album
func (s *Store) TracksByAlbum(album string) ([]*Track, error) {
	return s.queryTracks(
		"SELECT "+trackColumns+" FROM tracks WHERE album = ? ORDER BY name", album)
}

// FingerprintsByRoot returns the cached fingerprints under one root
func (s *Store) FingerprintsByRoot(rootID string) (map[string]bool, error) {
	rows, err := s.db.Query("SELECT fingerprint FROM tracks WHERE root_id = ?", rootID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fingerprints: %w", err)
	}
	defer rows.Close()

	fingerprints := make(map[string]bool)
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("failed to scan fingerprint: %w", err)
		}
		fingerprints[fp] = true
	}
	return fingerprints, rows.Err()
}

// CoverStates returns, for every cached fingerprint, whether the entry
// already carries cover art. Used by the diff phase so it never loads blobs.
func (s *Store) CoverStates() (map[string]bool, error) {
	rows, err := s.db.Query(
		"SELECT fingerprint, cover IS NOT NULL AND LENGTH(cover) > 0 FROM tracks")
	if err != nil {
		return nil, fmt.Errorf("failed to query cover states: %w", err)
	}
	defer rows.Close()

	states := make(map[string]bool)
	for rows.Next() {
		var fp string
		var hasCover bool
		if err := rows.Scan(&fp, &hasCover); err != nil {
			return nil, fmt.Errorf("failed to scan cover state: %w", err)
		}
		states[fp] = hasCover
	}
	return states, rows.Err()
}

// DeleteTracksByRoot cascade-deletes every track owned by a root
func (s *Store) DeleteTracksByRoot(rootID string) (int64, error) {
	result, err := s.db.Exec("DELETE FROM tracks WHERE root_id = ?", rootID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete tracks for root %s: %w", rootID, err)
	}
	deleted, _ := result.RowsAffected()
	return deleted, nil
}

// CountTracksByRoot counts the cached tracks under one root
func (s *Store) CountTracksByRoot(rootID string) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM tracks WHERE root_id = ?", rootID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w", err)
	}
	return count, nil
}
