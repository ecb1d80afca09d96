package store

import (
	"database/sql"
	"fmt"
	"time"
)

// UpsertArtistImage stores a supplemental artist image. Last writer wins
// across folders.
func (s *Store) UpsertArtistImage(name string, image []byte) error {
	if name == "" || len(image) == 0 {
		return nil
	}
	_, err := s.db.Exec(`
		INSERT INTO artist_images (name, image, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			image = excluded.image,
			updated_at = excluded.updated_at
	`, name, image, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert artist image %s: %w", name, err)
	}
	return nil
}

// GetArtistImage retrieves an artist image by normalized name, or nil
func (s *Store) GetArtistImage(name string) (*ArtistImage, error) {
	a := &ArtistImage{}
	err := s.db.QueryRow(
		"SELECT name, image, updated_at FROM artist_images WHERE name = ?", name,
	).Scan(&a.Name, &a.Image, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artist image: %w", err)
	}
	return a, nil
}

// AllArtistImages returns every stored artist image
func (s *Store) AllArtistImages() ([]*ArtistImage, error) {
	rows, err := s.db.Query("SELECT name, image, updated_at FROM artist_images ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list artist images: %w", err)
	}
	defer rows.Close()

	var images []*ArtistImage
	for rows.Next() {
		a := &ArtistImage{}
		if err := rows.Scan(&a.Name, &a.Image, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artist image: %w", err)
		}
		images = append(images, a)
	}
	return images, rows.Err()
}
