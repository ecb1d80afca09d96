package store

import (
	"encoding/json"
	"fmt"
	"io"
)

// exportVersion is the version field written into export documents
const exportVersion = 1

// ExportPlaylist is a playlist flattened to its ordered fingerprints
type ExportPlaylist struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Fingerprints []string `json:"fingerprints"`
}

// ExportDoc is the portable serialization of every store: one array per
// concern plus a version field. Live file handles and transient cover
// paths are not part of the document; they cannot survive serialization.
type ExportDoc struct {
	Version   int             `json:"version"`
	Roots     []*Root         `json:"roots"`
	Tracks    []*Track        `json:"tracks"`
	Artists   []*ArtistImage  `json:"artists"`
	Playlists []ExportPlaylist `json:"playlists"`
	History   []*HistoryEntry `json:"history"`
}

// Export serializes the full store to a single JSON document
func (s *Store) Export(w io.Writer) error {
	doc := &ExportDoc{Version: exportVersion}

	var err error
	if doc.Roots, err = s.ListRoots(); err != nil {
		return err
	}
	if doc.Tracks, err = s.AllTracks(); err != nil {
		return err
	}
	if doc.Artists, err = s.AllArtistImages(); err != nil {
		return err
	}

	playlists, err := s.ListPlaylists()
	if err != nil {
		return err
	}
	for _, p := range playlists {
		fingerprints, err := s.PlaylistFingerprints(p.ID)
		if err != nil {
			return err
		}
		doc.Playlists = append(doc.Playlists, ExportPlaylist{
			ID:           p.ID,
			Name:         p.Name,
			Fingerprints: fingerprints,
		})
	}

	if doc.History, err = s.History(0); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode export document: %w", err)
	}
	return nil
}

// Import restores a previously exported document. Local-directory roots are
// marked disconnected: their handles cannot survive serialization and need
// an explicit user reconnect before the next sync.
func (s *Store) Import(r io.Reader) error {
	doc := &ExportDoc{}
	if err := json.NewDecoder(r).Decode(doc); err != nil {
		return fmt.Errorf("failed to decode import document: %w", err)
	}
	if doc.Version != exportVersion {
		return fmt.Errorf("unsupported export version %d", doc.Version)
	}

	for _, root := range doc.Roots {
		if root.Kind == RootLocal {
			root.Connected = false
		}
		existing, err := s.GetRoot(root.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			if err := s.InsertRoot(root); err != nil {
				return err
			}
		}
		if err := s.UpdateRootStats(root.ID, root.TotalFiles, root.TrackCount, root.LastSync); err != nil {
			return err
		}
		if err := s.SetRootConnected(root.ID, root.Connected); err != nil {
			return err
		}
	}

	if err := s.UpsertTracks(doc.Tracks); err != nil {
		return err
	}

	for _, a := range doc.Artists {
		if err := s.UpsertArtistImage(a.Name, a.Image); err != nil {
			return err
		}
	}

	for _, p := range doc.Playlists {
		existing, err := s.GetPlaylist(p.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			if err := s.CreatePlaylist(&Playlist{ID: p.ID, Name: p.Name}); err != nil {
				return err
			}
		}
		for _, fp := range p.Fingerprints {
			if err := s.AppendPlaylistTrack(p.ID, fp); err != nil {
				return err
			}
		}
	}

	for _, e := range doc.History {
		if err := s.AppendHistory(e.Fingerprint, e.PlayedAt); err != nil {
			return err
		}
	}

	return nil
}
