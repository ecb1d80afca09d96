package meta

import (
	"fmt"
	"io"

	"github.com/dhowden/tag"
)

// Extracted holds the metadata read from one audio file
type Extracted struct {
	Title      string
	Artist     string // "/"-joined performer list, see NormalizeArtists
	Album      string
	Year       int
	Genre      string
	DurationMS int
	Bitrate    int
	Cover      []byte
	CoverMIME  string
}

// Extract reads embedded tags from r and falls back to filename heuristics
// for anything the tags don't provide. localPath, when non-empty, points at
// an on-disk copy used for optional audio-property probing; duration and
// bitrate stay zero when probing is unavailable.
func Extract(r io.ReadSeeker, fileName string, localPath string) (*Extracted, error) {
	e := &Extracted{}

	m, tagErr := tag.ReadFrom(r)
	if tagErr == nil {
		e.Title = m.Title()
		e.Artist = NormalizeArtists(m.Artist())
		e.Album = m.Album()
		e.Genre = m.Genre()
		e.Year = m.Year()
		if pic := m.Picture(); pic != nil && len(pic.Data) > 0 {
			e.Cover = pic.Data
			e.CoverMIME = pic.MIMEType
		}
	}

	// Filename heuristics fill whatever the tags left empty
	fallback := ParseFilename(fileName)
	if e.Title == "" {
		e.Title = fallback.Title
	}
	if e.Artist == "" && fallback.Artist != "" {
		e.Artist = NormalizeArtists(fallback.Artist)
	}

	if e.Title == "" {
		if tagErr != nil {
			return nil, fmt.Errorf("no usable metadata in %s: %w", fileName, tagErr)
		}
		return nil, fmt.Errorf("no usable metadata in %s", fileName)
	}

	if localPath != "" {
		probeAudioProperties(localPath, e)
	}

	return e, nil
}
