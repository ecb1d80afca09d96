package scan

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/franz/tunedex/internal/source"
	"github.com/franz/tunedex/internal/util"
)

// AudioExtensions are the supported audio file extensions
var AudioExtensions = []string{
	".mp3",
	".flac",
	".m4a",
	".aac",
	".ogg",
	".opus",
	".wav",
	".aiff",
	".aif",
	".wma",
	".ape",
	".wv",  // WavPack
	".mpc", // Musepack
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Cover and artist-image candidates inherit down the subtree until a
// deeper directory supplies its own
var coverBaseNames = map[string]bool{
	"cover":  true,
	"folder": true,
	"front":  true,
	"album":  true,
}

var artistBaseNames = map[string]bool{
	"artist": true,
	"band":   true,
}

// Candidate is one audio file discovered under a root, paired with the
// artwork context its directory chain supplied
type Candidate struct {
	Entry       source.Entry
	RootID      string
	Cover       []byte
	CoverMIME   string
	ArtistImage []byte
}

// Scanner walks one source root depth-first
type Scanner struct {
	src    source.Source
	rootID string
}

// New creates a scanner for one root
func New(src source.Source, rootID string) *Scanner {
	return &Scanner{src: src, rootID: rootID}
}

// Scan walks the root and returns its scan candidates in a stable order.
// An error is returned only when the root itself cannot be listed; deeper
// failures are logged and skipped so one unreadable folder cannot sink
// the scan.
func (s *Scanner) Scan(ctx context.Context) ([]Candidate, error) {
	return s.walk(ctx, "", nil, "", nil, true)
}

func (s *Scanner) walk(ctx context.Context, dir string, cover []byte, coverMIME string, artistImage []byte, isRoot bool) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := s.src.List(ctx, dir)
	if err != nil {
		if isRoot || errors.Is(err, context.Canceled) {
			return nil, err
		}
		util.WarnLog("Skipping unreadable folder %s: %v", dir, err)
		return nil, nil
	}

	var audio, subdirs []source.Entry
	var coverEntry, artistEntry *source.Entry
	for i := range entries {
		e := entries[i]
		switch {
		case e.Dir:
			subdirs = append(subdirs, e)
		case isAudioFile(e.Name):
			audio = append(audio, e)
		case isCoverImage(e.Name):
			if coverEntry == nil {
				coverEntry = &entries[i]
			}
		case isArtistImage(e.Name):
			if artistEntry == nil {
				artistEntry = &entries[i]
			}
		}
	}

	// Stable order keeps progress reporting deterministic
	sort.Slice(audio, func(i, j int) bool { return audio[i].Name < audio[j].Name })
	sort.Slice(subdirs, func(i, j int) bool { return subdirs[i].Name < subdirs[j].Name })

	// A directory's own artwork overrides what it inherited; both kinds
	// flow down the remaining subtree
	if coverEntry != nil {
		if img := s.readImage(ctx, coverEntry.Path); img != nil {
			cover = img
			coverMIME = mimeForImage(coverEntry.Name)
		}
	}
	if artistEntry != nil {
		if img := s.readImage(ctx, artistEntry.Path); img != nil {
			artistImage = img
		}
	}

	candidates := make([]Candidate, 0, len(audio))
	for _, e := range audio {
		candidates = append(candidates, Candidate{
			Entry:       e,
			RootID:      s.rootID,
			Cover:       cover,
			CoverMIME:   coverMIME,
			ArtistImage: artistImage,
		})
	}

	for _, sub := range subdirs {
		deeper, err := s.walk(ctx, sub.Path, cover, coverMIME, artistImage, false)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, deeper...)
	}

	return candidates, nil
}

func (s *Scanner) readImage(ctx context.Context, path string) []byte {
	f, err := s.src.Open(ctx, path)
	if err != nil {
		util.WarnLog("Failed to read image %s: %v", path, err)
		return nil
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		util.WarnLog("Failed to read image %s: %v", path, err)
		return nil
	}
	return data
}

func isAudioFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, audioExt := range AudioExtensions {
		if ext == audioExt {
			return true
		}
	}
	return false
}

func isCoverImage(name string) bool {
	base, ext := splitName(name)
	return imageExtensions[ext] && coverBaseNames[base]
}

func isArtistImage(name string) bool {
	base, ext := splitName(name)
	return imageExtensions[ext] && artistBaseNames[base]
}

func splitName(name string) (base, ext string) {
	ext = strings.ToLower(filepath.Ext(name))
	base = strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
	return base, ext
}

func mimeForImage(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
