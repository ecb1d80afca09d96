package store

import (
	"crypto/sha1"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// coverCache materializes stored cover blobs into per-process temp files.
// The resulting paths are the engine's display handles: they are never
// persisted and are recreated after a restart, since a previous process's
// handles are worthless.
type coverCache struct {
	mu    sync.Mutex
	dir   string
	paths map[string]string
}

func newCoverCache() *coverCache {
	return &coverCache{paths: make(map[string]string)}
}

func (c *coverCache) dirPath() (string, error) {
	if c.dir != "" {
		return c.dir, nil
	}
	dir := filepath.Join(os.TempDir(), fmt.Sprintf("tunedex-covers-%d", os.Getpid()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cover cache dir: %w", err)
	}
	c.dir = dir
	return dir, nil
}

func extForMIME(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

func (c *coverCache) file(fingerprint string, blob []byte, mime string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if path, ok := c.paths[fingerprint]; ok {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		delete(c.paths, fingerprint)
	}

	dir, err := c.dirPath()
	if err != nil {
		return "", err
	}

	// Fingerprints embed file names, so hash them for the temp file name
	sum := sha1.Sum([]byte(fingerprint))
	path := filepath.Join(dir, fmt.Sprintf("%x%s", sum, extForMIME(mime)))
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return "", fmt.Errorf("failed to write cover file: %w", err)
	}

	c.paths[fingerprint] = path
	return path, nil
}

func (c *coverCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dir != "" {
		os.RemoveAll(c.dir)
	}
	c.dir = ""
	c.paths = make(map[string]string)
}

// CoverFile rederives a transient display handle for a track's cover art.
// Returns "" when the track has no cover.
func (s *Store) CoverFile(fingerprint string) (string, error) {
	t, err := s.TrackByFingerprint(fingerprint)
	if err != nil {
		return "", err
	}
	if t == nil || !t.HasCover() {
		return "", nil
	}
	return s.covers.file(fingerprint, t.Cover, t.CoverMIME)
}
