package sync

import (
	"context"
	"fmt"

	"github.com/franz/tunedex/internal/source"
	"github.com/franz/tunedex/internal/store"
	"github.com/franz/tunedex/internal/util"
)

// ResolveTrackFile returns a playable on-disk path for a track. Local
// tracks resolve to their absolute path; remote tracks are downloaded
// into the root's cache directory first. A file moved within its root
// keeps its fingerprint, so when the stored path no longer opens the
// root is searched for the stored name and size and the new location
// is persisted. Disconnected roots resolve to nothing.
func (e *Engine) ResolveTrackFile(ctx context.Context, fingerprint string) (string, error) {
	track, err := e.store.TrackByFingerprint(fingerprint)
	if err != nil {
		return "", err
	}
	if track == nil {
		return "", fmt.Errorf("track %s: %w", fingerprint, util.ErrNotFound)
	}

	root, err := e.store.GetRoot(track.RootID)
	if err != nil {
		return "", err
	}
	if root == nil {
		return "", fmt.Errorf("root %s: %w", track.RootID, util.ErrNotFound)
	}
	if !root.Connected {
		return "", fmt.Errorf("root %s: %w", root.Name, util.ErrDisconnected)
	}

	src, err := e.sourceFor(root)
	if err != nil {
		return "", err
	}

	f, err := src.Open(ctx, track.RelPath)
	if err != nil {
		relocated, rerr := e.relocate(ctx, src, track)
		if rerr != nil {
			return "", err
		}
		f = relocated
	}
	defer f.Close()

	if f.LocalPath == "" {
		return "", fmt.Errorf("track %s has no on-disk copy", fingerprint)
	}
	return f.LocalPath, nil
}

// relocate searches the root for the track's stored name and size and,
// when found, persists the fresh path so the next resolution is direct.
func (e *Engine) relocate(ctx context.Context, src source.Source, track *store.Track) (*source.File, error) {
	path, err := findEntry(ctx, src, "", track.FileName, track.SizeBytes)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("file %s: %w", track.FileName, util.ErrNotFound)
	}

	f, err := src.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	util.DebugLog("Relocated %s: %s -> %s", track.Fingerprint, track.RelPath, path)
	track.RelPath = path
	if err := e.store.UpsertTracks([]*store.Track{track}); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// findEntry walks a source depth-first for a file matching name and size.
// Returns "" when nothing matches.
func findEntry(ctx context.Context, src source.Source, dir, name string, size int64) (string, error) {
	entries, err := src.List(ctx, dir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if !entry.Dir && entry.Name == name && entry.Size == size {
			return entry.Path, nil
		}
	}
	for _, entry := range entries {
		if !entry.Dir {
			continue
		}
		path, err := findEntry(ctx, src, entry.Path, name, size)
		if err != nil || path != "" {
			return path, err
		}
	}
	return "", nil
}
