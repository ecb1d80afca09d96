package sync

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	stdsync "sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/franz/tunedex/internal/meta"
	"github.com/franz/tunedex/internal/scan"
	"github.com/franz/tunedex/internal/source"
	"github.com/franz/tunedex/internal/store"
	"github.com/franz/tunedex/internal/util"
)

// batchSize is how many files are extracted and committed per transaction.
// Small batches keep memory flat on large libraries and give frequent
// progress updates without hammering the database.
const batchSize = 15

// syncAllSentinel marks a library-wide sync in the single-flight guard
const syncAllSentinel = "*"

// ProgressFunc receives integer-percent progress during a sync
type ProgressFunc func(percent, processed, total int)

// Result summarizes one root sync
type Result struct {
	RootID     string
	TotalFiles int
	Added      int
	Skipped    int
	Failed     int
}

// Engine runs incremental syncs against the store. At most one sync runs
// at a time, whether per-root or library-wide.
type Engine struct {
	store    *store.Store
	cacheDir string

	mu      stdsync.Mutex
	syncing string // "" idle, root id, or syncAllSentinel
}

// NewEngine creates a sync engine. cacheDir holds downloaded copies of
// remote files, one subdirectory per root.
func NewEngine(st *store.Store, cacheDir string) *Engine {
	return &Engine{store: st, cacheDir: cacheDir}
}

// acquire claims the single-flight guard for id
func (e *Engine) acquire(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.syncing != "" {
		return fmt.Errorf("sync of %s already running: %w", e.syncing, util.ErrSyncInProgress)
	}
	e.syncing = id
	return nil
}

func (e *Engine) release() {
	e.mu.Lock()
	e.syncing = ""
	e.mu.Unlock()
}

// Syncing reports the id currently holding the guard, or ""
func (e *Engine) Syncing() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.syncing
}

// sourceFor builds the adapter matching a root's kind
func (e *Engine) sourceFor(r *store.Root) (source.Source, error) {
	switch r.Kind {
	case store.RootLocal:
		return source.NewLocal(r.Path), nil
	case store.RootWebDAV:
		return source.NewWebDAV(source.WebDAVConfig{
			BaseURL:  r.BaseURL,
			RootPath: r.Path,
			Username: r.Username,
			Password: r.Password,
			CacheDir: filepath.Join(e.cacheDir, r.ID),
		}), nil
	default:
		return nil, fmt.Errorf("root %s has unknown kind %q: %w", r.ID, r.Kind, util.ErrInvalidConfig)
	}
}

// TestRoot probes a root's source without touching the catalog
func (e *Engine) TestRoot(ctx context.Context, rootID string) (source.ConnResult, error) {
	root, err := e.store.GetRoot(rootID)
	if err != nil {
		return source.ConnResult{}, err
	}
	if root == nil {
		return source.ConnResult{}, fmt.Errorf("root %s: %w", rootID, util.ErrNotFound)
	}
	src, err := e.sourceFor(root)
	if err != nil {
		return source.ConnResult{}, err
	}
	return src.TestConnection(ctx), nil
}

// ClearRootCache removes a remote root's downloaded-file cache. Called
// when a root is removed so its cache directory doesn't outlive it;
// local roots have no cache.
func (e *Engine) ClearRootCache(rootID string) error {
	root, err := e.store.GetRoot(rootID)
	if err != nil {
		return err
	}
	if root == nil || root.Kind != store.RootWebDAV {
		return nil
	}
	src, err := e.sourceFor(root)
	if err != nil {
		return err
	}
	if dav, ok := src.(*source.WebDAV); ok {
		return dav.ClearCache()
	}
	return nil
}

// SyncRoot scans one root and commits anything new. Files whose
// fingerprint is already stored are skipped without being read, unless
// the stored track lacks cover art and the scan found some.
func (e *Engine) SyncRoot(ctx context.Context, rootID string, progress ProgressFunc) (*Result, error) {
	if err := e.acquire(rootID); err != nil {
		return nil, err
	}
	defer e.release()
	return e.syncRoot(ctx, rootID, progress)
}

// SyncAll syncs every connected root in sequence
func (e *Engine) SyncAll(ctx context.Context, progress ProgressFunc) ([]*Result, error) {
	if err := e.acquire(syncAllSentinel); err != nil {
		return nil, err
	}
	defer e.release()

	roots, err := e.store.ListRoots()
	if err != nil {
		return nil, err
	}

	var results []*Result
	for _, r := range roots {
		if !r.Connected {
			util.InfoLog("Skipping disconnected root %s", r.Name)
			continue
		}
		res, err := e.syncRoot(ctx, r.ID, progress)
		if err != nil {
			if ctx.Err() != nil {
				return results, err
			}
			util.ErrorLog("Sync of %s failed: %v", r.Name, err)
			continue
		}
		results = append(results, res)
	}
	return results, nil
}

func (e *Engine) syncRoot(ctx context.Context, rootID string, progress ProgressFunc) (*Result, error) {
	root, err := e.store.GetRoot(rootID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("root %s: %w", rootID, util.ErrNotFound)
	}
	if !root.Connected {
		return nil, fmt.Errorf("root %s: %w", root.Name, util.ErrDisconnected)
	}

	src, err := e.sourceFor(root)
	if err != nil {
		return nil, err
	}

	util.InfoLog("Scanning %s", root.Name)
	candidates, err := scan.New(src, rootID).Scan(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		// Local handle loss is durable: keep the cached tracks and flip
		// the root to disconnected until the user reconnects. An
		// unreachable server is transient, so the root's state is left
		// alone and the next sync simply retries.
		if errors.Is(err, util.ErrPermissionDenied) || errors.Is(err, util.ErrNotFound) {
			if derr := e.store.SetRootConnected(rootID, false); derr != nil {
				util.WarnLog("Failed to mark root %s disconnected: %v", root.Name, derr)
			}
		}
		return nil, fmt.Errorf("root %s unreachable: %w", root.Name, err)
	}

	coverStates, err := e.store.CoverStates()
	if err != nil {
		return nil, err
	}

	// Diff against the store without touching a single file
	var pending []scan.Candidate
	res := &Result{RootID: rootID, TotalFiles: len(candidates)}
	for _, c := range candidates {
		fp := util.Fingerprint(c.Entry.Name, c.Entry.Size)
		hasCover, known := coverStates[fp]
		if known && (hasCover || c.Cover == nil) {
			res.Skipped++
			continue
		}
		pending = append(pending, c)
	}
	util.InfoLog("%d files found, %d new", len(candidates), len(pending))

	artistImages := newArtistImageSet()
	processed := res.Skipped
	lastPercent := -1
	report := func() {
		if progress == nil || res.TotalFiles == 0 {
			return
		}
		percent := processed * 100 / res.TotalFiles
		if percent != lastPercent {
			lastPercent = percent
			progress(percent, processed, res.TotalFiles)
		}
	}
	report()

	for start := 0; start < len(pending); start += batchSize {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		end := start + batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		tracks := e.extractBatch(ctx, src, batch, start, artistImages, res)
		if len(tracks) > 0 {
			if err := e.store.UpsertTracks(tracks); err != nil {
				return res, fmt.Errorf("committing batch: %w", err)
			}
			res.Added += len(tracks)
		}

		processed += len(batch)
		report()
	}

	artistImages.flush(e.store)

	trackCount, err := e.store.CountTracksByRoot(rootID)
	if err != nil {
		return res, err
	}
	if err := e.store.UpdateRootStats(rootID, res.TotalFiles, trackCount, time.Now().Unix()); err != nil {
		return res, err
	}

	util.SuccessLog("Synced %s: %d added, %d skipped, %d failed",
		root.Name, res.Added, res.Skipped, res.Failed)
	return res, nil
}

// extractBatch reads one batch concurrently. A failing file is logged and
// counted, never fatal; the rest of the batch still lands. offset is the
// batch's position among all pending candidates, keeping artist-image
// precedence in scan order despite concurrent extraction.
func (e *Engine) extractBatch(ctx context.Context, src source.Source, batch []scan.Candidate, offset int, images *artistImageSet, res *Result) []*store.Track {
	var mu stdsync.Mutex
	var tracks []*store.Track

	p := pool.New().WithMaxGoroutines(batchSize)
	for i, c := range batch {
		p.Go(func() {
			track, err := e.extractOne(ctx, src, c)
			if err != nil {
				util.WarnLog("Skipping %s: %v", c.Entry.Path, err)
				mu.Lock()
				res.Failed++
				mu.Unlock()
				return
			}
			mu.Lock()
			tracks = append(tracks, track)
			if c.ArtistImage != nil {
				images.add(offset+i, track.Artist, c.ArtistImage)
			}
			mu.Unlock()
		})
	}
	p.Wait()
	return tracks
}

func (e *Engine) extractOne(ctx context.Context, src source.Source, c scan.Candidate) (*store.Track, error) {
	f, err := src.Open(ctx, c.Entry.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ex, err := meta.Extract(f, c.Entry.Name, f.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", util.ErrExtractFailed, err)
	}

	track := &store.Track{
		Fingerprint:  util.Fingerprint(c.Entry.Name, c.Entry.Size),
		Name:         ex.Title,
		Artist:       ex.Artist,
		Album:        ex.Album,
		Year:         ex.Year,
		Genre:        ex.Genre,
		DurationMS:   ex.DurationMS,
		Bitrate:      ex.Bitrate,
		Cover:        ex.Cover,
		CoverMIME:    ex.CoverMIME,
		RootID:       c.RootID,
		FileName:     c.Entry.Name,
		RelPath:      c.Entry.Path,
		SizeBytes:    c.Entry.Size,
		LastModified: c.Entry.ModTime.Unix(),
	}

	// An embedded picture beats the folder image; the folder image fills in
	if track.Cover == nil && c.Cover != nil {
		track.Cover = c.Cover
		track.CoverMIME = c.CoverMIME
	}
	return track, nil
}

// artistImageSet collects folder-supplied artist images during a sync,
// one flush at the end. Last write in scan order wins per artist name,
// ordered by candidate position rather than extraction completion.
type artistImageSet struct {
	mu     stdsync.Mutex
	images map[string]orderedImage
}

type orderedImage struct {
	order int
	image []byte
}

func newArtistImageSet() *artistImageSet {
	return &artistImageSet{images: make(map[string]orderedImage)}
}

func (a *artistImageSet) add(order int, artistList string, image []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, name := range meta.SplitArtists(artistList) {
		if prev, ok := a.images[name]; ok && prev.order > order {
			continue
		}
		a.images[name] = orderedImage{order: order, image: image}
	}
}

func (a *artistImageSet) flush(st *store.Store) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for name, img := range a.images {
		if err := st.UpsertArtistImage(name, img.image); err != nil {
			util.WarnLog("Failed to store artist image for %s: %v", name, err)
		}
	}
}
