package sync

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/franz/tunedex/internal/store"
	"github.com/franz/tunedex/internal/util"
)

// watchDebounce is how long the watcher waits after the last filesystem
// event before re-syncing, so a bulk copy lands as one sync.
const watchDebounce = 2 * time.Second

// Watch re-syncs a local root whenever its directory tree changes.
// It blocks until ctx is canceled. Remote roots cannot be watched.
func (e *Engine) Watch(ctx context.Context, rootID string, progress ProgressFunc) error {
	root, err := e.store.GetRoot(rootID)
	if err != nil {
		return err
	}
	if root == nil {
		return util.ErrNotFound
	}
	if root.Kind != store.RootLocal {
		return util.ErrInvalidConfig
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addDirTree(watcher, root.Path); err != nil {
		return err
	}

	util.InfoLog("Watching %s", root.Path)

	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				// New directories need their own watch before files land
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addDirTree(watcher, event.Name); err != nil {
						util.WarnLog("Failed to watch %s: %v", event.Name, err)
					}
				}
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
				pending = timer.C
			} else {
				timer.Reset(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			util.WarnLog("Watch error: %v", err)

		case <-pending:
			timer = nil
			pending = nil
			if _, err := e.SyncRoot(ctx, rootID, progress); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				util.ErrorLog("Watch sync failed: %v", err)
			}
		}
	}
}

func addDirTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			util.WarnLog("Skipping unwatchable %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
