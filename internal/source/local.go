package source

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/franz/tunedex/internal/util"
)

// Local reads a root backed by a local directory. Access can be revoked
// between sessions (directory deleted, permissions dropped, external drive
// gone), so every operation re-validates readability and reports
// util.ErrPermissionDenied or util.ErrNotFound instead of surfacing raw
// filesystem errors; the sync engine flips the root to disconnected on
// either outcome.
type Local struct {
	fs     afero.Fs
	root   string
	realFS bool
}

// NewLocal creates a local source over the operating system filesystem
func NewLocal(root string) *Local {
	return &Local{fs: afero.NewOsFs(), root: root, realFS: true}
}

// NewLocalWithFs creates a local source over an injected filesystem, used
// by tests
func NewLocalWithFs(fs afero.Fs, root string) *Local {
	return &Local{fs: fs, root: root}
}

// checkAccess re-validates the read grant on the root directory
func (l *Local) checkAccess() error {
	info, err := l.fs.Stat(l.root)
	if err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("root %s: %w", l.root, util.ErrPermissionDenied)
		}
		if os.IsNotExist(err) {
			return fmt.Errorf("root %s: %w", l.root, util.ErrNotFound)
		}
		return fmt.Errorf("root %s: %w", l.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %s is not a directory: %w", l.root, util.ErrNotFound)
	}
	return nil
}

func (l *Local) abs(rel string) string {
	return filepath.Join(l.root, filepath.FromSlash(rel))
}

// List returns the immediate children of a root-relative directory
func (l *Local) List(ctx context.Context, dir string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := l.checkAccess(); err != nil {
		return nil, err
	}

	infos, err := afero.ReadDir(l.fs, l.abs(dir))
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("listing %s: %w", dir, util.ErrPermissionDenied)
		}
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, Entry{
			Path:    path.Join(dir, info.Name()),
			Name:    info.Name(),
			Size:    info.Size(),
			Dir:     info.IsDir(),
			ModTime: info.ModTime(),
		})
	}
	return entries, nil
}

// Open opens a root-relative file for reading
func (l *Local) Open(ctx context.Context, rel string) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := l.checkAccess(); err != nil {
		return nil, err
	}

	abs := l.abs(rel)
	f, err := l.fs.Open(abs)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("opening %s: %w", rel, util.ErrPermissionDenied)
		}
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("opening %s: %w", rel, util.ErrNotFound)
		}
		return nil, fmt.Errorf("opening %s: %w", rel, err)
	}

	file := &File{ReadSeekCloser: f}
	if l.realFS {
		file.LocalPath = abs
	}
	return file, nil
}

// TestConnection verifies the root directory is present and readable
func (l *Local) TestConnection(ctx context.Context) ConnResult {
	if err := l.checkAccess(); err != nil {
		return ConnResult{Success: false, Message: err.Error()}
	}
	if _, err := afero.ReadDir(l.fs, l.root); err != nil {
		return ConnResult{Success: false, Message: fmt.Sprintf("root not readable: %v", err)}
	}
	return ConnResult{Success: true, Message: "root readable"}
}
