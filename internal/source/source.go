// Package source abstracts the storage a library root lives on. A root is
// either a local directory or a WebDAV remote; the variant is chosen
// explicitly at registration time and implements one capability set.
package source

import (
	"context"
	"io"
	"time"
)

// Entry describes one file or directory under a root. Paths are
// root-relative and "/"-separated regardless of the source variant.
type Entry struct {
	Path    string
	Name    string
	Size    int64
	Dir     bool
	ModTime time.Time
}

// ConnResult is the structured outcome of a connection test. Diagnosable
// failures land in Message instead of an error so callers can render them
// inline.
type ConnResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// File is an open handle to a source file's bytes. LocalPath is the
// on-disk location when one exists (real local files, remote cache
// downloads); it is empty for purely in-memory filesystems.
type File struct {
	io.ReadSeekCloser
	LocalPath string
}

// Source enumerates and reads the files under one root
type Source interface {
	// List returns the immediate children of a root-relative directory
	// ("" is the root itself)
	List(ctx context.Context, dir string) ([]Entry, error)

	// Open returns the file's bytes. Remote variants download into their
	// per-root cache first.
	Open(ctx context.Context, path string) (*File, error)

	// TestConnection verifies the root is reachable and readable
	TestConnection(ctx context.Context) ConnResult
}
