package util

import "errors"

// Sentinel errors for the engine's failure taxonomy
var (
	// ErrPermissionDenied indicates a local root's read access was revoked;
	// recoverable by an explicit user reconnect
	ErrPermissionDenied = errors.New("permission denied")

	// ErrSourceUnreachable indicates a WebDAV network or auth failure;
	// recoverable by retry or reconfiguration
	ErrSourceUnreachable = errors.New("source unreachable")

	// ErrExtractFailed indicates metadata extraction failed for one file;
	// the file stays uncached and is retried on the next sync
	ErrExtractFailed = errors.New("metadata extraction failed")

	// ErrDisconnected indicates a root is in the disconnected state and
	// needs an explicit reconnect before it can be synced
	ErrDisconnected = errors.New("root disconnected")

	// ErrSyncInProgress indicates another sync holds the single-flight guard
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrNotFound indicates a required resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig = errors.New("invalid configuration")
)
