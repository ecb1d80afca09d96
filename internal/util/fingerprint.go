package util

import "strconv"

// Fingerprint derives the stable content address for a file from its name
// and byte size. Two files are the same track iff their fingerprints match.
//
// This is a deliberately weak identity: two different files sharing a name
// and size collide. The trade buys scans that never read file content, and
// it keeps the key computable during diffing without any I/O. Playlists,
// history and favorites store fingerprints, so the scheme must stay stable
// across releases.
func Fingerprint(name string, size int64) string {
	return name + "-" + strconv.FormatInt(size, 10)
}
