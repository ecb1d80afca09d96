package source

import (
	"path/filepath"
	"regexp"
	"strings"
)

// maxCachePathSegments caps how much remote directory structure a cache
// path mirrors
const maxCachePathSegments = 12

var illegalPathChars = regexp.MustCompile(`[<>:"\\|?*\x00-\x1f]`)

// SanitizeRelPath maps a remote path onto a filesystem-safe relative path
// for the download cache: illegal characters are stripped from each
// segment and only the last 12 segments are kept, so deeply nested remotes
// cannot produce unbounded cache paths.
func SanitizeRelPath(remote string) string {
	segments := strings.Split(strings.Trim(remote, "/"), "/")

	cleaned := make([]string, 0, len(segments))
	for _, segment := range segments {
		segment = illegalPathChars.ReplaceAllString(segment, "")
		segment = strings.TrimSpace(segment)
		if segment == "" || segment == "." || segment == ".." {
			continue
		}
		cleaned = append(cleaned, segment)
	}

	if len(cleaned) > maxCachePathSegments {
		cleaned = cleaned[len(cleaned)-maxCachePathSegments:]
	}
	if len(cleaned) == 0 {
		return "unnamed"
	}

	return filepath.Join(cleaned...)
}
