package meta

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	featPattern      = regexp.MustCompile(`(?i)\s+(?:feat\.|ft\.)\s*`)
	separatorPattern = regexp.MustCompile(`[/&,;]`)
)

// SplitArtists splits a raw artist tag into individual performers. The
// separators are "/", "&", ",", ";", "feat." and "ft."; artist strings
// written entirely without Latin letters (CJK names) additionally split on
// internal whitespace, so "周杰伦 王力宏" yields two performers.
func SplitArtists(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	normalized := featPattern.ReplaceAllString(raw, "/")
	tokens := separatorPattern.Split(normalized, -1)

	splitOnSpace := isPureCJK(raw)

	var artists []string
	seen := make(map[string]bool)
	appendArtist := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		artists = append(artists, name)
	}

	for _, token := range tokens {
		if splitOnSpace {
			for _, part := range strings.Fields(token) {
				appendArtist(part)
			}
			continue
		}
		appendArtist(token)
	}

	return artists
}

// NormalizeArtists canonicalizes a raw artist tag into the "/"-joined
// performer list stored on tracks
func NormalizeArtists(raw string) string {
	return strings.Join(SplitArtists(raw), "/")
}

// isPureCJK reports whether s contains CJK characters and no Latin letters
func isPureCJK(s string) bool {
	hasCJK := false
	for _, r := range s {
		if unicode.In(r, unicode.Latin) {
			return false
		}
		if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) {
			hasCJK = true
		}
	}
	return hasCJK
}
