package match

import (
	"strings"

	"github.com/franz/tunedex/internal/meta"
	"github.com/franz/tunedex/internal/store"
)

// Title scores. Exact mode only ever awards scoreExact; fuzzy mode adds
// the substring tiers below it.
const (
	scoreNone     = 0
	scoreContains = 1
	scorePrefix   = 2
	scoreExact    = 3
)

// Result pairs the tracks a text block resolved to with the lines that
// resolved to nothing. Consumed once, never persisted.
type Result struct {
	Matched   []*store.Track
	Unmatched []string
}

// Matcher resolves free-text track lines against a snapshot of the
// library. It reads the snapshot it was built with and never mutates
// the store.
type Matcher struct {
	tracks   []*store.Track
	byArtist map[string][]*store.Track
}

// NewMatcher builds a matcher over the given tracks. Duplicate
// fingerprints are dropped and the artist index is keyed on each
// individual performer.
func NewMatcher(tracks []*store.Track) *Matcher {
	m := &Matcher{byArtist: make(map[string][]*store.Track)}
	seen := make(map[string]bool, len(tracks))
	for _, t := range tracks {
		if seen[t.Fingerprint] {
			continue
		}
		seen[t.Fingerprint] = true
		m.tracks = append(m.tracks, t)
		for _, name := range meta.SplitArtists(t.Artist) {
			key := normalize(name)
			m.byArtist[key] = append(m.byArtist[key], t)
		}
	}
	return m
}

// MatchText resolves each non-empty line of text to at most one track.
// Lines may be bare titles or "Title - Artist"; the last separator wins,
// so titles containing " - " still parse. Duplicate matches across lines
// are collapsed; lines that resolve to nothing come back verbatim.
func (m *Matcher) MatchText(text string, fuzzy bool) *Result {
	res := &Result{}
	matched := make(map[string]bool)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		track := m.matchLine(line, fuzzy)
		if track == nil {
			res.Unmatched = append(res.Unmatched, line)
			continue
		}
		if matched[track.Fingerprint] {
			continue
		}
		matched[track.Fingerprint] = true
		res.Matched = append(res.Matched, track)
	}
	return res
}

// key normalizes for comparison; fuzzy additionally folds Traditional
// Chinese onto Simplified so the two scripts compare equal.
func key(s string, fuzzy bool) string {
	s = normalize(s)
	if fuzzy {
		s = foldSimplified(s)
	}
	return s
}

func (m *Matcher) matchLine(line string, fuzzy bool) *store.Track {
	title, artist := splitLine(line)

	candidates := m.tracks
	if artist != "" {
		candidates = m.candidatesForArtists(artist, fuzzy)
	}

	var best *store.Track
	bestScore := scoreNone
	titleKey := key(title, fuzzy)
	for _, t := range candidates {
		score := titleScore(key(t.Name, fuzzy), titleKey, fuzzy)
		if score == scoreNone {
			continue
		}
		if score > bestScore || (score == bestScore && t.Bitrate > best.Bitrate) {
			best = t
			bestScore = score
		}
	}
	return best
}

// splitLine parses "Title - Artist" at the last separator; a line with
// no separator is all title.
func splitLine(line string) (title, artist string) {
	if i := strings.LastIndex(line, " - "); i >= 0 {
		return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+3:])
	}
	return line, ""
}

// candidatesForArtists narrows via the artist index, then requires every
// input artist token to appear in the candidate's performer list.
func (m *Matcher) candidatesForArtists(artist string, fuzzy bool) []*store.Track {
	tokens := meta.SplitArtists(artist)
	if len(tokens) == 0 {
		return nil
	}
	tokenKeys := make([]string, len(tokens))
	for i, tok := range tokens {
		tokenKeys[i] = key(tok, fuzzy)
	}

	var narrowed []*store.Track
	seen := make(map[string]bool)
	for name, tracks := range m.byArtist {
		if !strings.Contains(key(name, fuzzy), tokenKeys[0]) {
			continue
		}
		for _, t := range tracks {
			if !seen[t.Fingerprint] {
				seen[t.Fingerprint] = true
				narrowed = append(narrowed, t)
			}
		}
	}

	var out []*store.Track
	for _, t := range narrowed {
		artistKey := key(t.Artist, fuzzy)
		all := true
		for _, tk := range tokenKeys {
			if !strings.Contains(artistKey, tk) {
				all = false
				break
			}
		}
		if all {
			out = append(out, t)
		}
	}
	return out
}

func titleScore(candidate, query string, fuzzy bool) int {
	if candidate == query {
		return scoreExact
	}
	if !fuzzy {
		return scoreNone
	}
	if strings.HasPrefix(candidate, query) {
		return scorePrefix
	}
	if strings.Contains(candidate, query) {
		return scoreContains
	}
	return scoreNone
}
