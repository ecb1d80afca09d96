package meta

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// FilenameMeta holds metadata parsed from a file name
type FilenameMeta struct {
	Artist string
	Title  string
	Track  int
}

var filenamePatterns = []struct {
	re    *regexp.Regexp
	parse func(*FilenameMeta, []string)
}{
	{
		// Pattern: "01 - Artist - Title.mp3"
		re: regexp.MustCompile(`^(\d+)\s*[-_.]\s*(.+?)\s*-\s*(.+)$`),
		parse: func(m *FilenameMeta, matches []string) {
			m.Track, _ = strconv.Atoi(matches[1])
			m.Artist = strings.TrimSpace(matches[2])
			m.Title = strings.TrimSpace(matches[3])
		},
	},
	{
		// Pattern: "01 - Title.mp3"
		re: regexp.MustCompile(`^(\d+)\s*[-_.]\s*(.+)$`),
		parse: func(m *FilenameMeta, matches []string) {
			m.Track, _ = strconv.Atoi(matches[1])
			m.Title = strings.TrimSpace(matches[2])
		},
	},
	{
		// Pattern: "Artist - Title.mp3"
		re: regexp.MustCompile(`^(.+?)\s+-\s+(.+)$`),
		parse: func(m *FilenameMeta, matches []string) {
			m.Artist = strings.TrimSpace(matches[1])
			m.Title = strings.TrimSpace(matches[2])
		},
	},
}

// ParseFilename attempts to extract metadata from a file name. The bare
// name (extension stripped) is the title of last resort, so the result
// always carries a title.
func ParseFilename(fileName string) *FilenameMeta {
	base := filepath.Base(fileName)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	meta := &FilenameMeta{}
	for _, p := range filenamePatterns {
		matches := p.re.FindStringSubmatch(name)
		if matches == nil {
			continue
		}
		p.parse(meta, matches)
		if meta.Title != "" {
			return meta
		}
	}

	meta.Title = strings.TrimSpace(name)
	return meta
}
