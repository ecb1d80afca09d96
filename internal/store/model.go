package store

// Root kinds. A root is either local-directory-backed or WebDAV-backed,
// never both.
const (
	RootLocal  = "local"
	RootWebDAV = "webdav"
)

// Root represents one registered scan root
type Root struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Path       string `json:"path,omitempty"`    // local directory, or remote sub-path
	BaseURL    string `json:"baseUrl,omitempty"` // WebDAV only
	Username   string `json:"username,omitempty"`
	Password   string `json:"password,omitempty"`
	TotalFiles int    `json:"totalFiles"`
	TrackCount int    `json:"trackCount"`
	LastSync   int64  `json:"lastSync"`
	Connected  bool   `json:"connected"`
}

// Track is the unit of identity, keyed by fingerprint
type Track struct {
	Fingerprint  string `json:"fingerprint"`
	Name         string `json:"name"`
	Artist       string `json:"artist"` // "/"-joined list of performers
	Album        string `json:"album"`
	Year         int    `json:"year,omitempty"`
	Genre        string `json:"genre,omitempty"`
	DurationMS   int    `json:"durationMs,omitempty"`
	Bitrate      int    `json:"bitrate,omitempty"`
	Cover        []byte `json:"cover,omitempty"`
	CoverMIME    string `json:"coverMime,omitempty"`
	RootID       string `json:"folderId"`
	FileName     string `json:"fileName"`
	RelPath      string `json:"relPath"`
	SizeBytes    int64  `json:"sizeBytes"`
	LastModified int64  `json:"lastModified"`
	DateAdded    int64  `json:"dateAdded"`
}

// HasCover reports whether the track carries cover art
func (t *Track) HasCover() bool {
	return len(t.Cover) > 0
}

// ArtistImage is a supplemental cover image keyed by normalized artist name
type ArtistImage struct {
	Name      string `json:"name"`
	Image     []byte `json:"image"`
	UpdatedAt int64  `json:"updatedAt"`
}

// Playlist is an ordered sequence of fingerprints
type Playlist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HistoryEntry records one playback, by fingerprint
type HistoryEntry struct {
	Fingerprint string `json:"fingerprint"`
	PlayedAt    int64  `json:"playedAt"`
}
