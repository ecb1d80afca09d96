package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/franz/tunedex/internal/util"
)

const (
	// UserAgent identifies the engine to WebDAV servers
	UserAgent = "tunedex/1.0"

	// propfindBody requests exactly the properties the scanner needs
	propfindBody = `<?xml version="1.0" encoding="utf-8"?>
<propfind xmlns="DAV:">
  <prop>
    <resourcetype/>
    <getcontentlength/>
    <getlastmodified/>
  </prop>
</propfind>`
)

// WebDAVConfig holds the settings for one WebDAV-backed root
type WebDAVConfig struct {
	BaseURL  string // server URL, e.g. https://dav.example.com
	RootPath string // path under the server, e.g. /music
	Username string // optional, HTTP Basic
	Password string
	CacheDir string // per-root download cache directory
}

// WebDAV reads a root on a WebDAV server. Listing is a PROPFIND with
// Depth 1 per directory; downloads are streamed GETs into the per-root
// cache directory.
type WebDAV struct {
	cfg    WebDAVConfig
	client *http.Client
	retry  *util.RetryConfig
}

// NewWebDAV creates a WebDAV source
func NewWebDAV(cfg WebDAVConfig) *WebDAV {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.RootPath != "" && !strings.HasPrefix(cfg.RootPath, "/") {
		cfg.RootPath = "/" + cfg.RootPath
	}
	return &WebDAV{
		cfg: cfg,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		retry: util.RemoteRetryConfig(),
	}
}

// remotePath builds the server path for a root-relative path
func (w *WebDAV) remotePath(rel string) string {
	p := w.cfg.RootPath
	if rel != "" {
		p = p + "/" + strings.TrimLeft(rel, "/")
	}
	if p == "" {
		p = "/"
	}
	return p
}

func (w *WebDAV) newRequest(ctx context.Context, method, remotePath string, body io.Reader) (*http.Request, error) {
	escaped := (&url.URL{Path: remotePath}).EscapedPath()
	req, err := http.NewRequestWithContext(ctx, method, w.cfg.BaseURL+escaped, body)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", method, err)
	}
	req.Header.Set("User-Agent", UserAgent)
	if w.cfg.Username != "" {
		req.SetBasicAuth(w.cfg.Username, w.cfg.Password)
	}
	return req, nil
}

// propfind issues a Depth-limited PROPFIND and parses the multistatus body
func (w *WebDAV) propfind(ctx context.Context, remotePath string, depth string) ([]davResource, error) {
	return util.RetryWithBackoff(w.retry, func() ([]davResource, error) {
		req, err := w.newRequest(ctx, "PROPFIND", remotePath, strings.NewReader(propfindBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Depth", depth)
		req.Header.Set("Content-Type", "application/xml")

		resp, err := w.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("propfind %s: %v: %w", remotePath, err, util.ErrSourceUnreachable)
		}
		defer resp.Body.Close()

		// Any 2xx counts as success; servers answer 207 Multi-Status
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("propfind %s: status %d: %w",
				remotePath, resp.StatusCode, util.ErrSourceUnreachable)
		}

		resources, err := parseMultistatus(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("propfind %s: %w", remotePath, err)
		}
		return resources, nil
	}, "PROPFIND "+remotePath)
}

// List returns the immediate children of a root-relative directory
func (w *WebDAV) List(ctx context.Context, dir string) ([]Entry, error) {
	remote := w.remotePath(dir)
	resources, err := w.propfind(ctx, remote, "1")
	if err != nil {
		return nil, err
	}

	// hrefs carry the full server path, so self-comparison does too
	requested := remote
	if base, err := url.Parse(w.cfg.BaseURL); err == nil {
		requested = base.Path + remote
	}

	entries := make([]Entry, 0, len(resources))
	for _, res := range resources {
		hrefPath := res.href
		// Some servers answer with absolute URLs instead of paths
		if strings.Contains(hrefPath, "://") {
			if u, err := url.Parse(hrefPath); err == nil {
				hrefPath = u.Path
			}
		}
		if unescaped, err := url.PathUnescape(hrefPath); err == nil {
			hrefPath = unescaped
		}
		// Servers echo the requested collection itself; exclude it
		if normalizeRemotePath(hrefPath) == normalizeRemotePath(requested) {
			continue
		}

		name := path.Base(strings.TrimRight(hrefPath, "/"))
		entries = append(entries, Entry{
			Path:    path.Join(dir, name),
			Name:    name,
			Size:    res.size,
			Dir:     res.collection,
			ModTime: res.modTime,
		})
	}
	return entries, nil
}

// Open downloads a root-relative file into the per-root cache directory and
// opens the cached copy
func (w *WebDAV) Open(ctx context.Context, rel string) (*File, error) {
	cachePath := filepath.Join(w.cfg.CacheDir, SanitizeRelPath(rel))
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	_, err := util.RetryWithBackoff(w.retry, func() (struct{}, error) {
		return struct{}{}, w.download(ctx, rel, cachePath)
	}, "GET "+rel)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(cachePath)
	if err != nil {
		return nil, fmt.Errorf("opening cached download: %w", err)
	}
	return &File{ReadSeekCloser: f, LocalPath: cachePath}, nil
}

func (w *WebDAV) download(ctx context.Context, rel, cachePath string) error {
	req, err := w.newRequest(ctx, http.MethodGet, w.remotePath(rel), nil)
	if err != nil {
		return err
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %v: %w", rel, err, util.ErrSourceUnreachable)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("get %s: %w", rel, util.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("get %s: status %d: %w", rel, resp.StatusCode, util.ErrSourceUnreachable)
	}

	// Stream through a temp file so partial downloads never look cached
	tmp, err := os.CreateTemp(filepath.Dir(cachePath), ".download-*")
	if err != nil {
		return fmt.Errorf("creating download temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("downloading %s: %v: %w", rel, err, util.ErrSourceUnreachable)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing download temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), cachePath); err != nil {
		return fmt.Errorf("placing cached download: %w", err)
	}
	return nil
}

// TestConnection checks the remote root answers a Depth-0 PROPFIND
func (w *WebDAV) TestConnection(ctx context.Context) ConnResult {
	_, err := w.propfind(ctx, w.remotePath(""), "0")
	if err != nil {
		return ConnResult{Success: false, Message: err.Error()}
	}
	return ConnResult{Success: true, Message: "server reachable"}
}

// ClearCache removes the per-root download cache directory
func (w *WebDAV) ClearCache() error {
	if w.cfg.CacheDir == "" {
		return nil
	}
	if err := os.RemoveAll(w.cfg.CacheDir); err != nil {
		return fmt.Errorf("clearing download cache: %w", err)
	}
	return nil
}

func normalizeRemotePath(p string) string {
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	return p
}

// davResource is one response entry from a multistatus body
type davResource struct {
	href       string
	size       int64
	collection bool
	modTime    time.Time
}

// parseMultistatus walks a multistatus XML document tolerantly: tags are
// matched by local name only, so any namespace prefix (D:, d:, lp1:, none)
// works.
func parseMultistatus(r io.Reader) ([]davResource, error) {
	decoder := xml.NewDecoder(r)

	var resources []davResource
	var current davResource
	var inResponse, inResourceType bool
	var textTarget string

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing multistatus: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch strings.ToLower(t.Name.Local) {
			case "response":
				inResponse = true
				current = davResource{}
			case "href", "getcontentlength", "getlastmodified":
				if inResponse {
					textTarget = strings.ToLower(t.Name.Local)
				}
			case "resourcetype":
				inResourceType = true
			case "collection":
				if inResourceType {
					current.collection = true
				}
			}
		case xml.EndElement:
			switch strings.ToLower(t.Name.Local) {
			case "response":
				if inResponse && current.href != "" {
					resources = append(resources, current)
				}
				inResponse = false
			case "resourcetype":
				inResourceType = false
			case "href", "getcontentlength", "getlastmodified":
				textTarget = ""
			}
		case xml.CharData:
			if !inResponse || textTarget == "" {
				continue
			}
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}
			switch textTarget {
			case "href":
				current.href += text
			case "getcontentlength":
				if size, err := strconv.ParseInt(text, 10, 64); err == nil {
					current.size = size
				}
			case "getlastmodified":
				if mod, err := http.ParseTime(text); err == nil {
					current.modTime = mod
				}
			}
		}
	}

	return resources, nil
}
