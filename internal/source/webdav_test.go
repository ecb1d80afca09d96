package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const musicMultistatus = `<?xml version="1.0" encoding="utf-8"?>
<D:multistatus xmlns:D="DAV:">
  <D:response>
    <D:href>/dav/music/</D:href>
    <D:propstat>
      <D:prop><D:resourcetype><D:collection/></D:resourcetype></D:prop>
      <D:status>HTTP/1.1 200 OK</D:status>
    </D:propstat>
  </D:response>
  <D:response>
    <D:href>/dav/music/Album/</D:href>
    <D:propstat>
      <D:prop><D:resourcetype><D:collection/></D:resourcetype></D:prop>
      <D:status>HTTP/1.1 200 OK</D:status>
    </D:propstat>
  </D:response>
  <D:response>
    <D:href>/dav/music/song.mp3</D:href>
    <D:propstat>
      <D:prop>
        <D:resourcetype/>
        <D:getcontentlength>4096</D:getcontentlength>
        <D:getlastmodified>Tue, 05 Mar 2024 10:00:00 GMT</D:getlastmodified>
      </D:prop>
      <D:status>HTTP/1.1 200 OK</D:status>
    </D:propstat>
  </D:response>
</D:multistatus>`

// prefix-free variant of the same listing, as some servers emit it
const noPrefixMultistatus = `<?xml version="1.0" encoding="utf-8"?>
<multistatus xmlns="DAV:">
  <response>
    <href>/dav/music/</href>
    <propstat><prop><resourcetype><collection/></resourcetype></prop></propstat>
  </response>
  <response>
    <href>/dav/music/song.mp3</href>
    <propstat><prop><resourcetype/><getcontentlength>4096</getcontentlength></prop></propstat>
  </response>
</multistatus>`

func davServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "PROPFIND":
			if r.Header.Get("Depth") == "" {
				http.Error(w, "missing Depth header", http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(207)
			fmt.Fprint(w, musicMultistatus)
		case http.MethodGet:
			if strings.HasSuffix(r.URL.Path, "song.mp3") {
				fmt.Fprint(w, "mp3-bytes")
				return
			}
			http.NotFound(w, r)
		default:
			http.Error(w, "bad method", http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestWebDAVListExcludesSelf(t *testing.T) {
	server := davServer(t)
	src := NewWebDAV(WebDAVConfig{
		BaseURL:  server.URL + "/dav",
		RootPath: "/music",
		CacheDir: t.TempDir(),
	})

	entries, err := src.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	// The requested collection itself must not appear in its own listing
	for _, e := range entries {
		if e.Name == "music" {
			t.Errorf("self-reference leaked into listing: %+v", e)
		}
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(entries), entries)
	}

	byName := map[string]Entry{}
	for _, e := range entries {
		byName[e.Name] = e
	}
	if e := byName["Album"]; !e.Dir {
		t.Errorf("Album should be a collection: %+v", e)
	}
	song := byName["song.mp3"]
	if song.Dir || song.Size != 4096 {
		t.Errorf("song.mp3 entry wrong: %+v", song)
	}
	if song.ModTime.IsZero() {
		t.Error("song.mp3 should carry a last-modified time")
	}
}

func TestParseMultistatusNamespaceAgnostic(t *testing.T) {
	resources, err := parseMultistatus(strings.NewReader(noPrefixMultistatus))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(resources) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(resources))
	}
	if !resources[0].collection {
		t.Error("first resource should be a collection")
	}
	if resources[1].collection || resources[1].size != 4096 {
		t.Errorf("second resource wrong: %+v", resources[1])
	}
}

func TestWebDAVOpenDownloadsToCache(t *testing.T) {
	server := davServer(t)
	cacheDir := t.TempDir()
	src := NewWebDAV(WebDAVConfig{
		BaseURL:  server.URL + "/dav",
		RootPath: "/music",
		CacheDir: cacheDir,
	})

	f, err := src.Open(context.Background(), "song.mp3")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "mp3-bytes" {
		t.Errorf("downloaded %q", data)
	}

	if f.LocalPath == "" || !strings.HasPrefix(f.LocalPath, cacheDir) {
		t.Errorf("download should land in the cache dir, got %q", f.LocalPath)
	}
	if _, err := os.Stat(f.LocalPath); err != nil {
		t.Errorf("cached file missing: %v", err)
	}

	// ClearCache wipes the per-root directory
	if err := src.ClearCache(); err != nil {
		t.Fatalf("ClearCache failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cacheDir, "song.mp3")); !os.IsNotExist(err) {
		t.Error("cache should be empty after ClearCache")
	}
}

func TestWebDAVTestConnection(t *testing.T) {
	server := davServer(t)
	src := NewWebDAV(WebDAVConfig{
		BaseURL:  server.URL + "/dav",
		RootPath: "/music",
		CacheDir: t.TempDir(),
	})

	result := src.TestConnection(context.Background())
	if !result.Success {
		t.Errorf("TestConnection failed: %s", result.Message)
	}
}

func TestWebDAVTestConnectionAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "auth required", http.StatusUnauthorized)
	}))
	defer server.Close()

	src := NewWebDAV(WebDAVConfig{
		BaseURL:  server.URL,
		RootPath: "/music",
		CacheDir: t.TempDir(),
	})

	// Failures come back as a structured result, never a panic or raw error
	result := src.TestConnection(context.Background())
	if result.Success {
		t.Error("expected failure against 401 server")
	}
	if !strings.Contains(result.Message, "401") {
		t.Errorf("message should carry the status: %q", result.Message)
	}
}

func TestWebDAVBasicAuthSent(t *testing.T) {
	var gotUser, gotPass string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		w.WriteHeader(207)
		fmt.Fprint(w, musicMultistatus)
	}))
	defer server.Close()

	src := NewWebDAV(WebDAVConfig{
		BaseURL:  server.URL + "/dav",
		RootPath: "/music",
		Username: "franz",
		Password: "secret",
		CacheDir: t.TempDir(),
	})

	if _, err := src.List(context.Background(), ""); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if gotUser != "franz" || gotPass != "secret" {
		t.Errorf("basic auth not sent: %q/%q", gotUser, gotPass)
	}
}

func TestSanitizeRelPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Album/song.mp3", filepath.Join("Album", "song.mp3")},
		{"/Album/song.mp3", filepath.Join("Album", "song.mp3")},
		{`bad<>:"|?*seg/song.mp3`, filepath.Join("badseg", "song.mp3")},
		{"a/../b/song.mp3", filepath.Join("a", "b", "song.mp3")},
		{"", "unnamed"},
	}
	for _, tt := range tests {
		if got := SanitizeRelPath(tt.in); got != tt.want {
			t.Errorf("SanitizeRelPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	// Deep paths keep only the last 12 segments
	deep := strings.Repeat("d/", 20) + "song.mp3"
	got := SanitizeRelPath(deep)
	if n := len(strings.Split(got, string(filepath.Separator))); n != 12 {
		t.Errorf("deep path kept %d segments, want 12", n)
	}
}
