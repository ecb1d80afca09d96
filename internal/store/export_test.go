package store

import (
	"bytes"
	"reflect"
	"testing"
	"time"
)

func TestExportImportRoundTrip(t *testing.T) {
	src := openTestStore(t)

	if err := src.InsertRoot(&Root{ID: "r1", Name: "Local", Kind: RootLocal, Path: "/music", Connected: true}); err != nil {
		t.Fatalf("insert local root: %v", err)
	}
	if err := src.InsertRoot(&Root{ID: "r2", Name: "NAS", Kind: RootWebDAV, BaseURL: "https://dav.example.com", Path: "/music", Username: "u", Password: "p", Connected: true}); err != nil {
		t.Fatalf("insert webdav root: %v", err)
	}

	added := time.Now().Add(-time.Hour).Unix()
	tracks := []*Track{
		{Fingerprint: "a.mp3-1", Name: "A", Artist: "Ann", Album: "First", RootID: "r1", FileName: "a.mp3", SizeBytes: 1, Bitrate: 320000, Cover: []byte{1, 2, 3}, CoverMIME: "image/jpeg", DateAdded: added},
		{Fingerprint: "b.flac-2", Name: "B", Artist: "Ben", Album: "Second", RootID: "r2", FileName: "b.flac", SizeBytes: 2, DateAdded: added},
	}
	if err := src.UpsertTracks(tracks); err != nil {
		t.Fatalf("upsert tracks: %v", err)
	}
	if err := src.UpsertArtistImage("ann", []byte{9, 9}); err != nil {
		t.Fatalf("upsert artist image: %v", err)
	}
	if err := src.CreatePlaylist(&Playlist{ID: "p1", Name: "Mix"}); err != nil {
		t.Fatalf("create playlist: %v", err)
	}
	src.AppendPlaylistTrack("p1", "b.flac-2")
	src.AppendPlaylistTrack("p1", "a.mp3-1")
	src.AppendHistory("a.mp3-1", added)

	var buf bytes.Buffer
	if err := src.Export(&buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	dst := openTestStore(t)
	if err := dst.Import(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("import: %v", err)
	}

	// Track set is reproduced identically
	srcTracks, _ := src.AllTracks()
	dstTracks, _ := dst.AllTracks()
	if !reflect.DeepEqual(srcTracks, dstTracks) {
		t.Errorf("track sets differ:\nsrc: %+v\ndst: %+v", srcTracks, dstTracks)
	}

	// Artist images survive
	img, err := dst.GetArtistImage("ann")
	if err != nil || img == nil {
		t.Fatalf("artist image missing after import: %v", err)
	}
	if !bytes.Equal(img.Image, []byte{9, 9}) {
		t.Error("artist image bytes differ")
	}

	// Playlist order survives
	fps, _ := dst.PlaylistFingerprints("p1")
	if want := []string{"b.flac-2", "a.mp3-1"}; !reflect.DeepEqual(fps, want) {
		t.Errorf("playlist order = %v, want %v", fps, want)
	}

	// Local roots come back disconnected, WebDAV roots stay connected
	local, _ := dst.GetRoot("r1")
	if local == nil || local.Connected {
		t.Error("local root should be disconnected after import")
	}
	remote, _ := dst.GetRoot("r2")
	if remote == nil || !remote.Connected {
		t.Error("webdav root should stay connected after import")
	}

	// History survives
	history, _ := dst.History(0)
	if len(history) != 1 || history[0].Fingerprint != "a.mp3-1" {
		t.Errorf("history = %+v", history)
	}
}

func TestImportRejectsUnknownVersion(t *testing.T) {
	s := openTestStore(t)
	err := s.Import(bytes.NewReader([]byte(`{"version": 99}`)))
	if err == nil {
		t.Fatal("expected error for unknown export version")
	}
}

func TestCoverFileTransient(t *testing.T) {
	s := openTestStore(t)
	testRoot(t, s, "r1")

	if err := s.UpsertTracks([]*Track{
		{Fingerprint: "a.mp3-1", Name: "A", RootID: "r1", FileName: "a.mp3", Cover: []byte{0xff, 0xd8, 0xff}, CoverMIME: "image/jpeg"},
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	path, err := s.CoverFile("a.mp3-1")
	if err != nil {
		t.Fatalf("CoverFile: %v", err)
	}
	if path == "" {
		t.Fatal("expected a cover path")
	}

	// Reads are stable within one process
	again, err := s.CoverFile("a.mp3-1")
	if err != nil || again != path {
		t.Errorf("cover path not stable: %q vs %q (err %v)", path, again, err)
	}

	// The handle never appears in the export document
	var buf bytes.Buffer
	if err := s.Export(&buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte(path)) {
		t.Error("transient cover path leaked into export document")
	}

	// No cover means no handle
	if err := s.UpsertTracks([]*Track{{Fingerprint: "b.mp3-2", Name: "B", RootID: "r1", FileName: "b.mp3"}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	empty, err := s.CoverFile("b.mp3-2")
	if err != nil || empty != "" {
		t.Errorf("expected empty handle for coverless track, got %q (err %v)", empty, err)
	}
}
