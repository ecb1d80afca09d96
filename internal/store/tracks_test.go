package store

import (
	"testing"
	"time"
)

func testRoot(t *testing.T, s *Store, id string) *Root {
	t.Helper()
	root := &Root{ID: id, Name: "Music " + id, Kind: RootLocal, Path: "/music/" + id, Connected: true}
	if err := s.InsertRoot(root); err != nil {
		t.Fatalf("failed to insert root: %v", err)
	}
	return root
}

func TestUpsertTracksDedup(t *testing.T) {
	s := openTestStore(t)
	testRoot(t, s, "r1")

	tracks := []*Track{
		{Fingerprint: "a.mp3-100", Name: "A", Artist: "X", RootID: "r1", FileName: "a.mp3", SizeBytes: 100},
		{Fingerprint: "b.mp3-200", Name: "B", Artist: "Y", RootID: "r1", FileName: "b.mp3", SizeBytes: 200},
	}
	if err := s.UpsertTracks(tracks); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	// Re-inserting the same fingerprints must not create duplicates
	if err := s.UpsertTracks(tracks); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	all, err := s.AllTracks()
	if err != nil {
		t.Fatalf("AllTracks failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 tracks after double upsert, got %d", len(all))
	}
}

func TestUpsertTracksPreservesDateAdded(t *testing.T) {
	s := openTestStore(t)
	testRoot(t, s, "r1")

	past := time.Now().Add(-48 * time.Hour).Unix()
	if err := s.UpsertTracks([]*Track{{
		Fingerprint: "a.mp3-100", Name: "A", RootID: "r1", FileName: "a.mp3", DateAdded: past,
	}}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	// A later re-sync updates metadata but must not touch date_added
	if err := s.UpsertTracks([]*Track{{
		Fingerprint: "a.mp3-100", Name: "A (remastered)", RootID: "r1", FileName: "a.mp3",
	}}); err != nil {
		t.Fatalf("re-upsert failed: %v", err)
	}

	got, err := s.TrackByFingerprint("a.mp3-100")
	if err != nil {
		t.Fatalf("TrackByFingerprint failed: %v", err)
	}
	if got == nil {
		t.Fatal("track missing")
	}
	if got.Name != "A (remastered)" {
		t.Errorf("metadata not replaced: %q", got.Name)
	}
	if got.DateAdded != past {
		t.Errorf("date_added overwritten: got %d, want %d", got.DateAdded, past)
	}
}

func TestDeleteTracksByRootCascade(t *testing.T) {
	s := openTestStore(t)
	testRoot(t, s, "r1")
	testRoot(t, s, "r2")

	if err := s.UpsertTracks([]*Track{
		{Fingerprint: "a.mp3-1", Name: "A", RootID: "r1", FileName: "a.mp3"},
		{Fingerprint: "b.mp3-2", Name: "B", RootID: "r1", FileName: "b.mp3"},
		{Fingerprint: "c.mp3-3", Name: "C", RootID: "r2", FileName: "c.mp3"},
	}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	deleted, err := s.DeleteRoot("r1")
	if err != nil {
		t.Fatalf("DeleteRoot failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 cascade-deleted tracks, got %d", deleted)
	}

	all, err := s.AllTracks()
	if err != nil {
		t.Fatalf("AllTracks failed: %v", err)
	}
	if len(all) != 1 || all[0].Fingerprint != "c.mp3-3" {
		t.Errorf("sibling root's tracks affected: %+v", all)
	}

	if root, _ := s.GetRoot("r1"); root != nil {
		t.Error("root r1 still present after delete")
	}
}

func TestSecondaryLookups(t *testing.T) {
	s := openTestStore(t)
	testRoot(t, s, "r1")

	if err := s.UpsertTracks([]*Track{
		{Fingerprint: "a.mp3-1", Name: "A", Artist: "Ann/Ben", Album: "First", RootID: "r1", FileName: "a.mp3"},
		{Fingerprint: "b.mp3-2", Name: "B", Artist: "Ben", Album: "First", RootID: "r1", FileName: "b.mp3"},
		{Fingerprint: "c.mp3-3", Name: "C", Artist: "Cleo", Album: "Second", RootID: "r1", FileName: "c.mp3"},
	}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	byArtist, err := s.TracksByArtist("Ben")
	if err != nil {
		t.Fatalf("TracksByArtist failed: %v", err)
	}
	if len(byArtist) != 2 {
		t.Errorf("expected 2 tracks for Ben (solo + joint), got %d", len(byArtist))
	}

	byAlbum, err := s.TracksByAlbum("First")
	if err != nil {
		t.Fatalf("TracksByAlbum failed: %v", err)
	}
	if len(byAlbum) != 2 {
		t.Errorf("expected 2 tracks on First, got %d", len(byAlbum))
	}

	byRoot, err := s.TracksByRoot("r1")
	if err != nil {
		t.Fatalf("TracksByRoot failed: %v", err)
	}
	if len(byRoot) != 3 {
		t.Errorf("expected 3 tracks for r1, got %d", len(byRoot))
	}
}

func TestCoverStates(t *testing.T) {
	s := openTestStore(t)
	testRoot(t, s, "r1")

	if err := s.UpsertTracks([]*Track{
		{Fingerprint: "a.mp3-1", Name: "A", RootID: "r1", FileName: "a.mp3", Cover: []byte{0xff, 0xd8}, CoverMIME: "image/jpeg"},
		{Fingerprint: "b.mp3-2", Name: "B", RootID: "r1", FileName: "b.mp3"},
	}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	states, err := s.CoverStates()
	if err != nil {
		t.Fatalf("CoverStates failed: %v", err)
	}
	if !states["a.mp3-1"] {
		t.Error("a.mp3-1 should report cover art")
	}
	if states["b.mp3-2"] {
		t.Error("b.mp3-2 should not report cover art")
	}
}

func TestRootStatsAndConnectivity(t *testing.T) {
	s := openTestStore(t)
	testRoot(t, s, "r1")

	now := time.Now().Unix()
	if err := s.UpdateRootStats("r1", 42, 40, now); err != nil {
		t.Fatalf("UpdateRootStats failed: %v", err)
	}
	if err := s.SetRootConnected("r1", false); err != nil {
		t.Fatalf("SetRootConnected failed: %v", err)
	}

	root, err := s.GetRoot("r1")
	if err != nil {
		t.Fatalf("GetRoot failed: %v", err)
	}
	if root.TotalFiles != 42 || root.TrackCount != 40 || root.LastSync != now {
		t.Errorf("stats not persisted: %+v", root)
	}
	if root.Connected {
		t.Error("root should be disconnected")
	}
}
