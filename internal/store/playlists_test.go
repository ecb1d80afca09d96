package store

import (
	"reflect"
	"testing"
)

func TestPlaylistOrderingAndMove(t *testing.T) {
	s := openTestStore(t)

	if err := s.CreatePlaylist(&Playlist{ID: "p1", Name: "Road trip"}); err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}

	for _, fp := range []string{"a-1", "b-2", "c-3", "d-4"} {
		if err := s.AppendPlaylistTrack("p1", fp); err != nil {
			t.Fatalf("append %s failed: %v", fp, err)
		}
	}

	// Appending an existing fingerprint keeps its position
	if err := s.AppendPlaylistTrack("p1", "b-2"); err != nil {
		t.Fatalf("duplicate append failed: %v", err)
	}

	got, err := s.PlaylistFingerprints("p1")
	if err != nil {
		t.Fatalf("PlaylistFingerprints failed: %v", err)
	}
	if want := []string{"a-1", "b-2", "c-3", "d-4"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("initial order = %v, want %v", got, want)
	}

	// Move d before b
	if err := s.MovePlaylistTrack("p1", "d-4", "b-2"); err != nil {
		t.Fatalf("MovePlaylistTrack failed: %v", err)
	}
	got, _ = s.PlaylistFingerprints("p1")
	if want := []string{"a-1", "d-4", "b-2", "c-3"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after move-before = %v, want %v", got, want)
	}

	// Empty target moves to the end
	if err := s.MovePlaylistTrack("p1", "a-1", ""); err != nil {
		t.Fatalf("move to end failed: %v", err)
	}
	got, _ = s.PlaylistFingerprints("p1")
	if want := []string{"d-4", "b-2", "c-3", "a-1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after move-to-end = %v, want %v", got, want)
	}

	// Moving an absent fingerprint fails
	if err := s.MovePlaylistTrack("p1", "nope-0", ""); err == nil {
		t.Error("expected error moving absent fingerprint")
	}
}

func TestPlaylistRemove(t *testing.T) {
	s := openTestStore(t)

	if err := s.CreatePlaylist(&Playlist{ID: "p1", Name: "Mix"}); err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}
	s.AppendPlaylistTrack("p1", "a-1")
	s.AppendPlaylistTrack("p1", "b-2")

	if err := s.RemovePlaylistTrack("p1", "a-1"); err != nil {
		t.Fatalf("RemovePlaylistTrack failed: %v", err)
	}
	got, _ := s.PlaylistFingerprints("p1")
	if len(got) != 1 || got[0] != "b-2" {
		t.Errorf("after remove = %v", got)
	}

	if err := s.DeletePlaylist("p1"); err != nil {
		t.Fatalf("DeletePlaylist failed: %v", err)
	}
	if p, _ := s.GetPlaylist("p1"); p != nil {
		t.Error("playlist still present after delete")
	}
}
