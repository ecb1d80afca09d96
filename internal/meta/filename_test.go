package meta

import (
	"bytes"
	"testing"
)

func TestParseFilename(t *testing.T) {
	tests := []struct {
		fileName   string
		wantArtist string
		wantTitle  string
		wantTrack  int
	}{
		{"01 - Miles Davis - So What.mp3", "Miles Davis", "So What", 1},
		{"02 - Freddie Freeloader.flac", "", "Freddie Freeloader", 2},
		{"Miles Davis - Blue in Green.mp3", "Miles Davis", "Blue in Green", 0},
		{"All Blues.ogg", "", "All Blues", 0},
		{"夜曲.mp3", "", "夜曲", 0},
	}

	for _, tt := range tests {
		got := ParseFilename(tt.fileName)
		if got.Artist != tt.wantArtist || got.Title != tt.wantTitle || got.Track != tt.wantTrack {
			t.Errorf("ParseFilename(%q) = %+v, want artist=%q title=%q track=%d",
				tt.fileName, got, tt.wantArtist, tt.wantTitle, tt.wantTrack)
		}
	}
}

func TestExtractFallsBackToFilename(t *testing.T) {
	// Bytes with no recognizable tag header force the filename fallback
	r := bytes.NewReader([]byte("not an audio file at all"))

	got, err := Extract(r, "Miles Davis - So What.mp3", "")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got.Title != "So What" {
		t.Errorf("title = %q, want %q", got.Title, "So What")
	}
	if got.Artist != "Miles Davis" {
		t.Errorf("artist = %q, want %q", got.Artist, "Miles Davis")
	}
}

func TestExtractTitleOfLastResort(t *testing.T) {
	r := bytes.NewReader([]byte("garbage"))

	got, err := Extract(r, "untitled.mp3", "")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got.Title != "untitled" {
		t.Errorf("title = %q, want %q", got.Title, "untitled")
	}
}
