package meta

import (
	"reflect"
	"testing"
)

func TestSplitArtists(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"Queen", []string{"Queen"}},
		{"Simon & Garfunkel", []string{"Simon", "Garfunkel"}},
		{"A/B/C", []string{"A", "B", "C"}},
		{"Daft Punk feat. Pharrell Williams", []string{"Daft Punk", "Pharrell Williams"}},
		{"Jay-Z ft. Alicia Keys", []string{"Jay-Z", "Alicia Keys"}},
		{"One, Two; Three", []string{"One", "Two", "Three"}},
		// Pure CJK splits on internal whitespace
		{"周杰伦 王力宏", []string{"周杰伦", "王力宏"}},
		{"周杰伦/王力宏", []string{"周杰伦", "王力宏"}},
		// Latin letters present: whitespace is not a separator
		{"Sigur Ros", []string{"Sigur Ros"}},
		// Duplicates collapse
		{"A & A", []string{"A"}},
	}

	for _, tt := range tests {
		if got := SplitArtists(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitArtists(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeArtists(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Simon & Garfunkel", "Simon/Garfunkel"},
		{"Daft Punk feat. Pharrell Williams", "Daft Punk/Pharrell Williams"},
		{"周杰伦 王力宏", "周杰伦/王力宏"},
		{"Queen", "Queen"},
	}

	for _, tt := range tests {
		if got := NormalizeArtists(tt.raw); got != tt.want {
			t.Errorf("NormalizeArtists(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
