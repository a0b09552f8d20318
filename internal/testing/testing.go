// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/wissl-audio/trill/internal/api"
)

// SamplePlaylist returns a fixed playlist fixture.
func SamplePlaylist() api.Playlist {
	return api.Playlist{
		ID:       3,
		Name:     "Test Playlist",
		User:     1,
		Songs:    2,
		Playtime: 420,
	}
}

// SampleSongs returns a fixed two-song fixture.
func SampleSongs() []api.Song {
	return []api.Song{
		{
			ID:         10,
			Title:      "Song One",
			Position:   1,
			Duration:   180,
			Format:     "audio/mp3",
			AlbumID:    100,
			AlbumName:  "Album One",
			ArtistID:   1000,
			ArtistName: "Artist One",
		},
		{
			ID:         11,
			Title:      "Song Two",
			Position:   2,
			Duration:   240,
			Format:     "audio/ogg",
			AlbumID:    200,
			ArtistID:   2000,
			ArtistName: "Artist Two",
		},
	}
}

// JSONHandler serves a fixed JSON body.
func JSONHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
