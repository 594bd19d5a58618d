package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadTrackMetaFallsBackOnUntaggedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.wav")
	if err := os.WriteFile(path, []byte("not a tagged audio file"), 0644); err != nil {
		t.Fatal(err)
	}

	meta := readTrackMeta(path)
	if meta.Artist != "Unknown" || meta.Album != "Unknown" {
		t.Errorf("got %+v, want Unknown artist/album for an untagged file", meta)
	}
	if meta.Title != path {
		t.Errorf("Title = %q, want the file path as a fallback", meta.Title)
	}
}

func TestReadTrackMetaFallsBackOnMissingFile(t *testing.T) {
	meta := readTrackMeta("/nonexistent/path/track.wav")
	if meta.Artist != "Unknown" {
		t.Errorf("Artist = %q, want Unknown for a file that can't be opened", meta.Artist)
	}
}
