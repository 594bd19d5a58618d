package main

import (
	"os"
	"time"

	"github.com/dhowden/tag"
	"github.com/pkg/errors"

	"github.com/afsispa/fprint/internal/store"
	"github.com/afsispa/fprint/pkg/chromaprint"
)

// fingerprintFile runs one WAV file through a private Context (no shared
// state with any other worker) and returns its raw fingerprint, SimHash,
// and whatever embedded tag metadata it can read.
func fingerprintFile(path string, algorithm int) (raw []uint32, simhash uint32, duration float64, meta store.TrackMeta, err error) {
	pcm, err := readWAV(path)
	if err != nil {
		return nil, 0, 0, store.TrackMeta{}, err
	}

	ctx, err := chromaprint.New(algorithm)
	if err != nil {
		return nil, 0, 0, store.TrackMeta{}, errors.Wrap(err, "new context")
	}
	if err := ctx.Start(pcm.SampleRate, pcm.Channels); err != nil {
		return nil, 0, 0, store.TrackMeta{}, errors.Wrapf(err, "start %s", path)
	}
	if err := ctx.Feed(pcm.Samples); err != nil {
		return nil, 0, 0, store.TrackMeta{}, errors.Wrapf(err, "feed %s", path)
	}
	if err := ctx.Finish(); err != nil {
		return nil, 0, 0, store.TrackMeta{}, errors.Wrapf(err, "finish %s", path)
	}

	raw = ctx.GetRawFingerprint()
	simhash = ctx.GetFingerprintHash()
	duration = float64(len(pcm.Samples)/pcm.Channels) / float64(pcm.SampleRate)

	meta = readTrackMeta(path)
	meta.Path = path
	meta.Duration = time.Duration(duration * float64(time.Second))
	return raw, simhash, duration, meta, nil
}

// readTrackMeta extracts embedded Artist/Album/Title tags, falling back to
// "Unknown" fields exactly as the teacher's parseMetaFromPath does for
// files with no usable tag.
func readTrackMeta(path string) store.TrackMeta {
	meta := store.TrackMeta{Artist: "Unknown", Album: "Unknown", Title: path}

	f, err := os.Open(path)
	if err != nil {
		return meta
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return meta
	}
	if artist := m.Artist(); artist != "" {
		meta.Artist = artist
	}
	if album := m.Album(); album != "" {
		meta.Album = album
	}
	if title := m.Title(); title != "" {
		meta.Title = title
	}
	return meta
}
