// Package store implements the on-disk index: a badger-backed posting store
// per segment, track metadata (badger-backed by default, optionally Mongo),
// and the JSON manifest tying segments together.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// SegmentParams are the DSP parameters a segment was built with; compacting
// or querying across segments requires them to match.
type SegmentParams struct {
	SampleRate int `json:"sampleRate"`
	FrameSize  int `json:"frameSize"`
	HopSize    int `json:"hopSize"`
	Algorithm  int `json:"algorithm"`
}

// SegmentInfo is one manifest entry: where a segment's badger directory
// lives and what it was built with.
type SegmentInfo struct {
	Path      string        `json:"path"`
	CreatedAt time.Time     `json:"createdAt"`
	NumTracks int           `json:"numTracks"`
	Params    SegmentParams `json:"params"`
}

// Manifest lists the segments making up an index, mirroring the teacher's
// append-only segment manifest.
type Manifest struct {
	Segments []SegmentInfo `json:"segments"`
	Params   SegmentParams `json:"params"`
}

func LoadManifest(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("store: parse manifest: %w", err)
	}
	return &m, nil
}

func SaveManifest(path string, m *Manifest) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode manifest: %w", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("store: write manifest: %w", err)
	}
	return nil
}

// AppendSegment adds a segment to the manifest, validating that its
// parameters match any segments already present.
func (m *Manifest) AppendSegment(info SegmentInfo) error {
	if len(m.Segments) == 0 && m.Params == (SegmentParams{}) {
		m.Params = info.Params
	} else if m.Params != info.Params {
		return fmt.Errorf("store: segment params %+v don't match manifest params %+v", info.Params, m.Params)
	}
	m.Segments = append(m.Segments, info)
	return nil
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
