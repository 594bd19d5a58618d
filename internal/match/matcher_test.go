package match

import (
	"math/rand"
	"testing"

	"github.com/afsispa/fprint/internal/config"
	"github.com/afsispa/fprint/internal/fingerprint"
)

func randomFP(algorithm, n int, seed int64) fingerprint.Fingerprint {
	rng := rand.New(rand.NewSource(seed))
	items := make([]fingerprint.SubFingerprint, n)
	for i := range items {
		items[i] = fingerprint.SubFingerprint(rng.Uint32())
	}
	return fingerprint.Fingerprint{Algorithm: algorithm, Items: items}
}

func TestMatchRejectsAlgorithmMismatch(t *testing.T) {
	a := randomFP(0, 200, 1)
	b := randomFP(1, 200, 2)
	if _, err := Match(a, b); err == nil {
		t.Error("expected an error for mismatched algorithm ids")
	}
}

func TestMatchIdenticalFingerprintsYieldOneFullSegment(t *testing.T) {
	a := randomFP(0, 200, 42)
	b := fingerprint.Fingerprint{Algorithm: 0, Items: append([]fingerprint.SubFingerprint{}, a.Items...)}

	segments, err := Match(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(segments))
	}
	s := segments[0]
	if s.Pos1 != 0 || s.Pos2 != 0 || s.Duration != 200 || s.Score != 100 {
		t.Errorf("segment = %+v, want (0,0,200,100)", s)
	}
}

func TestMatchOffsetWithNoiseYieldsHighScoringShiftedSegment(t *testing.T) {
	a := randomFP(0, 300, 7)
	rng := rand.New(rand.NewSource(99))

	shift := 50
	items := make([]fingerprint.SubFingerprint, len(a.Items)+shift)
	for i := range items {
		if i < shift {
			items[i] = fingerprint.SubFingerprint(rng.Uint32())
			continue
		}
		word := uint32(a.Items[i-shift])
		// Flip two fixed bits to simulate ~2 bits/item of noise.
		word ^= 1<<3 | 1<<17
		items[i] = fingerprint.SubFingerprint(word)
	}
	b := fingerprint.Fingerprint{Algorithm: 0, Items: items}

	segments, err := Match(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if len(segments) == 0 {
		t.Fatal("expected at least one segment for a shifted, lightly noised fingerprint")
	}
	best := segments[0]
	for _, s := range segments {
		if s.Score > best.Score {
			best = s
		}
	}
	if best.Pos2 != 0 {
		t.Errorf("best segment Pos2 = %d, want 0", best.Pos2)
	}
	if best.Pos1 < shift-5 || best.Pos1 > shift+5 {
		t.Errorf("best segment Pos1 = %d, want near %d", best.Pos1, shift)
	}
	if best.Score < 85 {
		t.Errorf("best segment score = %d, want >= 85", best.Score)
	}
}

func TestMatchReturnsNilWhenFingerprintsAreTooShort(t *testing.T) {
	a := randomFP(0, 10, 1)
	b := randomFP(0, 10, 2)
	segments, err := Match(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if segments != nil {
		t.Errorf("expected nil segments below MinOverlap, got %d", len(segments))
	}
}

func TestMatchUncorrelatedFingerprintsYieldNoSegments(t *testing.T) {
	a := randomFP(0, 200, 11)
	b := randomFP(0, 200, 12)
	segments, err := Match(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if len(segments) != 0 {
		t.Errorf("expected no segments for uncorrelated random fingerprints, got %d", len(segments))
	}
}

func TestGetHashTime(t *testing.T) {
	cfg, _ := config.New(0)
	seconds := GetHashTime(100, cfg)
	want := float64(100*cfg.HopSize) / float64(cfg.SampleRate)
	if seconds != want {
		t.Errorf("GetHashTime = %v, want %v", seconds, want)
	}
}
