package chromaprint

import (
	"math"
	"testing"
)

func TestContextLifecycleNullPCM(t *testing.T) {
	ctx, err := New(1)
	if err != nil {
		t.Fatal(err)
	}
	if err := ctx.SetOption("silence_threshold", 100); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Start(44100, 2); err != nil {
		t.Fatal(err)
	}
	silence := make([]int16, 44100*2*10)
	if err := ctx.Feed(silence); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Finish(); err != nil {
		t.Fatal(err)
	}
	if got := len(ctx.GetRawFingerprint()); got != 0 {
		t.Errorf("raw fingerprint size = %d, want 0 for fully silent input", got)
	}
}

func TestContextFeedBeforeStartErrors(t *testing.T) {
	ctx, _ := New(0)
	if err := ctx.Feed([]int16{1, 2, 3}); err == nil {
		t.Error("expected an error feeding before Start")
	}
}

func TestContextRoundTripsATone(t *testing.T) {
	ctx, err := New(1)
	if err != nil {
		t.Fatal(err)
	}
	if err := ctx.Start(44100, 1); err != nil {
		t.Fatal(err)
	}
	samples := make([]int16, 44100*2)
	for i := range samples {
		samples[i] = int16(10000 * math.Sin(2*math.Pi*440*float64(i)/44100))
	}
	if err := ctx.Feed(samples); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Finish(); err != nil {
		t.Fatal(err)
	}

	raw := ctx.GetRawFingerprint()
	if len(raw) == 0 {
		t.Fatal("expected a nonempty fingerprint")
	}

	encoded, err := ctx.GetFingerprint()
	if err != nil {
		t.Fatal(err)
	}
	decoded, algorithm, err := DecodeFingerprint(encoded, true)
	if err != nil {
		t.Fatal(err)
	}
	if algorithm != 1 {
		t.Errorf("decoded algorithm = %d, want 1", algorithm)
	}
	if len(decoded) != len(raw) {
		t.Fatalf("decoded %d items, want %d", len(decoded), len(raw))
	}
	for i := range raw {
		if decoded[i] != raw[i] {
			t.Fatalf("item %d: decoded %#x, want %#x", i, decoded[i], raw[i])
		}
	}

	if ctx.GetFingerprintHash() != HashFingerprint(raw) {
		t.Error("GetFingerprintHash should match HashFingerprint(GetRawFingerprint())")
	}

	ctx.ClearFingerprint()
	if len(ctx.GetRawFingerprint()) != 0 {
		t.Error("ClearFingerprint should reset the output buffer")
	}
}

func TestEncodeDecodeFingerprintRoundTrip(t *testing.T) {
	items := []uint32{0x1, 0x2, 0x3, 0xdeadbeef}
	encoded, err := EncodeFingerprint(items, 2, true)
	if err != nil {
		t.Fatal(err)
	}
	decoded, algorithm, err := DecodeFingerprint(encoded, true)
	if err != nil {
		t.Fatal(err)
	}
	if algorithm != 2 {
		t.Errorf("algorithm = %d, want 2", algorithm)
	}
	for i := range items {
		if decoded[i] != items[i] {
			t.Errorf("item %d: got %#x, want %#x", i, decoded[i], items[i])
		}
	}
}

func TestMatcherIdentity(t *testing.T) {
	items := make([]uint32, 200)
	for i := range items {
		items[i] = uint32(i*2654435761 + 7)
	}

	m := NewMatcher()
	if err := m.SetRawFingerprint(0, items, 0); err != nil {
		t.Fatal(err)
	}
	if err := m.SetRawFingerprint(1, items, 0); err != nil {
		t.Fatal(err)
	}
	ok, err := m.Run()
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a match for identical fingerprints")
	}
	if m.NumSegments() != 1 {
		t.Fatalf("got %d segments, want 1", m.NumSegments())
	}
	seg := m.Segment(0)
	if seg.Pos1 != 0 || seg.Pos2 != 0 || seg.Duration != 200 || seg.Score != 100 {
		t.Errorf("segment = %+v, want (0,0,200,100)", seg)
	}
}

func TestMatcherAlgorithmMismatchErrors(t *testing.T) {
	m := NewMatcher()
	if err := m.SetRawFingerprint(0, []uint32{1, 2, 3}, 0); err != nil {
		t.Fatal(err)
	}
	if err := m.SetRawFingerprint(1, []uint32{1, 2, 3}, 1); err == nil {
		t.Error("expected an error setting a second fingerprint with a different algorithm id")
	}
}

func TestMatcherRunWithoutBothFingerprintsErrors(t *testing.T) {
	m := NewMatcher()
	if _, err := m.Run(); err == nil {
		t.Error("expected an error running before either fingerprint is set")
	}
	if err := m.SetRawFingerprint(0, []uint32{1, 2, 3}, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Run(); err == nil {
		t.Error("expected an error running with only fingerprint 0 set")
	}
}
