package audio

import (
	"math"
	"testing"

	"github.com/afsispa/fprint/internal/config"
)

func TestFrontendStartValidatesSampleRate(t *testing.T) {
	cfg, _ := config.New(1)
	fe := NewFrontend(cfg)
	if err := fe.Start(1000, 1); err == nil {
		t.Error("expected error for sample rate below internalRate/2")
	}
	if err := fe.Start(200000, 1); err == nil {
		t.Error("expected error for sample rate above 96000")
	}
	if err := fe.Start(44100, 2); err != nil {
		t.Errorf("unexpected error starting with a valid rate: %v", err)
	}
}

func TestFrontendUnknownOption(t *testing.T) {
	cfg, _ := config.New(1)
	fe := NewFrontend(cfg)
	if err := fe.SetOption("bogus", 1); err == nil {
		t.Error("expected error for unknown option name")
	}
}

func TestFrontendDeterministicAcrossRuns(t *testing.T) {
	cfg, _ := config.New(1)
	run := func() []fingerprintItem {
		fe := NewFrontend(cfg)
		if err := fe.Start(44100, 1); err != nil {
			t.Fatal(err)
		}
		samples := make([]int16, 44100*2)
		for i := range samples {
			samples[i] = int16(10000 * math.Sin(2*math.Pi*440*float64(i)/44100))
		}
		if err := fe.Consume(samples); err != nil {
			t.Fatal(err)
		}
		fp := fe.Finish()
		out := make([]fingerprintItem, len(fp.Items))
		for i, it := range fp.Items {
			out[i] = fingerprintItem(it)
		}
		return out
	}
	a := run()
	b := run()
	if len(a) == 0 {
		t.Fatal("expected a nonempty fingerprint from a resampled tone")
	}
	if len(a) != len(b) {
		t.Fatalf("item count differs across runs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("item %d differs across runs: %x vs %x", i, a[i], b[i])
		}
	}
}

type fingerprintItem uint32

func TestResamplerGCDReducesRatio(t *testing.T) {
	r := NewResampler(44100, 11025)
	if r.l != 1 || r.m != 4 {
		t.Errorf("44100->11025 should reduce to L=1,M=4, got L=%d,M=%d", r.l, r.m)
	}
}

func TestResamplerProducesOutputInOrder(t *testing.T) {
	r := NewResampler(44100, 11025)
	var out []float64
	for i := 0; i < 44100; i++ {
		out = r.Push(float64(i%100), out)
	}
	out = r.Flush(out)
	if len(out) == 0 {
		t.Fatal("expected resampled output")
	}
}
