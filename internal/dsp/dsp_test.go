package dsp

import (
	"math"
	"testing"
)

func TestHannEndpoints(t *testing.T) {
	w := Hann(8)
	if w[0] != 0 {
		t.Errorf("Hann(8)[0] = %v, want 0", w[0])
	}
	if math.Abs(w[len(w)/2]-1) > 0.05 {
		t.Errorf("Hann(8) midpoint = %v, want close to 1", w[len(w)/2])
	}
}

func TestChromaFilterDropsOutOfBandBins(t *testing.T) {
	f := NewChromaFilter(11025, 4096, 100, 2000)
	mags := make([]float64, 4096/2+1)
	for i := range mags {
		mags[i] = 1
	}
	var dst [ChromaBins]float64
	f.Fold(mags, &dst)

	total := 0.0
	for _, v := range dst {
		total += v
	}
	if total <= 0 {
		t.Fatal("expected nonzero chroma energy from in-band bins")
	}
}

func TestIntegralImageRectSum(t *testing.T) {
	img := NewIntegralImage(16)
	for r := 0; r < 5; r++ {
		var row [ChromaBins]float64
		for c := 0; c < ChromaBins; c++ {
			row[c] = float64(r + c)
		}
		img.AppendRow(row)
	}

	want := 0.0
	for r := 1; r <= 3; r++ {
		for c := 2; c <= 5; c++ {
			want += float64(r + c)
		}
	}
	got := img.RectSum(1, 2, 3, 5)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("RectSum = %v, want %v", got, want)
	}
}

func TestIntegralImageFullRowFromOrigin(t *testing.T) {
	img := NewIntegralImage(8)
	img.AppendRow([ChromaBins]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})
	got := img.RectSum(0, 0, 0, ChromaBins-1)
	if got != 78 {
		t.Errorf("RectSum whole first row = %v, want 78", got)
	}
}

func TestMovingAverage(t *testing.T) {
	ma := NewMovingAverage(3)
	got := []float64{ma.Push(3), ma.Push(6), ma.Push(9), ma.Push(12)}
	want := []float64{3, 4.5, 6, 9}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("Push #%d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSilenceRemoverMonotone(t *testing.T) {
	s := NewSilenceRemover(4, 100)
	emitted := []bool{
		s.Push(0), s.Push(0), s.Push(0), s.Push(0), // still silent
		s.Push(1000), // triggers
		s.Push(0),    // stays triggered even though this sample alone is silent
	}
	if emitted[len(emitted)-1] != true {
		t.Error("silence remover re-gated after triggering; expected monotone behavior")
	}
	if !s.Triggered() {
		t.Error("expected remover to report triggered")
	}
}

func TestGaussianKernelNormalized(t *testing.T) {
	k := GaussianKernel(5, 1.0)
	sum := 0.0
	for _, v := range k {
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("kernel sum = %v, want 1", sum)
	}
}

func TestChromaSmootherEdgeReplication(t *testing.T) {
	kernel := GaussianKernel(3, 1.0)
	s := NewChromaSmoother(kernel)
	frame := [ChromaBins]float64{}
	frame[0] = 1
	out := s.Push(frame)
	if out[0] <= 0 {
		t.Error("expected edge-replicated smoothing to preserve nonzero energy at stream start")
	}
}
