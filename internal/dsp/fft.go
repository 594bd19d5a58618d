package dsp

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// FFT wraps gonum's real-input FFT plan, reused across frames the same way
// the teacher reuses a *fourier.FFT per worker in buildIndex.
type FFT struct {
	plan *fourier.FFT
	buf  []complex128
	mag  []float64
}

// NewFFT builds a real-input FFT plan for frames of length n.
func NewFFT(n int) *FFT {
	return &FFT{
		plan: fourier.NewFFT(n),
		mag:  make([]float64, n/2+1),
	}
}

// Magnitudes runs the forward real FFT over windowed (length n) samples and
// returns the magnitude of each of the n/2+1 non-negative frequency bins.
// The returned slice is owned by the FFT and overwritten on the next call.
func (f *FFT) Magnitudes(windowed []float64) []float64 {
	f.buf = f.plan.Coefficients(f.buf, windowed)
	for i, c := range f.buf {
		re, im := real(c), imag(c)
		f.mag[i] = math.Sqrt(re*re + im*im)
	}
	return f.mag
}
