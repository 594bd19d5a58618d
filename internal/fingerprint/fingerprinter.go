package fingerprint

import (
	"github.com/afsispa/fprint/internal/config"
	"github.com/afsispa/fprint/internal/dsp"
)

// Fingerprinter consumes a stream of internal-rate mono int16 samples and
// produces a Fingerprint. It owns a fixed-size frame ring, FFT plan, chroma
// filter, optional smoother and rolling integral image, all sized once at
// construction so steady-state Consume calls never allocate.
type Fingerprinter struct {
	cfg *config.Config

	frame        []float64 // length FrameSize, shifted by HopSize each frame
	windowed     []float64 // length FrameSize, scratch for emitFrame
	filled       int        // samples currently held in frame (< FrameSize until warmed up)
	sinceLastHop int

	fft          *dsp.FFT
	chromaFilter *dsp.ChromaFilter
	smoother     *dsp.ChromaSmoother
	integral     *dsp.IntegralImage

	minHistoryRows int
	items          []SubFingerprint
}

// New builds a Fingerprinter for the given configuration.
func New(cfg *config.Config) *Fingerprinter {
	f := &Fingerprinter{
		cfg:            cfg,
		frame:          make([]float64, cfg.FrameSize),
		windowed:       make([]float64, cfg.FrameSize),
		fft:            dsp.NewFFT(cfg.FrameSize),
		chromaFilter:   dsp.NewChromaFilter(cfg.SampleRate, cfg.FrameSize, cfg.MinFreq, cfg.MaxFreq),
		integral:       dsp.NewIntegralImage(cfg.MaxClassifierHeight() + 1),
		minHistoryRows: cfg.MaxClassifierHeight(),
	}
	if cfg.Smoothing {
		f.smoother = dsp.NewChromaSmoother(cfg.SmoothKernel)
	}
	return f
}

// Consume feeds one internal-rate mono sample.
func (f *Fingerprinter) Consume(sample int16) {
	f.pushSample(float64(sample))
	f.sinceLastHop++
	if f.filled < len(f.frame) {
		f.filled++
	}
	if f.filled == len(f.frame) && f.sinceLastHop >= f.cfg.HopSize {
		f.sinceLastHop = 0
		f.emitFrame()
	}
}

// pushSample shifts the frame ring left by one and appends sample at the
// tail. Called once per input sample; the shift is O(FrameSize) but
// allocation-free.
func (f *Fingerprinter) pushSample(sample float64) {
	copy(f.frame, f.frame[1:])
	f.frame[len(f.frame)-1] = sample
}

func (f *Fingerprinter) emitFrame() {
	for i, s := range f.frame {
		f.windowed[i] = s * f.cfg.Window[i]
	}
	mags := f.fft.Magnitudes(f.windowed)

	var chroma [dsp.ChromaBins]float64
	f.chromaFilter.Fold(mags, &chroma)
	if f.smoother != nil {
		chroma = f.smoother.Push(chroma)
	}

	f.integral.AppendRow(chroma)
	row := f.integral.NumRows() - 1
	if row+1 < f.minHistoryRows {
		return
	}
	f.items = append(f.items, evalSubFingerprint(f.integral, f.cfg, row))
}

// Finish flushes any trailing partial frame, padded with zeros, and returns
// the accumulated Fingerprint. A Fingerprinter has no reset; a new stream
// needs a new Fingerprinter (audio.Frontend.Start builds one).
func (f *Fingerprinter) Finish() Fingerprint {
	pad := 0
	if f.filled < len(f.frame) {
		pad = len(f.frame) - f.filled
	}
	if rem := f.cfg.HopSize - f.sinceLastHop; f.sinceLastHop > 0 && rem > pad {
		pad = rem
	}
	for i := 0; i < pad; i++ {
		f.Consume(0)
	}
	return Fingerprint{Algorithm: f.cfg.Algorithm, Items: f.items}
}

// Fingerprint returns the Fingerprint accumulated so far without flushing.
func (f *Fingerprinter) Fingerprint() Fingerprint {
	return Fingerprint{Algorithm: f.cfg.Algorithm, Items: f.items}
}

// ClearFingerprint resets only the output buffer, not the DSP state (frame
// ring, integral image, smoother history) — matching the façade's
// clear_fingerprint semantics, which requires Start again for a fresh
// stream.
func (f *Fingerprinter) ClearFingerprint() {
	f.items = nil
}
