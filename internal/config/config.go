// Package config holds the immutable, algorithm-id-dispatched configuration
// records that parameterize every other stage of the fingerprinter: frame
// size, hop, chroma band limits, smoothing, the classifier table and
// quantizer thresholds. Adding an algorithm means adding a record here, not
// a new code path elsewhere — this mirrors the teacher's habit of keeping
// DSP constants as package-level consts, generalized into per-algorithm
// records since this engine supports five algorithm ids rather than one
// fixed parameter set.
package config

import (
	"fmt"

	"github.com/afsispa/fprint/internal/dsp"
)

// Classifier describes one of the 16 Haar-like feature classifiers: a
// rectangle of the rolling integral image (rows = time, y..y+height-1;
// columns = chroma, 0..width-1), a filter arrangement selecting how that
// rectangle's sub-blocks combine into a scalar, and the 3 ascending
// thresholds of its 4-level quantizer.
type Classifier struct {
	FilterType int // 0..5, see internal/fingerprint/classify.go
	Y          int // row offset, frames behind the current row
	Height     int // row span
	Width      int // column span, 1..dsp.ChromaBins
	T1, T2, T3 float64
}

const NumClassifiers = 16

// Config is the full parameter pack for one algorithm id. It is built by
// New and never mutated afterwards; its derived tables (window, smoothing
// kernel) are safe to share read-only across concurrent contexts using the
// same algorithm id.
type Config struct {
	Algorithm int

	SampleRate int // internal sample rate, Hz
	FrameSize  int
	HopSize    int

	MinFreq, MaxFreq float64

	Smoothing   bool
	SmoothKernel []float64 // precomputed Gaussian kernel, nil if !Smoothing

	Classifiers [NumClassifiers]Classifier

	Window []float64 // precomputed Hann window, length FrameSize
}

// ItemDurationSamples returns the number of internal samples spanned by one
// fingerprint item (one hop).
func (c *Config) ItemDurationSamples() int {
	return c.HopSize
}

// ItemDurationSeconds returns the duration of one fingerprint item.
func (c *Config) ItemDurationSeconds() float64 {
	return float64(c.HopSize) / float64(c.SampleRate)
}

// MaxClassifierHeight returns the largest Y+Height (row offset plus row
// span) among the 16 classifiers, used to size the rolling integral image.
func (c *Config) MaxClassifierHeight() int {
	max := 0
	for _, cl := range c.Classifiers {
		if h := cl.Y + cl.Height; h > max {
			max = h
		}
	}
	return max
}

// New builds the configuration record for the given algorithm id (0..4).
// Returns a configuration error for unknown ids.
func New(algorithm int) (*Config, error) {
	build, ok := registry[algorithm]
	if !ok {
		return nil, fmt.Errorf("config: unknown algorithm id %d", algorithm)
	}
	c := build()
	c.Window = dsp.Hann(c.FrameSize)
	if c.Smoothing {
		c.SmoothKernel = dsp.GaussianKernel(smoothKernelLen(algorithm), smoothSigma(algorithm))
	}
	return c, nil
}

var registry = map[int]func() *Config{
	0: newLegacy,
	1: newTest2,
	2: newTest3,
	3: newTest4,
	4: newTest5,
}

func smoothKernelLen(algorithm int) int {
	switch algorithm {
	case 1:
		return 3
	case 2:
		return 5
	case 3:
		return 5
	case 4:
		return 7
	default:
		return 3
	}
}

func smoothSigma(algorithm int) float64 {
	switch algorithm {
	case 4:
		return 1.5
	default:
		return 1.0
	}
}

const (
	defaultSampleRate = 11025
	defaultFrameSize  = 4096
	defaultHopSize    = 1365
)

// newLegacy is algorithm 0: no smoothing, the 28-3520 Hz chroma band
// (narrower than algorithms 3 and 4), the original test-quality classifier
// table.
func newLegacy() *Config {
	return &Config{
		Algorithm:   0,
		SampleRate:  defaultSampleRate,
		FrameSize:   defaultFrameSize,
		HopSize:     defaultHopSize,
		MinFreq:     28,
		MaxFreq:     3520,
		Smoothing:   false,
		Classifiers: classifierTableA(),
	}
}

func newTest2() *Config {
	return &Config{
		Algorithm:   1,
		SampleRate:  defaultSampleRate,
		FrameSize:   defaultFrameSize,
		HopSize:     defaultHopSize,
		MinFreq:     28,
		MaxFreq:     3520,
		Smoothing:   true,
		Classifiers: classifierTableA(),
	}
}

func newTest3() *Config {
	return &Config{
		Algorithm:   2,
		SampleRate:  defaultSampleRate,
		FrameSize:   defaultFrameSize,
		HopSize:     defaultHopSize,
		MinFreq:     28,
		MaxFreq:     3520,
		Smoothing:   true,
		Classifiers: classifierTableB(),
	}
}

func newTest4() *Config {
	return &Config{
		Algorithm:   3,
		SampleRate:  defaultSampleRate,
		FrameSize:   defaultFrameSize,
		HopSize:     defaultHopSize,
		MinFreq:     20,
		MaxFreq:     5000,
		Smoothing:   true,
		Classifiers: classifierTableB(),
	}
}

func newTest5() *Config {
	return &Config{
		Algorithm:   4,
		SampleRate:  defaultSampleRate,
		FrameSize:   defaultFrameSize,
		HopSize:     defaultHopSize,
		MinFreq:     20,
		MaxFreq:     5000,
		Smoothing:   true,
		Classifiers: classifierTableC(),
	}
}
