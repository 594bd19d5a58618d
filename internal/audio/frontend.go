// Package audio implements the front-end that sits between raw PCM input
// and the fingerprinter core: channel mixdown, resampling to the
// algorithm's internal rate, and optional leading-silence removal.
package audio

import (
	"fmt"
	"math"

	"github.com/afsispa/fprint/internal/config"
	"github.com/afsispa/fprint/internal/dsp"
	"github.com/afsispa/fprint/internal/fingerprint"
)

const (
	minExternalRateFactor = 2   // reject sampleRate below internalRate/minExternalRateFactor
	maxExternalRate       = 96000
	silenceWindowSeconds  = 1
)

// Frontend mixes down, resamples and (optionally) trims leading silence
// from a PCM stream, then feeds the result to a fingerprint.Fingerprinter.
// It is the streaming counterpart of chromaprint_start/feed/finish.
type Frontend struct {
	cfg *config.Config
	fp  *fingerprint.Fingerprinter

	channels     int
	sampleRate   int
	resampler    *Resampler
	scratch      []float64
	silenceOn    bool
	silenceThreshold int
	silence      *dsp.SilenceRemover

	started bool
}

// NewFrontend builds a Frontend bound to the given configuration's internal
// rate; Start must be called before Consume.
func NewFrontend(cfg *config.Config) *Frontend {
	return &Frontend{cfg: cfg, fp: fingerprint.New(cfg)}
}

// SetOption sets a named option before Start. Only "silence_threshold" is
// recognized; any other name is a configuration error.
func (fe *Frontend) SetOption(name string, value int) error {
	switch name {
	case "silence_threshold":
		if value < 0 || value > 32767 {
			return fmt.Errorf("audio: silence_threshold out of range: %d", value)
		}
		fe.silenceOn = value > 0
		fe.silenceThreshold = value
		return nil
	default:
		return fmt.Errorf("audio: unknown option %q", name)
	}
}

// Start validates the incoming stream's sample rate/channel count and
// (re)initializes all DSP state for a fresh session. Re-using a Frontend
// across unrelated streams requires calling Start again.
func (fe *Frontend) Start(sampleRate, channels int) error {
	internal := fe.cfg.SampleRate
	if sampleRate < internal/minExternalRateFactor || sampleRate > maxExternalRate {
		return fmt.Errorf("audio: sample rate %d out of range [%d,%d]", sampleRate, internal/minExternalRateFactor, maxExternalRate)
	}
	if channels < 1 {
		return fmt.Errorf("audio: channels must be >= 1, got %d", channels)
	}

	fe.channels = channels
	fe.sampleRate = sampleRate
	fe.fp = fingerprint.New(fe.cfg)
	if sampleRate != internal {
		fe.resampler = NewResampler(sampleRate, internal)
	} else {
		fe.resampler = nil
	}
	fe.scratch = fe.scratch[:0]
	if fe.silenceOn {
		fe.silence = dsp.NewSilenceRemover(internal*silenceWindowSeconds, fe.silenceThreshold)
	} else {
		fe.silence = nil
	}
	fe.started = true
	return nil
}

// Consume mixes interleaved multi-channel samples to mono, resamples to the
// internal rate, optionally gates on silence, and feeds the fingerprinter.
func (fe *Frontend) Consume(samples []int16) error {
	if !fe.started {
		return fmt.Errorf("audio: Consume called before Start")
	}
	if len(samples)%fe.channels != 0 {
		return fmt.Errorf("audio: sample count %d is not a multiple of channel count %d", len(samples), fe.channels)
	}

	for i := 0; i < len(samples); i += fe.channels {
		var sum int32
		for c := 0; c < fe.channels; c++ {
			sum += int32(samples[i+c])
		}
		fe.feedMono(float64(sum))
	}
	return nil
}

func (fe *Frontend) feedMono(monoSample float64) {
	if fe.resampler == nil {
		fe.scratch = append(fe.scratch[:0], monoSample)
	} else {
		fe.scratch = fe.resampler.Push(monoSample, fe.scratch[:0])
	}
	for _, v := range fe.scratch {
		fe.feedInternal(clampInt16(v))
	}
}

func (fe *Frontend) feedInternal(sample int16) {
	if fe.silence != nil && !fe.silence.Push(sample) {
		return
	}
	fe.fp.Consume(sample)
}

// Finish drains the resampler's tail, feeding any trailing samples as a
// padded partial frame, and returns the accumulated Fingerprint.
func (fe *Frontend) Finish() fingerprint.Fingerprint {
	if fe.resampler != nil {
		fe.scratch = fe.resampler.Flush(fe.scratch[:0])
		for _, v := range fe.scratch {
			fe.feedInternal(clampInt16(v))
		}
	}
	return fe.fp.Finish()
}

// Fingerprint returns the Fingerprint accumulated so far without flushing.
func (fe *Frontend) Fingerprint() fingerprint.Fingerprint {
	return fe.fp.Fingerprint()
}

// ClearFingerprint resets only the output buffer, matching the façade's
// clear_fingerprint semantics.
func (fe *Frontend) ClearFingerprint() {
	fe.fp.ClearFingerprint()
}

func clampInt16(v float64) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(math.Round(v))
}
