package dsp

import "math"

// SilenceRemover gates a PCM stream on running RMS over a sliding window of
// windowSize samples. It emits samples starting from the first one where
// RMS first exceeds the threshold and never re-gates afterwards: once
// unsilenced, it stays unsilenced for the session. This resolves the open
// question in the design notes about hysteresis at the threshold boundary
// in favor of the simpler, monotone rule.
type SilenceRemover struct {
	threshold float64
	window    []int16
	pos       int
	filled    int
	sumSq     float64
	triggered bool
}

// NewSilenceRemover builds a remover gating on RMS over windowSize samples
// against the given int16-scale threshold (0..32767).
func NewSilenceRemover(windowSize int, threshold int) *SilenceRemover {
	return &SilenceRemover{
		threshold: float64(threshold),
		window:    make([]int16, windowSize),
	}
}

// Push feeds one sample and reports whether it (and everything after it)
// should be emitted downstream.
func (s *SilenceRemover) Push(sample int16) bool {
	if s.triggered {
		return true
	}

	old := s.window[s.pos]
	s.sumSq -= float64(old) * float64(old)
	s.window[s.pos] = sample
	s.sumSq += float64(sample) * float64(sample)
	s.pos = (s.pos + 1) % len(s.window)
	if s.filled < len(s.window) {
		s.filled++
	}

	rms := math.Sqrt(s.sumSq / float64(s.filled))
	if rms > s.threshold {
		s.triggered = true
		return true
	}
	return false
}

// Triggered reports whether the remover has ever unsilenced.
func (s *SilenceRemover) Triggered() bool {
	return s.triggered
}
