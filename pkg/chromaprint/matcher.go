package chromaprint

import (
	"fmt"

	"github.com/afsispa/fprint/internal/config"
	"github.com/afsispa/fprint/internal/fingerprint"
	"github.com/afsispa/fprint/internal/match"
)

// Matcher is the matcher context lifecycle: new → SetFingerprint(0,*) →
// SetFingerprint(1,*) → Run → Segments, mirroring
// chromaprint_matcher_new/_set_fingerprint/_run/_get_segment_*.
type Matcher struct {
	algorithm int
	haveAlgo  bool
	fp        [2][]uint32
	set       [2]bool
	segments  []match.MatcherSegment
}

// NewMatcher creates an empty matcher context.
func NewMatcher() *Matcher {
	return &Matcher{algorithm: -1}
}

// SetFingerprint decodes and stores one of the two fingerprints being
// compared (idx 0 or 1). Both fingerprints must end up sharing an algorithm
// id.
func (m *Matcher) SetFingerprint(idx int, encoded string, base64 bool) error {
	if idx != 0 && idx != 1 {
		return fmt.Errorf("chromaprint: matcher idx must be 0 or 1, got %d", idx)
	}
	items, algorithm, err := DecodeFingerprint(encoded, base64)
	if err != nil {
		return err
	}
	return m.setFingerprint(idx, items, algorithm)
}

// SetRawFingerprint stores one of the two fingerprints from already-decoded
// items, matching chromaprint_matcher_set_raw_fingerprint.
func (m *Matcher) SetRawFingerprint(idx int, items []uint32, algorithm int) error {
	if idx != 0 && idx != 1 {
		return fmt.Errorf("chromaprint: matcher idx must be 0 or 1, got %d", idx)
	}
	return m.setFingerprint(idx, items, algorithm)
}

func (m *Matcher) setFingerprint(idx int, items []uint32, algorithm int) error {
	if !m.haveAlgo {
		m.algorithm = algorithm
		m.haveAlgo = true
	} else if algorithm != m.algorithm {
		return fmt.Errorf("chromaprint: matcher fingerprint %d has algorithm %d, context is %d", idx, algorithm, m.algorithm)
	}
	m.fp[idx] = items
	m.set[idx] = true
	return nil
}

// Run executes the match; it reports an error if either fingerprint hasn't
// been set, and returns ok=false with a nil segment list if no segment
// survives, matching chromaprint_matcher_run's 0-segments-but-success case.
func (m *Matcher) Run() (ok bool, err error) {
	if !m.set[0] {
		return false, fmt.Errorf("chromaprint: matcher fingerprint 0 is not set")
	}
	if !m.set[1] {
		return false, fmt.Errorf("chromaprint: matcher fingerprint 1 is not set")
	}

	a := toFingerprint(m.algorithm, m.fp[0])
	b := toFingerprint(m.algorithm, m.fp[1])
	segments, err := match.Match(a, b)
	if err != nil {
		return false, fmt.Errorf("chromaprint: %w", err)
	}
	m.segments = segments
	return len(segments) > 0, nil
}

// NumSegments returns the number of segments found by the last Run.
func (m *Matcher) NumSegments() int { return len(m.segments) }

// Segment returns the i'th segment found by the last Run.
func (m *Matcher) Segment(i int) match.MatcherSegment { return m.segments[i] }

// SegmentPositionMs returns a segment's A-side and B-side start positions
// in milliseconds, using the algorithm's hop/sample rate.
func (m *Matcher) SegmentPositionMs(i int) (pos1Ms, pos2Ms float64, err error) {
	cfg, err := config.New(m.algorithm)
	if err != nil {
		return 0, 0, err
	}
	s := m.segments[i]
	return match.GetHashTime(s.Pos1, cfg) * 1000, match.GetHashTime(s.Pos2, cfg) * 1000, nil
}

func toFingerprint(algorithm int, items []uint32) fingerprint.Fingerprint {
	out := make([]fingerprint.SubFingerprint, len(items))
	for i, item := range items {
		out[i] = fingerprint.SubFingerprint(item)
	}
	return fingerprint.Fingerprint{Algorithm: algorithm, Items: out}
}
