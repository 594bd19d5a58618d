// Package match implements cross-fingerprint alignment: a Hamming-distance
// offset sweep followed by per-offset segment carving and scoring.
package match

import (
	"fmt"
	"math"
	"math/bits"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/afsispa/fprint/internal/config"
	"github.com/afsispa/fprint/internal/dsp"
	"github.com/afsispa/fprint/internal/fingerprint"
)

const (
	// MinOverlap is the minimum number of overlapping items an alignment
	// offset must have to be considered at all.
	MinOverlap = 80
	// bitErrorThreshold gates both candidate-offset screening and segment
	// carving: 0.45 of the 32 available bits.
	bitErrorThreshold = 0.45 * 32
	// smoothWindow is the moving-average length used to smooth per-item
	// bit error before carving segments.
	smoothWindow = 8
)

// MatcherSegment is a contiguous aligned region between two fingerprints.
// Score is the public 0-100 value; MeanBitError/StdDevBitError expose the
// underlying bit-error statistics for callers that want more than the
// public score (e.g. to weigh a borderline match).
type MatcherSegment struct {
	Pos1, Pos2, Duration int
	Score                int
	RawScore             float64
	MeanBitError         float64
	StdDevBitError       float64
}

// Match aligns two fingerprints and returns their matching segments, ordered
// by Pos1. A nil slice is the "no match" result, distinct from the
// algorithm-mismatch error.
func Match(a, b fingerprint.Fingerprint) ([]MatcherSegment, error) {
	if a.Algorithm != b.Algorithm {
		return nil, fmt.Errorf("match: algorithm mismatch: %d vs %d", a.Algorithm, b.Algorithm)
	}
	return matchItems(a.Items, b.Items), nil
}

// GetHashTime converts an item count to seconds using the configuration's
// hop size and sample rate.
func GetHashTime(items int, cfg *config.Config) float64 {
	return float64(items) * float64(cfg.HopSize) / float64(cfg.SampleRate)
}

type offsetCandidate struct {
	offset, overlap int
}

func matchItems(a, b []fingerprint.SubFingerprint) []MatcherSegment {
	minOff := -(len(b) - MinOverlap)
	maxOff := len(a) - MinOverlap
	if minOff > maxOff {
		return nil
	}

	var candidates []offsetCandidate
	for o := minOff; o <= maxOff; o++ {
		start := maxInt(0, o)
		end := minInt(len(a), len(b)+o)
		overlap := end - start
		if overlap < MinOverlap {
			continue
		}
		if meanPopcount(a, b, o, start, end) < bitErrorThreshold {
			candidates = append(candidates, offsetCandidate{o, overlap})
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].overlap > candidates[j].overlap })

	var all []MatcherSegment
	for _, c := range candidates {
		all = append(all, carveSegments(a, b, c.offset)...)
	}
	return dedupSegments(all)
}

func meanPopcount(a, b []fingerprint.SubFingerprint, offset, start, end int) float64 {
	var sum int
	for i := start; i < end; i++ {
		sum += bits.OnesCount32(uint32(a[i] ^ b[i-offset]))
	}
	return float64(sum) / float64(end-start)
}

// carveSegments walks one alignment offset's overlap region and splits it
// into contiguous runs whose smoothed per-item bit error stays below
// bitErrorThreshold.
func carveSegments(a, b []fingerprint.SubFingerprint, offset int) []MatcherSegment {
	start := maxInt(0, offset)
	end := minInt(len(a), len(b)+offset)
	n := end - start
	if n < MinOverlap {
		return nil
	}

	raw := make([]float64, n)
	for i := 0; i < n; i++ {
		ai := start + i
		raw[i] = float64(bits.OnesCount32(uint32(a[ai] ^ b[ai-offset])))
	}

	smoothed := make([]float64, n)
	ma := dsp.NewMovingAverage(smoothWindow)
	for i, v := range raw {
		smoothed[i] = ma.Push(v)
	}

	var segments []MatcherSegment
	runStart := -1
	for i := 0; i <= n; i++ {
		below := i < n && smoothed[i] < bitErrorThreshold
		switch {
		case below && runStart < 0:
			runStart = i
		case !below && runStart >= 0:
			segments = append(segments, buildSegment(raw, runStart, i, start, offset))
			runStart = -1
		}
	}
	return segments
}

func buildSegment(raw []float64, runStart, runEnd, regionStart, offset int) MatcherSegment {
	slice := raw[runStart:runEnd]
	mean, _ := stats.Mean(stats.Float64Data(slice))
	stddev, _ := stats.StandardDeviation(stats.Float64Data(slice))

	score := int(math.Round(100 * (1 - mean/32)))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	pos1 := regionStart + runStart
	return MatcherSegment{
		Pos1:           pos1,
		Pos2:           pos1 - offset,
		Duration:       runEnd - runStart,
		Score:          score,
		RawScore:       mean,
		MeanBitError:   mean,
		StdDevBitError: stddev,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
