package audio

import "math"

// Resampler converts a PCM stream from one integer sample rate to another
// using a causal, windowed-sinc polyphase low-pass filter, the same family
// of technique as the pure-Go polyphase resamplers in the wider ecosystem,
// simplified here to a causal (not centered) filter since the front-end
// only needs deterministic, allocation-free streaming conversion rather
// than minimum-latency or studio-grade stopband performance.
//
// For rational ratio L/M = outRate/gcd : inRate/gcd, each output sample is
// a weighted sum of the last tapsPerPhase input samples using the
// polyphase branch selected by the output's sub-input-sample phase.
type Resampler struct {
	l, m int
	taps int
	poly [][]float64 // poly[phase][k], phase in [0,l), k in [0,taps)

	history []float64 // last `taps` input samples, oldest first
	histLen int

	inCount  int64
	position int64 // next output position, in units of 1/l input samples
}

const tapsPerPhase = 16

// NewResampler builds a resampler from inRate to outRate. Both must be
// positive; ratios are reduced to lowest terms so the polyphase table stays
// small for common audio rate pairs.
func NewResampler(inRate, outRate int) *Resampler {
	g := gcd(inRate, outRate)
	l, m := outRate/g, inRate/g

	r := &Resampler{
		l:       l,
		m:       m,
		taps:    tapsPerPhase,
		history: make([]float64, tapsPerPhase),
	}
	r.poly = designPolyphase(l, m, tapsPerPhase)
	return r
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

// designPolyphase builds the l polyphase branches of a windowed-sinc
// low-pass filter with cutoff at min(1/l, 1/m) of the upsampled rate,
// each branch holding `taps` coefficients.
func designPolyphase(l, m, taps int) [][]float64 {
	n := l * taps
	cutoff := 1.0 / float64(maxInt(l, m))
	proto := make([]float64, n)
	center := float64(n-1) / 2
	for i := 0; i < n; i++ {
		x := float64(i) - center
		var sinc float64
		if x == 0 {
			sinc = cutoff
		} else {
			sinc = math.Sin(math.Pi*cutoff*x) / (math.Pi * x)
		}
		// Hamming window, matching the teacher pack's resampling references.
		win := 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		proto[i] = sinc * win
	}

	poly := make([][]float64, l)
	for p := 0; p < l; p++ {
		branch := make([]float64, taps)
		for k := 0; k < taps; k++ {
			idx := k*l + p
			if idx < n {
				branch[k] = proto[n-1-idx] * float64(l)
			}
		}
		poly[p] = branch
	}
	return poly
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Push feeds one input sample and appends any output samples it completes
// to dst, returning the extended slice.
func (r *Resampler) Push(sample float64, dst []float64) []float64 {
	copy(r.history, r.history[1:])
	r.history[len(r.history)-1] = sample
	r.inCount++
	if r.histLen < len(r.history) {
		r.histLen++
	}

	for r.position/int64(r.l) <= r.inCount-1 {
		inputIndex := r.position / int64(r.l)
		phase := int(r.position % int64(r.l))
		lag := (r.inCount - 1) - inputIndex

		var sum float64
		branch := r.poly[phase]
		for k := 0; k < r.taps; k++ {
			histIdx := len(r.history) - 1 - int(lag) - k
			if histIdx < 0 || histIdx >= len(r.history) {
				continue
			}
			sum += r.history[histIdx] * branch[k]
		}
		dst = append(dst, sum)
		r.position += int64(r.m)
	}
	return dst
}

// Flush drains any output samples implied by the filter's tail after the
// input stream has ended, treating future samples as zero.
func (r *Resampler) Flush(dst []float64) []float64 {
	for i := 0; i < r.taps; i++ {
		dst = r.Push(0, dst)
	}
	return dst
}
