package fingerprint

import (
	"github.com/afsispa/fprint/internal/config"
	"github.com/afsispa/fprint/internal/dsp"
)

// evalClassifier computes the real-valued output of one Haar-like
// classifier at the current (newest) row of img, per filter_type:
//
//	0: whole-block energy (no subdivision)
//	1: time gradient — later half of the block minus earlier half
//	2: chroma gradient — right half minus left half
//	3: time second-difference — middle time band minus the two outer bands
//	4: chroma second-difference — middle chroma band minus the two outer bands
//	5: checkerboard — (topLeft+bottomRight) - (topRight+bottomLeft)
//
// The block spans rows [top, top+height-1] (top = currentRow-y-height+1)
// and columns [0, width-1].
func evalClassifier(img *dsp.IntegralImage, cl config.Classifier, currentRow int) float64 {
	top := currentRow - cl.Y - cl.Height + 1
	bottom := currentRow - cl.Y
	left, right := 0, cl.Width-1

	switch cl.FilterType {
	case 0:
		return img.RectSum(top, left, bottom, right)
	case 1:
		midRow := top + cl.Height/2
		if cl.Height < 2 {
			return img.RectSum(top, left, bottom, right)
		}
		earlier := img.RectSum(top, left, midRow-1, right)
		later := img.RectSum(midRow, left, bottom, right)
		return later - earlier
	case 2:
		if cl.Width < 2 {
			return img.RectSum(top, left, bottom, right)
		}
		midCol := left + cl.Width/2
		leftHalf := img.RectSum(top, left, bottom, midCol-1)
		rightHalf := img.RectSum(top, midCol, bottom, right)
		return rightHalf - leftHalf
	case 3:
		if cl.Height < 3 {
			return img.RectSum(top, left, bottom, right)
		}
		band := cl.Height / 3
		if band == 0 {
			band = 1
		}
		m1 := top + band
		m2 := bottom - band
		upper := img.RectSum(top, left, m1-1, right)
		middle := img.RectSum(m1, left, m2, right)
		lower := img.RectSum(m2+1, left, bottom, right)
		return middle - upper - lower
	case 4:
		if cl.Width < 3 {
			return img.RectSum(top, left, bottom, right)
		}
		band := cl.Width / 3
		if band == 0 {
			band = 1
		}
		m1 := left + band
		m2 := right - band
		leftB := img.RectSum(top, left, bottom, m1-1)
		midB := img.RectSum(top, m1, bottom, m2)
		rightB := img.RectSum(top, m2+1, bottom, right)
		return midB - leftB - rightB
	case 5:
		if cl.Height < 2 || cl.Width < 2 {
			return img.RectSum(top, left, bottom, right)
		}
		midRow := top + cl.Height/2
		midCol := left + cl.Width/2
		tl := img.RectSum(top, left, midRow-1, midCol-1)
		tr := img.RectSum(top, midCol, midRow-1, right)
		bl := img.RectSum(midRow, left, bottom, midCol-1)
		br := img.RectSum(midRow, midCol, bottom, right)
		return (tl + br) - (tr + bl)
	default:
		return img.RectSum(top, left, bottom, right)
	}
}

// quantize maps a real classifier output to a 2-bit value {0,1,2,3} using
// the classifier's 3 ascending thresholds.
func quantize(v float64, cl config.Classifier) uint32 {
	switch {
	case v <= cl.T1:
		return 0
	case v <= cl.T2:
		return 1
	case v <= cl.T3:
		return 2
	default:
		return 3
	}
}

// gray2 maps a 2-bit value to its 2-bit Gray code.
var gray2 = [4]uint32{0: 0, 1: 1, 2: 3, 3: 2}

// evalSubFingerprint evaluates all 16 classifiers at the current row and
// packs their Gray-coded 2-bit outputs into one 32-bit word, classifier i
// occupying bits [2i, 2i+1].
func evalSubFingerprint(img *dsp.IntegralImage, cfg *config.Config, currentRow int) SubFingerprint {
	var word uint32
	for i, cl := range cfg.Classifiers {
		v := evalClassifier(img, cl, currentRow)
		q := quantize(v, cl)
		word |= gray2[q] << uint(2*i)
	}
	return SubFingerprint(word)
}
