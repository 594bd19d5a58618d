package config

import "github.com/afsispa/fprint/internal/dsp"

// classifierTableA/B/C are the three classifier tables backing the five
// algorithm ids (A is shared by algorithms 0 and 1, which only differ in
// smoothing; B is shared by 2 and 3; C backs 4). Each table cycles through
// the 6 filter arrangements and a spread of row/column footprints so the
// 16 classifiers probe different time/chroma scales, the same way
// chromaprint's own classifier tables mix filter shapes rather than
// repeating one shape at different offsets.
//
// Thresholds are scaled by each classifier's rectangle area so a classifier
// looking at a wider/taller block (and hence larger raw sums) doesn't
// saturate against the same absolute cutoffs as a narrow one.

func classifierTableA() [NumClassifiers]Classifier {
	return buildTable(0.35)
}

func classifierTableB() [NumClassifiers]Classifier {
	return buildTable(0.45)
}

func classifierTableC() [NumClassifiers]Classifier {
	return buildTable(0.55)
}

// footprint is one (y, height, width) shape reused across filter types.
type footprint struct {
	y, height, width int
}

var footprints = []footprint{
	{y: 0, height: 1, width: dsp.ChromaBins},
	{y: 0, height: 2, width: dsp.ChromaBins},
	{y: 0, height: 3, width: 6},
	{y: 1, height: 2, width: 4},
	{y: 2, height: 4, width: dsp.ChromaBins},
	{y: 3, height: 3, width: 8},
	{y: 0, height: 5, width: 3},
	{y: 4, height: 2, width: 6},
}

func buildTable(thresholdScale float64) [NumClassifiers]Classifier {
	var table [NumClassifiers]Classifier
	for i := 0; i < NumClassifiers; i++ {
		fp := footprints[i%len(footprints)]
		filterType := i % 6
		area := float64(fp.height * fp.width)
		base := thresholdScale * area
		table[i] = Classifier{
			FilterType: filterType,
			Y:          fp.y,
			Height:     fp.height,
			Width:      fp.width,
			T1:         -base,
			T2:         0,
			T3:         base,
		}
	}
	return table
}
