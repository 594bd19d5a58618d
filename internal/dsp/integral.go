package dsp

// IntegralImage is a rolling integral image over a 12-column (chroma) by
// T-row (time) feature matrix. Rows are appended one per feature frame;
// RectSum answers rectangle sums in O(1). Storage is ring-buffered with a
// fixed capacity sized at construction from the classifier table's maximum
// footprint (max height + max delay), per the design note — this keeps
// steady-state fingerprinting allocation-free.
//
// Each row's cumulative sum (from row 0 up to and including that row) is
// stored as float64, never rebased; rectangle sums only ever span rows
// still resident in the ring (bounded by capacity), so the lack of rebasing
// only costs precision drift over very long streams, which is the tradeoff
// the design note calls out explicitly.
type IntegralImage struct {
	capacity int
	cum      [][ChromaBins]float64 // ring buffer of cumulative row sums
	count    int                   // total rows ever appended
}

// NewIntegralImage builds a rolling integral image with the given ring
// capacity (must be greater than the tallest classifier footprint in use,
// since RectSum also reads the row just above the rectangle).
func NewIntegralImage(capacity int) *IntegralImage {
	return &IntegralImage{
		capacity: capacity,
		cum:      make([][ChromaBins]float64, capacity),
	}
}

// AppendRow adds one feature frame (12 chroma values) as the newest row.
// cum[row][c] = cum[row-1][c] + sum(row[0..c]) — the standard 2D integral
// image recurrence, with the row axis ring-buffered.
func (img *IntegralImage) AppendRow(row [ChromaBins]float64) {
	slot := img.count % img.capacity
	var prev [ChromaBins]float64
	if img.count > 0 {
		prev = img.cum[(img.count-1)%img.capacity]
	}
	var cum [ChromaBins]float64
	running := 0.0
	for c := 0; c < ChromaBins; c++ {
		running += row[c]
		cum[c] = prev[c] + running
	}
	img.cum[slot] = cum
	img.count++
}

// NumRows returns the total number of rows appended so far.
func (img *IntegralImage) NumRows() int {
	return img.count
}

// RectSum returns the sum of the rectangle spanning rows [row1,row2] and
// columns [col1,col2] inclusive, both 0-indexed. Row row2 and, when row1 > 0,
// row row1-1 must still be resident in the ring (row2 - row1 + 1 < capacity
// and row2 < NumRows()); the caller (the classifier evaluator) guarantees
// this by construction.
func (img *IntegralImage) RectSum(row1, col1, row2, col2 int) float64 {
	top := img.rowColSum(row2, col2) - img.rowColSum(row2, col1-1)
	if row1 == 0 {
		return top
	}
	bottom := img.rowColSum(row1-1, col2) - img.rowColSum(row1-1, col1-1)
	return top - bottom
}

func (img *IntegralImage) rowColSum(row, col int) float64 {
	if row < 0 || col < 0 {
		return 0
	}
	r := img.cum[row%img.capacity]
	return r[col]
}
