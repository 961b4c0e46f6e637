package ecc200

// BitMatrix is a row-major grid of 0/1 module values.
type BitMatrix struct {
	Rows, Cols int
	bits       []bool
}

// NewBitMatrix allocates a zeroed matrix.
func NewBitMatrix(rows, cols int) *BitMatrix {
	return &BitMatrix{Rows: rows, Cols: cols, bits: make([]bool, rows*cols)}
}

// Get reports the module at (row, col).
func (m *BitMatrix) Get(row, col int) bool { return m.bits[row*m.Cols+col] }

// Set assigns the module at (row, col).
func (m *BitMatrix) Set(row, col int, v bool) { m.bits[row*m.Cols+col] = v }

// RemoveAlignmentPatterns strips the one-module border surrounding each
// region of raw (the full measured grid, L-finder + dashed sides + any
// internal alignment rows/columns) and concatenates the remaining data
// modules of every region into one contiguous matrix of size
// spec.UsableRows() x spec.UsableCols().
//
// Grounded on original_source/datamatrix_decoder.cpp's mergeRegion(),
// generalized to keep the raw and usable dimensions as distinct values
// (spec.md section 9, DESIGN.md open-question decision 1) instead of
// reassigning a single numRows/numColumns pair in place.
func RemoveAlignmentPatterns(raw *BitMatrix, spec SymbolSpec) *BitMatrix {
	out := NewBitMatrix(spec.UsableRows(), spec.UsableCols())

	regionHeight := spec.DataRows + 2
	regionWidth := spec.DataCols + 2

	for rr := 0; rr < spec.RegionRows; rr++ {
		for rc := 0; rc < spec.RegionCols; rc++ {
			rawRowBase := rr * regionHeight
			rawColBase := rc * regionWidth
			outRowBase := rr * spec.DataRows
			outColBase := rc * spec.DataCols
			for r := 0; r < spec.DataRows; r++ {
				for c := 0; c < spec.DataCols; c++ {
					// +1 skips the region's solid/dashed border module.
					v := raw.Get(rawRowBase+r+1, rawColBase+c+1)
					out.Set(outRowBase+r, outColBase+c, v)
				}
			}
		}
	}
	return out
}
