// Package ecc200 implements the ECC200 symbol size table and the "Utah"
// codeword placement template (spec.md sections 3 and 4.4), grounded on
// original_source/datamatrix_decoder.{h,cpp}.
package ecc200

// SymbolSpec describes one entry of the 30-entry ECC200 symbol size table.
//
// TotalRows/TotalCols are the raw module grid dimensions a Grid Reader
// measures directly off the rectified crop (L-finder + dashed sides +
// data + any internal alignment patterns). DataRows/DataCols are the
// usable data modules per region, after removing the per-region border.
// These are kept as separate fields (rather than one field mutated in
// place, as original_source's mergeRegion does) per the aliasing note in
// spec.md section 9.
type SymbolSpec struct {
	TotalRows, TotalCols     int
	RegionRows, RegionCols   int
	DataRows, DataCols       int
	DataWords, ErrorWords    int
	UsesCornerPattern        bool
	CornerPattern            int // 1..4 tag on flagged entries; AssembleCodewords does not read it
}

// UsableRows and UsableCols are the dimensions of the data matrix after
// RemoveAlignmentPatterns concatenates every region's data area together.
func (s SymbolSpec) UsableRows() int { return s.DataRows * s.RegionRows }
func (s SymbolSpec) UsableCols() int { return s.DataCols * s.RegionCols }

// TotalWords is the length of the CodewordStream this spec produces.
func (s SymbolSpec) TotalWords() int { return s.DataWords + s.ErrorWords }

// sizes is the 30-entry ECC200 standard symbol table (24 square + 6
// rectangular sizes), per spec.md section 3 and section 6. Values are the
// canonical ISO/IEC 16022 Table 7 capacities, cross-checked against the
// testable invariant in spec.md section 8: for every entry except the
// four single-region sizes flagged UsesCornerPattern (12x12, 16x16,
// 20x20, 24x24 — precisely the four sizes whose per-region data area is
// not evenly divisible by 8, leaving 4 modules outside every codeword),
// UsableRows*UsableCols == 8*TotalWords().
// See DESIGN.md open-question decision 4 for why those four are exceptions.
var sizes = []SymbolSpec{
	{10, 10, 1, 1, 8, 8, 3, 5, false, 0},
	{12, 12, 1, 1, 10, 10, 5, 7, true, 1},
	{14, 14, 1, 1, 12, 12, 8, 10, false, 0},
	{16, 16, 1, 1, 14, 14, 12, 12, true, 2},
	{18, 18, 1, 1, 16, 16, 18, 14, false, 0},
	{20, 20, 1, 1, 18, 18, 22, 18, true, 3},
	{22, 22, 1, 1, 20, 20, 30, 20, false, 0},
	{24, 24, 1, 1, 22, 22, 36, 24, true, 4},
	{26, 26, 1, 1, 24, 24, 44, 28, false, 0},
	{32, 32, 2, 2, 14, 14, 62, 36, false, 0},
	{36, 36, 2, 2, 16, 16, 86, 42, false, 0},
	{40, 40, 2, 2, 18, 18, 114, 48, false, 0},
	{44, 44, 2, 2, 20, 20, 144, 56, false, 0},
	{48, 48, 2, 2, 22, 22, 174, 68, false, 0},
	{52, 52, 2, 2, 24, 24, 204, 84, false, 0},
	{64, 64, 4, 4, 14, 14, 280, 112, false, 0},
	{72, 72, 4, 4, 16, 16, 368, 144, false, 0},
	{80, 80, 4, 4, 18, 18, 456, 192, false, 0},
	{88, 88, 4, 4, 20, 20, 576, 224, false, 0},
	{96, 96, 4, 4, 22, 22, 696, 272, false, 0},
	{104, 104, 4, 4, 24, 24, 816, 336, false, 0},
	{120, 120, 6, 6, 18, 18, 1050, 408, false, 0},
	{132, 132, 6, 6, 20, 20, 1304, 496, false, 0},
	{144, 144, 6, 6, 22, 22, 1558, 620, false, 0},
	// Rectangular sizes (spec.md section 9: regionRows=1, regionCols in {1,2}).
	{8, 18, 1, 1, 6, 16, 5, 7, false, 0},
	{8, 32, 1, 2, 6, 14, 10, 11, false, 0},
	{12, 26, 1, 1, 10, 24, 16, 14, false, 0},
	{12, 36, 1, 2, 10, 16, 22, 18, false, 0},
	{16, 36, 1, 2, 14, 16, 32, 24, false, 0},
	{16, 48, 1, 2, 14, 22, 49, 28, false, 0},
}

// Lookup returns the SymbolSpec whose (TotalRows, TotalCols) matches the
// given measured grid size.
func Lookup(numRows, numCols int) (SymbolSpec, bool) {
	for _, s := range sizes {
		if s.TotalRows == numRows && s.TotalCols == numCols {
			return s, true
		}
	}
	return SymbolSpec{}, false
}

// All returns every entry in the table, for callers that need to range
// over supported sizes (tests, size-determination heuristics).
func All() []SymbolSpec {
	out := make([]SymbolSpec, len(sizes))
	copy(out, sizes)
	return out
}
