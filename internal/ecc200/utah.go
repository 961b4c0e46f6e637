package ecc200

// utahOffsets are the 8 relative module positions of the Utah template,
// MSB first. Grounded on original_source/datamatrix_decoder.cpp readUtah.
var utahOffsets = [8][2]int{
	{-2, -2}, {-2, -1}, {-1, -2}, {-1, -1}, {-1, 0}, {0, -2}, {0, -1}, {0, 0},
}

// cornerOffsets are the four standard ECC200 corner-codeword placement
// patterns (ISO/IEC 16022 Annex F), addressed relative to the usable data
// matrix's own corners: (numRows-1, numCols-1) is its bottom-right module.
// Each pattern is read when the traversal reaches its trigger position,
// which depends only on the usable dimensions (for example 14x14 reads
// pattern 1 and 12x12 reads none); the UsesCornerPattern flag in the size
// table is not consulted here.
var cornerOffsets = map[int]func(numRows, numCols int) [8][2]int{
	1: func(nr, nc int) [8][2]int {
		return [8][2]int{
			{nr - 1, 0}, {nr - 1, 1}, {nr - 1, 2},
			{0, nc - 2}, {0, nc - 1},
			{1, nc - 1}, {2, nc - 1}, {3, nc - 1},
		}
	},
	2: func(nr, nc int) [8][2]int {
		return [8][2]int{
			{nr - 3, 0}, {nr - 2, 0}, {nr - 1, 0},
			{0, nc - 4}, {0, nc - 3}, {0, nc - 2}, {0, nc - 1},
			{1, nc - 1},
		}
	},
	3: func(nr, nc int) [8][2]int {
		return [8][2]int{
			{nr - 3, 0}, {nr - 2, 0}, {nr - 1, 0},
			{0, nc - 2}, {0, nc - 1},
			{1, nc - 1}, {2, nc - 1}, {3, nc - 1},
		}
	},
	4: func(nr, nc int) [8][2]int {
		return [8][2]int{
			{nr - 1, 0}, {nr - 1, nc - 1},
			{0, nc - 3}, {0, nc - 2}, {0, nc - 1},
			{1, nc - 3}, {1, nc - 2}, {1, nc - 1},
		}
	},
}

// AssembleCodewords walks the ECC200 Utah traversal over data (the
// alignment-pattern-stripped, region-concatenated matrix) and returns the
// sequence of 8-bit codewords it produces, MSB first per codeword.
//
// Grounded on original_source/datamatrix_decoder.cpp getWords()/readModule()/
// readUtah()/readCorner1..4(), and on spec.md section 4.4.
func AssembleCodewords(data *BitMatrix, spec SymbolSpec) []byte {
	numRows := spec.UsableRows()
	numCols := spec.UsableCols()

	read := make([]bool, numRows*numCols)
	markRead := func(row, col int) { read[row*numCols+col] = true }
	isRead := func(row, col int) bool { return read[row*numCols+col] }

	readModule := func(row, col int) bool {
		if row < 0 {
			row += numRows
			col += 4 - ((numRows + 4) % 8)
		}
		if col < 0 {
			col += numCols
			row += 4 - ((numCols + 4) % 8)
		}
		markRead(row, col)
		return data.Get(row, col)
	}

	readTemplate := func(row, col int, offsets [8][2]int) byte {
		var w byte
		for _, o := range offsets {
			w <<= 1
			if readModule(row+o[0], col+o[1]) {
				w |= 1
			}
		}
		return w
	}

	var corner1Read, corner2Read, corner3Read, corner4Read bool
	codewords := make([]byte, 0, spec.TotalWords())

	place := func(row, col int) {
		if row >= 0 && row < numRows && col >= 0 && col < numCols && !isRead(row, col) {
			codewords = append(codewords, readTemplate(row, col, utahOffsets))
		}
	}

	row, col := 4, 0
	for row < numRows || col < numCols {
		if row == numRows && col == 0 && !corner1Read {
			corner1Read = true
			codewords = append(codewords, readTemplate(0, 0, cornerOffsets[1](numRows, numCols)))
		}
		if row == numRows-2 && col == 0 && numCols%4 != 0 && !corner2Read {
			corner2Read = true
			codewords = append(codewords, readTemplate(0, 0, cornerOffsets[2](numRows, numCols)))
		}
		if row == numRows-2 && col == 0 && numCols%8 == 4 && !corner3Read {
			corner3Read = true
			codewords = append(codewords, readTemplate(0, 0, cornerOffsets[3](numRows, numCols)))
		}
		if row == numRows+4 && col == 2 && numCols%8 == 0 && !corner4Read {
			corner4Read = true
			codewords = append(codewords, readTemplate(0, 0, cornerOffsets[4](numRows, numCols)))
		}

		// sweep NE
		for row >= 0 && col < numCols {
			place(row, col)
			row -= 2
			col += 2
		}
		row += 1
		col += 3

		// sweep SW
		for row < numRows && col >= 0 {
			place(row, col)
			row += 2
			col -= 2
		}
		row += 3
		col += 1
	}

	return codewords
}
