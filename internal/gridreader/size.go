package gridreader

import (
	"github.com/go-dmtx/dmtx200/internal/imaging"
	"github.com/go-dmtx/dmtx200/internal/utils"
)

const (
	dashMinIsland    = 1
	dashMin2MaxRate  = 0.3
	codeSizeTryTimes = 6
	minHoriModules   = 10
	minVertModules   = 8
)

// dashNumber walks `length` pixels from p along angle and counts the
// dashed border's module pairs, the way a dashed finder side alternates
// bright/dark once per module. It rejects runs whose bright (or dark)
// islands vary too much in length to be real modules, and rejects an
// unequal bright/dark count (the border must end on a dark module, or at
// worst be one bright module short of it). Returns -1 on rejection.
func dashNumber(grid *imaging.BitGrid, p utils.Point, angle float64, length int, direction int) int {
	var brightIslands, darkIslands []int
	isBright := false
	positionBright, positionDark := -1, -1

	for i := 0; i < length; i++ {
		track := movePixel(p, angle, float64(i), direction)
		bright := grid.Get(int(track.X), int(track.Y))

		if !isBright {
			if i == length-1 {
				darkIslands = append(darkIslands, i-positionDark+1)
			} else if bright {
				isBright = true
				positionBright = i
				if positionDark != -1 {
					darkIslands = append(darkIslands, i-positionDark)
				}
			}
		}
		if isBright {
			if i == length-1 {
				brightIslands = append(brightIslands, i-positionBright+1)
			} else if !bright {
				isBright = false
				brightIslands = append(brightIslands, i-positionBright)
				positionDark = i
			}
		}
	}

	nBright, minBright, maxBright := islandStats(brightIslands)
	if float64(minBright)/float64(maxBright) < dashMin2MaxRate {
		return -1
	}
	nDark, minDark, maxDark := islandStats(darkIslands)
	if float64(minDark)/float64(maxDark) < dashMin2MaxRate {
		return -1
	}

	if nBright == nDark || nBright-nDark == 1 {
		return nDark + nDark
	}
	return -1
}

// islandStats filters out islands no longer than dashMinIsland (noise from
// a single stray module misread) and returns the survivor count plus its
// min/max length.
func islandStats(islands []int) (n, min, max int) {
	min = 1 << 30
	for _, length := range islands {
		if length <= dashMinIsland {
			continue
		}
		n++
		if length < min {
			min = length
		}
		if length > max {
			max = length
		}
	}
	if n == 0 {
		min = 0
	}
	return n, min, max
}

// codeSize determines the module grid's column/row counts by sampling the
// dashed top border at six adjacent rows and the dashed right border at six
// adjacent columns, taking the best reading from each and requiring the
// ECC200 minimums of 10 columns and 8 rows.
func codeSize(grid *imaging.BitGrid, fullSpan int) (cols, rows int, ok bool) {
	maxCols := -1
	for j := 0; j < codeSizeTryTimes; j++ {
		p := utils.Point{X: 0, Y: float64(j)}
		if n := dashNumber(grid, p, 0.0, fullSpan, -1); n >= maxCols {
			maxCols = n
		}
	}
	if maxCols < minHoriModules {
		return 0, 0, false
	}

	maxRows := -1
	for j := 0; j < codeSizeTryTimes; j++ {
		p := utils.Point{X: float64(fullSpan - j - 1), Y: float64(fullSpan - 1)}
		if n := dashNumber(grid, p, 90.0, fullSpan, -1); n >= maxRows {
			maxRows = n
		}
	}
	if maxRows < minVertModules {
		return 0, 0, false
	}

	return maxCols, maxRows, true
}
