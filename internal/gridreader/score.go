package gridreader

import (
	"image"
	"math"

	"github.com/go-dmtx/dmtx200/internal/imaging"
)

const (
	scoreGateDark   = 0.25
	scoreGateBright = 0.75
)

// scoreGrid computes each cell's bright fraction against the re-binarized
// crop, snapping it to 0/1 once it clears a gate and leaving it as a raw
// fraction when ambiguous (for reassessment in readCodes), and separately
// averages the original grayscale value of every cell that did clear a
// gate, split by which side it cleared. Those two averages become the
// repaint colors for ambiguous cells.
func scoreGrid(bin *imaging.BitGrid, orig *image.Gray, rows, cols int, rowPos, colPos []int) (scores []float64, darkAvg, brightAvg byte) {
	scores = make([]float64, rows*cols)
	var darkSum, brightSum float64
	var nDark, nBright int

	for j := 0; j < rows; j++ {
		y0, y1 := rowPos[j], rowPos[j+1]
		for i := 0; i < cols; i++ {
			idx := cols*j + i
			x0, x1 := colPos[i], colPos[i+1]

			score := cellScore(bin, x0, y0, x1, y1)
			average := cellAverage(orig, x0, y0, x1, y1)
			scores[idx] = score

			switch {
			case score <= scoreGateDark:
				scores[idx] = 0.0
				darkSum += average
				nDark++
			case score >= scoreGateBright:
				scores[idx] = 1.0
				brightSum += average
				nBright++
			}
		}
	}

	if nDark == 0 {
		darkAvg = 0
	} else {
		darkAvg = clampByte(math.Round(darkSum / float64(nDark)))
	}
	if nBright == 0 {
		brightAvg = 255
	} else {
		brightAvg = clampByte(math.Round(brightSum / float64(nBright)))
	}
	return scores, darkAvg, brightAvg
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// cellScore returns the bright fraction of a cell's interior, excluding
// the one-pixel border shared with its neighbors the way the original
// avoids double-counting grid lines.
func cellScore(bin *imaging.BitGrid, x0, y0, x1, y1 int) float64 {
	bright, total := 0, 0
	for y := y0 + 1; y < y1; y++ {
		for x := x0 + 1; x < x1; x++ {
			total++
			if bin.Get(x, y) {
				bright++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(bright) / float64(total)
}

// centerScore is cellScore restricted to the 3x3 patch (2x2 for odd spans)
// at the cell's center, used to re-settle an ambiguous cell after a
// reversed-polarity repaint pass.
func centerScore(bin *imaging.BitGrid, x0, y0, x1, y1 int) float64 {
	xEnd := (x1+x0)/2 + 1
	var xBegin int
	if (x1-x0)%2 == 0 {
		xBegin = (x1+x0)/2 - 1
	} else {
		xBegin = (x1 + x0) / 2
	}
	yEnd := (y1+y0)/2 + 1
	var yBegin int
	if (y1-y0)%2 == 0 {
		yBegin = (y1+y0)/2 - 1
	} else {
		yBegin = (y1 + y0) / 2
	}

	bright, total := 0, 0
	for y := yBegin; y <= yEnd; y++ {
		for x := xBegin; x <= xEnd; x++ {
			total++
			if bin.Get(x, y) {
				bright++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(bright) / float64(total)
}

// cellAverage returns the mean grayscale value of a cell's interior in the
// original (pre-binarization) crop.
func cellAverage(orig *image.Gray, x0, y0, x1, y1 int) float64 {
	var total int
	var n int
	for y := y0 + 1; y < y1; y++ {
		for x := x0 + 1; x < x1; x++ {
			total += int(gray8(orig, x, y))
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}
