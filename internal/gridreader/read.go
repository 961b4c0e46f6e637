package gridreader

import "github.com/go-dmtx/dmtx200/internal/imaging"

const centerScoreGate = 0.66

// paintGrid overwrites a cell's full span, border pixels included, with a
// uniform value. Confident cells get flattened this way before the
// reversed-polarity re-threshold so their busy checkerboard detail doesn't
// skew the adaptive threshold's neighborhood average around the ambiguous
// cells sitting between them.
func paintGrid(canvas *imaging.GrayPlane, rowPos, colPos []int, i, j int, value byte) {
	x0, x1 := colPos[i], colPos[i+1]
	y0, y1 := rowPos[j], rowPos[j+1]
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			canvas.Pix[y*canvas.W+x] = value
		}
	}
}

// readCodes settles every cell already classified as 0/1 in scores as-is,
// and resolves the remaining ambiguous cells by painting every confident
// cell with its averaged grayscale color, re-thresholding the whole crop
// with reversed polarity, and re-scoring just the ambiguous cells' centers
// against that fresher boundary.
func readCodes(bin *imaging.BitGrid, rows, cols int, rowPos, colPos []int, darkAvg, brightAvg byte, scores []float64, cfg imaging.Config) []int {
	canvas := imaging.NewGrayPlane(bin.W, bin.H)
	defer canvas.Release()
	for y := 0; y < bin.H; y++ {
		for x := 0; x < bin.W; x++ {
			v := byte(0)
			if bin.Get(x, y) {
				v = 255
			}
			canvas.Pix[y*bin.W+x] = v
		}
	}

	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			idx := cols*j + i
			switch scores[idx] {
			case 1.0:
				paintGrid(canvas, rowPos, colPos, i, j, brightAvg)
			case 0.0:
				paintGrid(canvas, rowPos, colPos, i, j, darkAvg)
			}
		}
	}

	var resettled *imaging.BitGrid
	if cfg.UseFixedThreshold {
		resettled = imaging.FixedThreshold(canvas, cfg.FixedLevel, true)
	} else {
		resettled = imaging.AdaptiveMeanThreshold(canvas, cfg.AdaptiveBlockSize, true)
	}
	defer resettled.Release()

	codes := make([]int, rows*cols)
	for j := 0; j < rows; j++ {
		y0, y1 := rowPos[j], rowPos[j+1]
		for i := 0; i < cols; i++ {
			idx := cols*j + i
			x0, x1 := colPos[i], colPos[i+1]
			if scores[idx] > scoreGateDark && scores[idx] < scoreGateBright {
				if centerScore(resettled, x0, y0, x1, y1) > centerScoreGate {
					scores[idx] = 1.0
				} else {
					scores[idx] = 0.0
				}
			}
			codes[idx] = int(scores[idx])
		}
	}
	return codes
}
