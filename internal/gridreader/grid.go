package gridreader

import (
	"math"

	"github.com/go-dmtx/dmtx200/internal/imaging"
)

const fitSearchRadius = 2 // FitRow/FitCol search a 5-pixel window, [-2,+2]

// contourMask rasterizes every point of grid's bright/dark boundary
// contours into a W*H boolean plane, mirroring the original's approach of
// drawing findContours' output into a blank canvas before counting pixel
// density per row/column band. A freshly-traced contour set is cheap
// enough here that caching it isn't worth the complexity.
func contourMask(grid *imaging.BitGrid) []bool {
	mask := make([]bool, grid.W*grid.H)
	for _, c := range imaging.ExtractContours(grid) {
		for _, p := range c.Points {
			x, y := int(p.X), int(p.Y)
			if x < 0 || y < 0 || x >= grid.W || y >= grid.H {
				continue
			}
			mask[y*grid.W+x] = true
		}
	}
	return mask
}

// setGrid lays out size_vert+1 row lines and size_hori+1 column lines at
// even module spacing, then nudges every line except the last (which
// stays on the far image edge) to the nearest
// contour-dense position within fitSearchRadius pixels, following module
// boundaries the initial even split misses on a slightly skewed crop.
func setGrid(grid *imaging.BitGrid, rows, cols int) (rowPos, colPos []int) {
	mask := contourMask(grid)
	rowPos = make([]int, rows+1)
	colPos = make([]int, cols+1)

	rowPos[0], colPos[0] = 0, 0
	rowPos[rows] = grid.H - 1
	colPos[cols] = grid.W - 1

	blockVert := float64(grid.H) / float64(rows)
	for j := 0; j < rows; j++ {
		y := int(math.Floor(blockVert*float64(j) + 0.5))
		rowPos[j] = fitRow(mask, grid.W, grid.H, y)
	}

	blockHori := float64(grid.W) / float64(cols)
	for j := 0; j < cols; j++ {
		x := int(math.Floor(blockHori*float64(j) + 0.5))
		colPos[j] = fitCol(mask, grid.W, grid.H, x)
	}

	return rowPos, colPos
}

func fitRow(mask []bool, w, h, y int) int {
	best, bestOffset, found := 0, 0, false
	for i := -fitSearchRadius; i <= fitSearchRadius; i++ {
		y0 := y + i
		if y0 < 0 || y0 >= h {
			continue
		}
		n := 0
		for x := 0; x < w; x++ {
			if mask[y0*w+x] {
				n++
			}
		}
		if n > best {
			best = n
			bestOffset = i
			found = true
		}
	}
	if !found {
		return y
	}
	return y + bestOffset
}

func fitCol(mask []bool, w, h, x int) int {
	best, bestOffset, found := 0, 0, false
	for i := -fitSearchRadius; i <= fitSearchRadius; i++ {
		x0 := x + i
		if x0 < 0 || x0 >= w {
			continue
		}
		n := 0
		for y := 0; y < h; y++ {
			if mask[y*w+x0] {
				n++
			}
		}
		if n > best {
			best = n
			bestOffset = i
			found = true
		}
	}
	if !found {
		return x
	}
	return x + bestOffset
}
