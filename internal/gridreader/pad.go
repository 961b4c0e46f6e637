package gridreader

import (
	"github.com/go-dmtx/dmtx200/internal/imaging"
	"github.com/go-dmtx/dmtx200/internal/utils"
)

const (
	dashPadMinBrightRate = 0.2
	dashPadTryTimes      = 6
)

// padDashedSides trims the residual quiet zone off the rectified crop's two
// dashed sides (top and right, in the canonical square the Symbol Locator
// produces: the L's solid legs run along the left and bottom edges). It
// walks the right column inward and the top row downward, one pixel at a
// time, until each line's bright rate clears 20%, and reports how far each
// had to move. Fails if either walk exhausts its budget without clearing
// the threshold, meaning no plausible module boundary was ever found.
func padDashedSides(grid *imaging.BitGrid) (trimRight, trimTop int, ok bool) {
	w, h := grid.W, grid.H

	rightLine := utils.Point{X: float64(w - 1), Y: float64(h - 1)}
	const rightAngle = 270.0
	const rightStepAngle = rightAngle + 90.0 // walks x leftward on each retry

	i := 0
	for ; i < dashPadTryTimes; i++ {
		if brightRateInLine(grid, rightLine, rightAngle, h, +1) >= dashPadMinBrightRate {
			break
		}
		rightLine = movePixel(rightLine, rightStepAngle, 1, +1)
	}
	trimRight = i
	if trimRight == dashPadTryTimes {
		return 0, 0, false
	}

	topLine := utils.Point{X: 0, Y: 0}
	const topAngle = 180.0
	const topStepAngle = topAngle - 90.0 // walks y downward on each retry

	i = 0
	for ; i < dashPadTryTimes; i++ {
		if brightRateInLine(grid, topLine, topAngle, w, +1) >= dashPadMinBrightRate {
			break
		}
		topLine = movePixel(topLine, topStepAngle, 1, +1)
	}
	trimTop = i
	if trimTop == dashPadTryTimes {
		return 0, 0, false
	}

	return trimRight, trimTop, true
}
