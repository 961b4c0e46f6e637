// Package gridreader implements the Grid Reader (spec.md section 4.3): it
// takes the Symbol Locator's rectified square crop, trims the residual
// quiet zone off the two dashed sides, determines the module grid size,
// fits row/column lines to the actual module boundaries, and classifies
// each cell as a 0/1 module, settling ambiguous cells with a second,
// reversed-polarity pass.
//
// Grounded on original_source/datamatrix_reader.{h,cpp} (PaddingDash,
// GetCodeSize/GetDashNumber, SetGrid/FitRow/FitCol, ScoreGrid/GetScore/
// GetCenterScore/GetAverage, ReadCodes/PaintGrid).
package gridreader

import (
	"image"
	"math"

	"github.com/go-dmtx/dmtx200/internal/imaging"
	"github.com/go-dmtx/dmtx200/internal/utils"
)

// movePixel mirrors internal/locator's helper of the same name: kept as a
// small, separately-grounded duplicate rather than an exported cross-package
// dependency, the way original_source's free functions in
// datamatrix_locator.cpp are reused as-is by datamatrix_reader.cpp with no
// shared header-private boundary between the two translation units.
func movePixel(p0 utils.Point, angle float64, step float64, direction int) utils.Point {
	rad := math.Pi * angle / 180.0
	x := p0.X - float64(direction)*math.Cos(rad)*step
	y := p0.Y + float64(direction)*math.Sin(rad)*step
	return utils.Point{X: math.Floor(x + 0.5), Y: math.Floor(y + 0.5)}
}

// brightRateInLine walks `length` pixels from p0 along angle over a BitGrid
// and returns the fraction landing on a bright module.
func brightRateInLine(grid *imaging.BitGrid, p0 utils.Point, angle float64, length int, direction int) float64 {
	if length <= 0 {
		return 0
	}
	bright := 0
	for i := 0; i < length; i++ {
		p := movePixel(p0, angle, float64(i), direction)
		if grid.Get(int(p.X), int(p.Y)) {
			bright++
		}
	}
	return float64(bright) / float64(length)
}

// gray8 returns the grayscale byte at (x,y), 0 outside bounds.
func gray8(img *image.Gray, x, y int) byte {
	b := img.Bounds()
	if x < b.Min.X || y < b.Min.Y || x >= b.Max.X || y >= b.Max.Y {
		return 0
	}
	return img.GrayAt(x, y).Y
}
