package locator

import (
	"image"

	"github.com/go-dmtx/dmtx200/internal/imaging"
	"github.com/go-dmtx/dmtx200/internal/utils"
)

// Located is one candidate symbol the locator has rectified: a square
// binary crop ready for the grid reader, plus the quadrilateral corners it
// was cut from, in the original image's coordinate space.
type Located struct {
	Image    *image.Gray
	Corners  [4]utils.Point // p1, p0, p2, px, in that cyclic order
	Position Position       // which corner of the contour's bounding box the L's home point settled on
}

// LocateSymbols runs the Symbol Locator (spec.md section 4.2) over every
// contour the Image Conditioner kept, in isolation from the others. img is
// the original (non-binary) image the contours were found in, grid is the
// binary mask that produced them, and cfg is the Image Conditioner
// configuration to re-run for the second rectification pass. Contours that
// fail any locator stage are silently dropped; only fully rectified
// symbols are returned.
func LocateSymbols(img image.Image, grid *imaging.BitGrid, contours []imaging.Contour, cfg imaging.Config) []Located {
	var out []Located
	for _, c := range contours {
		if loc, ok := locateOne(img, grid, c.Points, cfg); ok {
			out = append(out, loc)
		}
	}
	return out
}

func locateOne(img image.Image, grid *imaging.BitGrid, contour []utils.Point, cfg imaging.Config) (Located, bool) {
	if len(contour) < 4 {
		return Located{}, false
	}

	bound, vertex := seedVertices(contour)

	l, ok := checkOrthogonal(contour, bound)
	if !ok {
		l, ok = getLShape(contour, vertex)
		if !ok {
			return Located{}, false
		}
		if !calibrateLShape(contour, &l) {
			return Located{}, false
		}
	}
	if l.Position == PositionUnknown {
		return Located{}, false
	}

	calibrateP0(&l)
	redefineAnglePosition(&l)

	if !checkBlankL(grid, &l) {
		return Located{}, false
	}
	if !setPx(grid, 2, &l) {
		return Located{}, false
	}
	paddingLShape(grid, true, &l)

	if !enlargeLShape(&l, grid.W, grid.H) {
		return Located{}, false
	}

	corners := [4]utils.Point{l.P1.Location, l.P0.Location, l.P2.Location, l.Px.Location}

	size := quadSize(&l)
	if size <= 0 {
		return Located{}, false
	}

	firstPass := rectify(img, &l, size)

	binary1, _ := imaging.Process(firstPass, cfg)

	// The first rectification already made the quadrilateral canonical:
	// p1 at the top-left, p0 at the bottom-left, p2 at the bottom-right.
	// The second pass re-derives px from that canonical square to absorb
	// any residual skew imaging.Process's own threshold introduces.
	side := float64(size - 1)
	l.P0 = Vertex{Location: utils.Point{X: 0, Y: side}, Index: -1}
	l.P1 = Vertex{Location: utils.Point{X: 0, Y: 0}, Index: -1}
	l.P2 = Vertex{Location: utils.Point{X: side, Y: side}, Index: -1}
	l.Angle1, l.Angle2 = 90.0, 0.0
	l.Reversed = false

	if !setPx(binary1, 5, &l) {
		return Located{}, false
	}
	paddingLShape(binary1, false, &l)

	final := rectify(firstPass, &l, size)

	return Located{Image: final, Corners: corners, Position: l.Position}, true
}
