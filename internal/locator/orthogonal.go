package locator

import "github.com/go-dmtx/dmtx200/internal/utils"

const (
	orthogonalGapPx      = 4.0
	orthogonalOverlayMin = 0.70
)

// checkOrthogonal implements the L-finder fast path (spec.md 4.2.2). The
// original measures coverage by counting raw per-pixel contour points
// within orthogonalGapPx of each bounding-box side; this package's
// contours are collinearity-pruned polylines (see internal/imaging), so a
// perfectly straight side may carry only its two endpoints. Coverage is
// measured instead as the total length of contour segments that run
// entirely within orthogonalGapPx of a side, which reduces to the same
// point-density count on a dense contour and stays meaningful on a pruned
// one.
func checkOrthogonal(contour []utils.Point, bound utils.Box) (LShape, bool) {
	var covered [4]float64 // 0:top, 1:left, 2:bottom, 3:right
	n := len(contour)
	near := func(side int, p utils.Point) bool {
		switch side {
		case 0:
			return p.Y-bound.MinY < orthogonalGapPx
		case 1:
			return p.X-bound.MinX < orthogonalGapPx
		case 2:
			return bound.MaxY-p.Y < orthogonalGapPx
		default:
			return bound.MaxX-p.X < orthogonalGapPx
		}
	}
	for i := 0; i < n; i++ {
		a := contour[i]
		b := contour[(i+1)%n]
		segLen := distance(a, b)
		for side := 0; side < 4; side++ {
			if near(side, a) && near(side, b) {
				covered[side] += segLen
			}
		}
	}

	sideLength := func(side int) float64 {
		if side%2 == 1 {
			return bound.Height()
		}
		return bound.Width()
	}

	max1, idx1 := 0.0, 0
	for i, c := range covered {
		if c > max1 {
			max1, idx1 = c, i
		}
	}
	if sideLength(idx1) <= 0 || max1/sideLength(idx1) < orthogonalOverlayMin {
		return LShape{}, false
	}

	max2, idx2 := 0.0, -1
	for i, c := range covered {
		if i != idx1 && c > max2 {
			max2, idx2 = c, i
		}
	}
	if idx2 < 0 || sideLength(idx2) <= 0 || max2/sideLength(idx2) < orthogonalOverlayMin {
		return LShape{}, false
	}

	l := LShape{Position: PositionUnknown}
	tl := utils.Point{X: bound.MinX, Y: bound.MinY}
	bl := utils.Point{X: bound.MinX, Y: bound.MaxY}
	br := utils.Point{X: bound.MaxX, Y: bound.MaxY}
	tr := utils.Point{X: bound.MaxX, Y: bound.MinY}

	pair := func(a, b int) bool { return (idx1 == a && idx2 == b) || (idx1 == b && idx2 == a) }
	switch {
	case pair(0, 1):
		l.Position = PositionTopLeft
		l.P0 = Vertex{Location: tl, Index: -1}
		l.P1 = Vertex{Location: tr, Index: -1}
		l.P2 = Vertex{Location: bl, Index: -1}
		l.Angle1, l.Angle2 = 0.0, 90.0
	case pair(1, 2):
		l.Position = PositionLeftBottom
		l.P0 = Vertex{Location: bl, Index: -1}
		l.P1 = Vertex{Location: tl, Index: -1}
		l.P2 = Vertex{Location: br, Index: -1}
		l.Angle1, l.Angle2 = 90.0, 0.0
	case pair(2, 3):
		l.Position = PositionBottomRight
		l.P0 = Vertex{Location: br, Index: -1}
		l.P1 = Vertex{Location: bl, Index: -1}
		l.P2 = Vertex{Location: tr, Index: -1}
		l.Angle1, l.Angle2 = 0.0, 90.0
	case pair(3, 0):
		l.Position = PositionRightTop
		l.P0 = Vertex{Location: tr, Index: -1}
		l.P1 = Vertex{Location: br, Index: -1}
		l.P2 = Vertex{Location: tl, Index: -1}
		l.Angle1, l.Angle2 = 90.0, 0.0
	default:
		return LShape{}, false
	}
	if l.Position == PositionUnknown {
		return LShape{}, false
	}

	// Refine p1/p2 to the nearest contour points to the corresponding
	// bounding-box corners rather than the corners themselves.
	l.P1 = nearestContourPoint(contour, l.P1.Location)
	l.P2 = nearestContourPoint(contour, l.P2.Location)

	return l, true
}

func nearestContourPoint(contour []utils.Point, target utils.Point) Vertex {
	best := distancePow(contour[0], target)
	bestIdx := 0
	for i, p := range contour[1:] {
		d := distancePow(p, target)
		if d < best {
			best = d
			bestIdx = i + 1
		}
	}
	return Vertex{Location: contour[bestIdx], Index: bestIdx}
}
