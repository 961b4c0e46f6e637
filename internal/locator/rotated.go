package locator

import (
	"math"

	"github.com/go-dmtx/dmtx200/internal/utils"
)

const (
	rotatedLineErrorSq   = 0.64 // 0.8^2
	rotatedAspectErrSq   = 0.04 // true aspect ratio >= 0.2, squared
	rotatedMinStepSq     = 1600 // (4*10)^2: 4px minimum module, 10 modules minimum side
	rotatedAngleAdjacent = 45.0
)

// getLShape implements the rotated-path L-finder (spec.md 4.2.3): for each
// of the four vertex-to-next-vertex legs, compute the ratio of straight-line
// distance squared to contour arc-length squared. The two legs with the
// highest ratio (above rotatedLineErrorSq, long enough, and not wildly
// mismatched in length) are taken as the L's two solid sides.
func getLShape(contour []utils.Point, vertex [4]Vertex) (LShape, bool) {
	total := len(contour)
	var lineLenSq [4]float64
	var rate [4]float64

	for i := 0; i < 4; i++ {
		next := (i + 1) % 4
		lineLenSq[i] = distancePow(vertex[i].Location, vertex[next].Location)

		indexDiff := vertex[next].Index - vertex[i].Index
		if indexDiff < 0 {
			indexDiff += total
		}
		stepsSq := float64(indexDiff * indexDiff)
		if stepsSq == 0 {
			continue
		}
		rate[i] = lineLenSq[i] / stepsSq
		if lineLenSq[i] < rotatedMinStepSq {
			rate[i] = 0.0
		}
	}

	max1, idx1 := 0.0, 0
	for i, r := range rate {
		if r > max1 {
			max1, idx1 = r, i
		}
	}
	if max1 < rotatedLineErrorSq {
		return LShape{}, false
	}

	max2, idx2 := 0.0, -1
	for i, r := range rate {
		if i != idx1 && r > max2 {
			max2, idx2 = r, i
		}
	}
	if idx2 < 0 || max2 < rotatedLineErrorSq {
		return LShape{}, false
	}

	shorter, longer := lineLenSq[idx1], lineLenSq[idx2]
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	if longer == 0 || shorter/longer < rotatedAspectErrSq {
		return LShape{}, false
	}

	l := LShape{Position: PositionUnknown}
	pair := func(a, b int) bool { return (idx1 == a && idx2 == b) || (idx1 == b && idx2 == a) }
	switch {
	case pair(0, 1):
		l.Position, l.P0, l.P1, l.P2 = PositionTopLeft, vertex[1], vertex[0], vertex[2]
	case pair(1, 2):
		l.Position, l.P0, l.P1, l.P2 = PositionLeftBottom, vertex[2], vertex[1], vertex[3]
	case pair(2, 3):
		l.Position, l.P0, l.P1, l.P2 = PositionBottomRight, vertex[3], vertex[2], vertex[0]
	case pair(3, 0):
		l.Position, l.P0, l.P1, l.P2 = PositionRightTop, vertex[0], vertex[3], vertex[1]
	default:
		return LShape{}, false
	}
	l.Angle1 = angleF(l.P0.Location, l.P1.Location)
	l.Angle2 = angleF(l.P0.Location, l.P2.Location)

	diff := math.Abs(l.Angle1 - l.Angle2)
	if diff < rotatedAngleAdjacent || diff > 180.0-rotatedAngleAdjacent {
		return LShape{}, false
	}
	return l, true
}
