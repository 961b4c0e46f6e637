// Package locator implements the Symbol Locator: it takes the contours the
// Image Conditioner filtered and, for each one, tries to recover the
// "L"-shaped finder pattern ECC200 symbols are built around (two solid
// sides meeting at a corner, with two dashed sides opposite them), then
// rectifies the quadrilateral into a square binary crop ready for the grid
// reader.
package locator

import (
	"math"

	"github.com/go-dmtx/dmtx200/internal/utils"
)

// Position identifies which corner of the bounding box the L's home point
// p0 sits at, and therefore how p1/p2/angle1/angle2 are oriented.
type Position int

const (
	PositionUnknown Position = -1
	// PositionTopLeft: p0 is the top-left corner, p1 runs right, p2 runs down.
	PositionTopLeft Position = 0
	// PositionLeftBottom: p0 is the bottom-left corner, p1 runs up, p2 runs right.
	PositionLeftBottom Position = 1
	// PositionBottomRight: p0 is the bottom-right corner, p1 runs left, p2 runs up.
	PositionBottomRight Position = 2
	// PositionRightTop: p0 is the top-right corner, p1 runs down, p2 runs left.
	PositionRightTop Position = 3
)

func (p Position) String() string {
	switch p {
	case PositionTopLeft:
		return "top-left"
	case PositionLeftBottom:
		return "left-bottom"
	case PositionBottomRight:
		return "bottom-right"
	case PositionRightTop:
		return "right-top"
	default:
		return "unknown"
	}
}

// Vertex is a contour point tagged with its index along the contour's
// point sequence, so callers can measure arc-length gaps between vertices.
type Vertex struct {
	Location utils.Point
	Index    int // -1 if this point was derived analytically, not sampled
}

// LShape is the finder pattern candidate for one contour: p0 is the home
// corner, p1/p2 are the ends of its two solid legs, and px is the fourth
// corner of the quadrilateral (diagonally opposite p0), found once the two
// dashed sides have been traced.
type LShape struct {
	P0, P1, P2, Px Vertex
	Position       Position
	Angle1, Angle2 float64 // degrees, direction from p0 toward p1 and p2
	Reversed       bool
}

// distancePow returns the squared Euclidean distance between two points.
func distancePow(p1, p2 utils.Point) float64 {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	return dx*dx + dy*dy
}

// distance returns the Euclidean distance between two points.
func distance(p1, p2 utils.Point) float64 {
	return math.Sqrt(distancePow(p1, p2))
}

// angleF returns the angle in degrees (0..180) of the line from p1 to p0,
// measured the way the rest of this package expects: vertical lines read
// 90°, and the angle is folded into [0,180) regardless of direction.
func angleF(p0, p1 utils.Point) float64 {
	dx := p0.X - p1.X
	dy := p0.Y - p1.Y
	var angle float64
	if dx != 0.0 {
		theta := math.Atan(dy / dx)
		angle = theta * 180.0 / math.Pi
	} else {
		angle = 90.0
	}
	if angle > 0 {
		angle = 180.0 - angle
	} else {
		angle = -angle
	}
	return angle
}

// angleInt is angleF rounded to the nearest integer degree, used as a
// histogram bucket during Hough-style angle calibration.
func angleInt(p0, p1 utils.Point) int {
	return int(math.Floor(angleF(p0, p1) + 0.5))
}

// movePixel steps `step` pixels from p0 along `angle` (degrees); direction
// +1 moves by (-cos a, +sin a)·step (angle 0 heads toward -x, 90 toward
// +y); -1 moves the opposite way.
func movePixel(p0 utils.Point, angle float64, step float64, direction int) utils.Point {
	rad := math.Pi * angle / 180.0
	x := p0.X - float64(direction)*math.Cos(rad)*step
	y := p0.Y + float64(direction)*math.Sin(rad)*step
	return utils.Point{
		X: math.Floor(x + 0.5),
		Y: math.Floor(y + 0.5),
	}
}

// analyticalCorner intersects the two rays through p1 (direction angle1)
// and p2 (direction angle2) to find the home corner p0. This replaces a
// noisy sampled home point once angle1/angle2 have been calibrated.
func analyticalCorner(p1, p2 utils.Point, angle1, angle2 float64) utils.Point {
	a1 := math.Pi * angle1 / 180.0
	a2 := math.Pi * angle2 / 180.0

	var x, y float64
	switch {
	case angle1 == 90.0 || angle1 == 270.0:
		x = p1.X
		y = (p2.X-x)*math.Tan(a2) + p2.Y
	case angle1 == 0.0 || angle1 == 180.0:
		y = p1.Y
		x = (p2.Y-y)/math.Tan(a2) + p2.X
	case angle2 == 90.0 || angle2 == 270.0:
		x = p2.X
		y = (p1.X-x)*math.Tan(a1) + p1.Y
	case angle2 == 0.0 || angle2 == 180.0:
		y = p2.Y
		x = (p1.Y-y)/math.Tan(a1) + p1.X
	default:
		x = (math.Tan(a2)*p2.X - math.Tan(a1)*p1.X - p1.Y + p2.Y) / (math.Tan(a2) - math.Tan(a1))
		y = p1.Y + math.Tan(a1)*(p1.X-x)
	}
	return utils.Point{X: math.Floor(x + 0.5), Y: math.Floor(y + 0.5)}
}

// calibrateP0 recomputes p0 from the current p1/p2/angle1/angle2.
func calibrateP0(l *LShape) {
	corner := analyticalCorner(l.P1.Location, l.P2.Location, l.Angle1, l.Angle2)
	l.P0 = Vertex{Location: corner, Index: -1}
}

// redefineAnglePosition normalizes angle1/angle2 from the 0..180 range
// produced by angleF into a full 0..360 range, and fixes up Position from
// the now-settled geometry. Run once after calibration, before blank-L
// verification.
func redefineAnglePosition(l *LShape) {
	p0 := l.P0.Location
	x1, y1 := l.P1.Location.X, l.P1.Location.Y

	switch {
	case l.Angle1 > 45.0 && l.Angle1 < 135.0:
		if p0.Y > y1 {
			l.Position = PositionLeftBottom
		} else {
			l.Position = PositionRightTop
		}
	case l.Angle1 <= 45.0 || l.Angle1 >= 135.0:
		if p0.X < x1 {
			l.Position = PositionTopLeft
		} else {
			l.Position = PositionBottomRight
		}
	}

	switch l.Position {
	case PositionTopLeft:
		if l.Angle1 > 90.0 {
			l.Angle1 += 180.0
		}
		l.Angle2 += 180.0
	case PositionLeftBottom:
		if l.Angle2 > 90.0 {
			l.Angle2 += 180.0
		}
	case PositionBottomRight:
		if l.Angle1 < 90.0 {
			l.Angle1 += 180.0
		}
	case PositionRightTop:
		l.Angle1 += 180.0
		if l.Angle2 < 90.0 {
			l.Angle2 += 180.0
		}
	}
}
