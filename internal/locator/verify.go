package locator

import (
	"math"

	"github.com/go-dmtx/dmtx200/internal/imaging"
	"github.com/go-dmtx/dmtx200/internal/utils"
)

const (
	blankLSteps       = 10
	blankLBrightLimit = 0.05

	dashTrackLimit  = 15 // pixel offsets tried
	dashRotateLimit = 15 // degrees swept either side
	dashBrightLimit = 0.05
	dashMinCount    = 3
	dashMinIsland   = 1 // bright runs of 1px are noise, not a dash

	paddingTryTimes    = 5
	paddingMinBrightRt = 0.6
)

// pixelBright samples the binary grid at p (rounded to the nearest pixel),
// treating out-of-bounds as dark.
func pixelBright(grid *imaging.BitGrid, p utils.Point) bool {
	x, y := int(math.Round(p.X)), int(math.Round(p.Y))
	if x < 0 || y < 0 || x >= grid.W || y >= grid.H {
		return false
	}
	return grid.Get(x, y)
}

// brightRateInLine walks L pixels from p0 along angle (direction +1 forward,
// -1 backward) and returns the fraction that land on a bright module.
func brightRateInLine(grid *imaging.BitGrid, p0 utils.Point, angle float64, length int, direction int) float64 {
	if length <= 0 {
		return 0
	}
	bright := 0
	for i := 0; i < length; i++ {
		track := movePixel(p0, angle, float64(i), direction)
		if pixelBright(grid, track) {
			bright++
		}
	}
	return float64(bright) / float64(length)
}

// dashNumberBright counts maximal bright runs longer than dashMinIsland
// pixels along the track, used to confirm a dashed (alternating) side.
func dashNumberBright(grid *imaging.BitGrid, p0 utils.Point, angle float64, length int, direction int) int {
	islandStart := -1
	count := 0
	for i := 0; i < length; i++ {
		track := movePixel(p0, angle, float64(i), direction)
		bright := pixelBright(grid, track)
		if bright && islandStart < 0 {
			islandStart = i
		}
		if islandStart >= 0 && (!bright || i == length-1) {
			runLen := i - islandStart
			if bright {
				runLen++
			}
			if runLen > dashMinIsland {
				count++
			}
			islandStart = -1
		}
	}
	return count
}

// checkBlankL implements spec.md 4.2.5's quiet-zone confirmation: move p1
// outward (perpendicular to leg 1) up to blankLSteps pixels, requiring the
// bright fraction along a line through the new p1 to drop below
// blankLBrightLimit within that window. Repeat for p2.
func checkBlankL(grid *imaging.BitGrid, l *LShape) bool {
	p1 := l.P1.Location
	p2 := l.P2.Location
	length1 := int(math.Floor(distance(l.P0.Location, p1) + 0.5))
	length2 := int(math.Floor(distance(l.P0.Location, p2) + 0.5))

	angle90P1 := l.Angle1 + 90.0
	angle90P2 := l.Angle2 - 90.0

	moved1 := 0
	for i := 0; i < blankLSteps; i++ {
		p1 = movePixel(p1, angle90P1, 1, -1)
		moved1++
		rate := brightRateInLine(grid, p1, l.Angle1, length1+i, +1)
		if rate < blankLBrightLimit {
			break
		}
	}
	if moved1 == blankLSteps {
		return false
	}

	moved2 := 0
	for i := 0; i < blankLSteps; i++ {
		p2 = movePixel(p2, angle90P2, 1, -1)
		moved2++
		rate := brightRateInLine(grid, p2, l.Angle2, length2+i, +1)
		if rate < blankLBrightLimit {
			break
		}
	}
	if moved2 == blankLSteps {
		return false
	}

	l.P1.Location = p1
	l.P2.Location = p2
	calibrateP0(l)
	return true
}

// findDashedSide implements the second half of spec.md 4.2.5: sweep an
// angular offset and pixel offset from the refined corner point to find
// the dashed side opposite the L, returning the best track's end point and
// its dash count.
func findDashedSide(grid *imaging.BitGrid, origin utils.Point, legAngle float64, otherLegLength float64, rotateSign int) (utils.Point, float64, int, bool) {
	bestAngle := 0.0
	bestRate := -1
	bestJ := -1

	for j := 0; j < dashTrackLimit; j++ {
		probe := movePixel(origin, legAngle, float64(j), -1)
		edge := movePixel(origin, legAngle, float64(j+2), -1)

		for r := -dashRotateLimit; r <= dashRotateLimit; r++ {
			rotate := r
			if rotateSign < 0 {
				rotate = -r
			}
			newAngle := legAngle + 90.0*float64(rotateSign) + float64(rotate)
			trackLen := int(math.Floor(otherLegLength/math.Cos(math.Pi*float64(rotate)/180.0) + 0.5))
			rate := brightRateInLine(grid, edge, newAngle, trackLen, -1)
			if rate < dashBrightLimit {
				count := dashNumberBright(grid, probe, newAngle, trackLen, -1)
				if count > bestRate {
					bestRate = count
					bestAngle = newAngle
					bestJ = j
				}
				break
			}
		}
	}
	if bestJ < 0 || bestRate < dashMinCount {
		return utils.Point{}, 0, 0, false
	}
	end := movePixel(origin, legAngle, float64(bestJ+1), -1)
	return end, bestAngle, bestRate, true
}

// setPx implements spec.md 4.2.5's dashed-side tracking: it finds the
// dashed sides opposite the L's two solid legs and intersects their rays
// to produce px, the quadrilateral's fourth corner.
func setPx(grid *imaging.BitGrid, padding float64, l *LShape) bool {
	p1 := movePixel(l.P1.Location, l.Angle1, padding, +1)
	p2 := movePixel(l.P2.Location, l.Angle2, padding, +1)

	l2 := distance(l.P0.Location, l.P2.Location)
	l1 := distance(l.P0.Location, l.P1.Location)

	end1, angleX1, _, ok1 := findDashedSide(grid, p1, l.Angle1, l2, -1)
	if !ok1 {
		return false
	}
	end2, angleX2, _, ok2 := findDashedSide(grid, p2, l.Angle2, l1, +1)
	if !ok2 {
		return false
	}

	l.P1.Location = end1
	l.P2.Location = end2

	px := analyticalCorner(l.P2.Location, l.P1.Location, angleX2, angleX1)
	l.Px = Vertex{Location: px, Index: -1}
	return true
}

// paddingLShape nudges p1/p2 inward (toward the symbol interior) perpendicular to their legs until the
// bright fraction along the leg reaches paddingMinBrightRt (spec.md 4.2.6's
// "enlarge ... by 2px" is handled separately by enlargeLShape; this
// function is the padding step that precedes it, matching
// original_source's PaddingLShape). When padBack is true the final step
// is walked back by one pixel, used on the first-pass locate where the
// quiet zone should hug the symbol edge rather than the calibration track.
func paddingLShape(grid *imaging.BitGrid, padBack bool, l *LShape) {
	p1 := l.P1.Location
	p2 := l.P2.Location
	length1 := int(math.Floor(distance(l.P0.Location, p1) + 0.5))
	length2 := int(math.Floor(distance(l.P0.Location, p2) + 0.5))

	angle90P1 := l.Angle1 + 90.0
	angle90P2 := l.Angle2 - 90.0

	for i := 0; i < paddingTryTimes; i++ {
		rate := brightRateInLine(grid, p1, l.Angle1, length1+i, +1)
		if rate >= paddingMinBrightRt {
			break
		}
		p1 = movePixel(p1, angle90P1, 1, +1)
	}
	if padBack {
		p1 = movePixel(p1, angle90P1, 1, -1)
	}

	for i := 0; i < paddingTryTimes; i++ {
		rate := brightRateInLine(grid, p2, l.Angle2, length2+i, +1)
		if rate >= paddingMinBrightRt {
			break
		}
		p2 = movePixel(p2, angle90P2, 1, +1)
	}
	if padBack {
		p2 = movePixel(p2, angle90P2, 1, -1)
	}

	l.P1.Location = p1
	l.P2.Location = p2
	calibrateP0(l)
}
