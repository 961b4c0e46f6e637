package locator

import (
	"math"

	"github.com/go-dmtx/dmtx200/internal/utils"
)

const (
	calibrateSampleSize  = 6
	calibrateErrorLimit  = 2.0
	calibrateMaxTrack    = 30
	calibrateAngleBucket = 180
)

// calibrateLShape refines angle1/p1 and angle2/p2 with a Hough-style vote
// (spec.md 4.2.4), used on the rotated-path candidate once getLShape has
// picked the two solid legs.
func calibrateLShape(contour []utils.Point, l *LShape) bool {
	home1, home2 := l.P0, l.P0
	a := calibrateAngle(contour, home1, +1, &l.P1, &l.Angle1)
	b := calibrateAngle(contour, home2, -1, &l.P2, &l.Angle2)

	diff := math.Abs(l.Angle1 - l.Angle2)
	if diff < 45.0 || diff > 135.0 {
		return false
	}
	return a && b
}

// calibrateAngle samples calibrateSampleSize points along the contour
// segment between p0 and p (exclusive of p0), forms the angle from each
// sample to every other point on the segment, and keeps the (sample,angle)
// pair with the most votes. It rejects if the winning vote count is below
// a quarter of the segment length, otherwise nudges p outward/inward to
// match the winning angle and reports the refined angle back to the
// caller.
func calibrateAngle(contour []utils.Point, p0 Vertex, direction int, p *Vertex, angle *float64) bool {
	total := len(contour)

	path := direction * (p0.Index - p.Index)
	if path < 0 {
		path += total
	}
	if path == 0 {
		return false
	}
	minHough := path / 4

	interval := path / (calibrateSampleSize + 1)
	if interval == 0 {
		return false
	}

	samples := make([]Vertex, calibrateSampleSize)
	for i := 0; i < calibrateSampleSize; i++ {
		idx := wrapIndex(p.Index+direction*interval*(i+1), total)
		samples[i] = Vertex{Location: contour[idx], Index: idx}
	}

	hough := make([]int, calibrateSampleSize*calibrateAngleBucket)
	maxHough, maxAngle, maxSample := 0, -1, -1

	idx := p.Index
	for {
		idx = wrapIndex(idx, total)
		if idx == wrapIndex(p0.Index+1, total) || idx == wrapIndex(p0.Index-1, total) {
			break
		}
		current := contour[idx]
		for i, s := range samples {
			if s.Index == idx {
				continue
			}
			a := angleInt(s.Location, current)
			if a < 0 {
				a = 0
			}
			if a >= calibrateAngleBucket {
				a = calibrateAngleBucket - 1
			}
			hough[i*calibrateAngleBucket+a]++
			if v := hough[i*calibrateAngleBucket+a]; v > maxHough {
				maxHough, maxAngle, maxSample = v, a, i
			}
		}
		idx += direction
	}
	if maxHough < minHough {
		return false
	}

	best := samples[maxSample]
	diff := float64(maxAngle) - *angle
	switch {
	case (diff < 0.0 && diff > -90.0) || diff > 90.0: // clockwise
		calibrateP1P2(contour, best, maxAngle, -1, -direction, p)
	case (diff > 0.0 && diff < 90.0) || diff < -90.0: // counter-clockwise
		calibrateP1P2(contour, best, maxAngle, +1, +direction, p)
	}
	*angle = float64(maxAngle)
	return true
}

// calibrateP1P2 walks p forward or backward along the contour until the
// angle it forms with best differs from the target angle by less than
// calibrateErrorLimit degrees (orient +1), or until it first exceeds that
// tolerance (orient -1, walking further from home).
func calibrateP1P2(contour []utils.Point, best Vertex, angle int, direction, orient int, p *Vertex) {
	total := len(contour)
	final := *p
	idx := p.Index + direction

	for counter := 0; counter <= calibrateMaxTrack; counter++ {
		idx = wrapIndex(idx, total)
		current := contour[idx]
		diff := math.Abs(angleF(best.Location, current) - float64(angle))
		switch orient {
		case -1:
			if diff > calibrateErrorLimit {
				*p = final
				return
			}
			final = Vertex{Location: current, Index: idx}
		case +1:
			if diff < calibrateErrorLimit {
				*p = Vertex{Location: current, Index: idx}
				return
			}
		}
		idx += direction
	}
	*p = final
}

func wrapIndex(idx, total int) int {
	idx %= total
	if idx < 0 {
		idx += total
	}
	return idx
}
