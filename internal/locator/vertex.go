package locator

import (
	"math"

	"github.com/go-dmtx/dmtx200/internal/utils"
)

// seedVertices implements vertex seeding (spec.md 4.2.1): it finds, for
// each corner of the contour's axis-aligned bounding box, the contour
// point closest to it. If those four points enclose less than 75% of the
// bounding box's area the symbol is rotated relative to the image axes,
// and the seed is retried using the contour's extreme top/left/bottom/right
// points instead.
func seedVertices(contour []utils.Point) (bound utils.Box, vertex [4]Vertex) {
	bound = utils.BoundingBox(contour)
	boundCorner := [4]utils.Point{
		{X: bound.MinX, Y: bound.MinY},
		{X: bound.MinX, Y: bound.MaxY},
		{X: bound.MaxX, Y: bound.MaxY},
		{X: bound.MaxX, Y: bound.MinY},
	}

	best := [4]float64{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}
	for i, p := range contour {
		for j := 0; j < 4; j++ {
			d := distancePow(p, boundCorner[j])
			if d < best[j] {
				best[j] = d
				vertex[j] = Vertex{Location: p, Index: i}
			}
		}
	}

	enclosed := utils.BoundingBox([]utils.Point{
		vertex[0].Location, vertex[1].Location, vertex[2].Location, vertex[3].Location,
	})
	enclosedArea := enclosed.Width() * enclosed.Height()
	boundArea := bound.Width() * bound.Height()
	rotateRate := 0.0
	if boundArea > 0 {
		rotateRate = enclosedArea / boundArea
	}

	if rotateRate < 0.75 {
		top, left, bottom, right := math.MaxFloat64, math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64
		for i, p := range contour {
			if p.Y < top {
				top = p.Y
				vertex[0] = Vertex{Location: p, Index: i}
			}
			if p.X < left {
				left = p.X
				vertex[1] = Vertex{Location: p, Index: i}
			}
			if p.Y > bottom {
				bottom = p.Y
				vertex[2] = Vertex{Location: p, Index: i}
			}
			if p.X > right {
				right = p.X
				vertex[3] = Vertex{Location: p, Index: i}
			}
		}
	}

	return bound, vertex
}
