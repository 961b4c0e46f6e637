package locator

import (
	"image"

	"github.com/go-dmtx/dmtx200/internal/imaging"
	"github.com/go-dmtx/dmtx200/internal/utils"
)

const enlargeSize = 2.0

// enlargeLShape pushes the quadrilateral {p1, p0, p2, px} outward by
// enlargeSize pixels per corner (spec.md 4.2.6), the padding that absorbs
// the quiet zone before the perspective warp. Returns false if any
// enlarged corner would fall outside the image.
func enlargeLShape(l *LShape, imgW, imgH int) bool {
	corners := [4]utils.Point{l.P1.Location, l.P0.Location, l.P2.Location, l.Px.Location}

	switch l.Position {
	case PositionTopLeft:
		corners[0].X += enlargeSize
		corners[0].Y -= enlargeSize
		corners[1].X -= enlargeSize
		corners[1].Y -= enlargeSize
		corners[2].X -= enlargeSize
		corners[2].Y += enlargeSize
		corners[3].X += enlargeSize
		corners[3].Y += enlargeSize
	case PositionLeftBottom:
		corners[0].X -= enlargeSize
		corners[0].Y -= enlargeSize
		corners[1].X -= enlargeSize
		corners[1].Y += enlargeSize
		corners[2].X += enlargeSize
		corners[2].Y += enlargeSize
		corners[3].X += enlargeSize
		corners[3].Y -= enlargeSize
	case PositionBottomRight:
		corners[0].X -= enlargeSize
		corners[0].Y += enlargeSize
		corners[1].X += enlargeSize
		corners[1].Y += enlargeSize
		corners[2].X += enlargeSize
		corners[2].Y -= enlargeSize
		corners[3].X -= enlargeSize
		corners[3].Y -= enlargeSize
	case PositionRightTop:
		corners[0].X += enlargeSize
		corners[0].Y += enlargeSize
		corners[1].X += enlargeSize
		corners[1].Y -= enlargeSize
		corners[2].X -= enlargeSize
		corners[2].Y -= enlargeSize
		corners[3].X -= enlargeSize
		corners[3].Y += enlargeSize
	default:
		return false
	}

	for _, c := range corners {
		if c.X < 0 || c.X >= float64(imgW) || c.Y < 0 || c.Y >= float64(imgH) {
			return false
		}
	}

	l.P1.Location = corners[0]
	l.P0.Location = corners[1]
	l.P2.Location = corners[2]
	l.Px.Location = corners[3]
	return true
}

// quadSize returns the longest side of the quadrilateral {p1,p0,p2,px},
// which spec.md 4.2.6 uses as the warped square's side length.
func quadSize(l *LShape) int {
	v := [4]utils.Point{l.P1.Location, l.P0.Location, l.P2.Location, l.Px.Location}
	w := 0.0
	for i := 0; i < 4; i++ {
		d := distance(v[i], v[(i+1)%4])
		if d > w {
			w = d
		}
	}
	return int(w + 0.5)
}

// rectify warps the enlarged quadrilateral to a size x size square.
// imaging.WarpPerspective always maps its 4 source points to the square's
// corners in (top-left, top-right, bottom-right, bottom-left) order, so the
// quadrilateral is reordered here to match: p1 -> top-left, px -> top-right,
// p2 -> bottom-right, p0 -> bottom-left — the same correspondence
// original_source's Transform4LShape uses ({p1,p0,p2,px} -> {(0,0),(0,w),
// (w,w),(w,0)}), just re-read in clockwise-from-top-left order.
func rectify(img image.Image, l *LShape, size int) *image.Gray {
	src := [4]utils.Point{l.P1.Location, l.Px.Location, l.P2.Location, l.P0.Location}
	return imaging.WarpPerspective(img, src, size)
}
