package imaging

import (
	"image"
	"image/color"

	"github.com/go-dmtx/dmtx200/internal/utils"
)

// Neither disintegration/imaging nor golang.org/x/image/draw (the only
// imaging libraries in the example corpus) expose an arbitrary 4-point
// perspective transform — both are limited to affine operations (resize,
// crop, rotate by multiples of 90°). The Symbol Locator's rectification
// step (spec.md section 4.2.6) needs exactly that missing primitive, so it
// is hand-rolled here, following original_source's
// getPerspectiveTransform/warpPerspective math.

// PerspectiveTransform maps 4 source points to 4 destination points via a
// homography. Build with NewPerspectiveTransform, apply with Apply.
type PerspectiveTransform struct {
	// m is the 3x3 homography with m[8] normalized to 1.
	m [9]float64
}

// NewPerspectiveTransform solves for the homography mapping src[i] -> dst[i]
// for i in 0..3, using Gauss-Jordan elimination over an 8x8 real linear
// system (the standard derivation: for each correspondence (x,y)->(u,v),
//
//	u = (a*x + b*y + c) / (g*x + h*y + 1)
//	v = (d*x + e*y + f) / (g*x + h*y + 1)
//
// rearranged into two linear equations in the 8 unknowns a..h).
func NewPerspectiveTransform(src, dst [4]utils.Point) PerspectiveTransform {
	var a [8][8]float64
	var b [8]float64

	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y

		a[2*i] = [8]float64{x, y, 1, 0, 0, 0, -u * x, -u * y}
		b[2*i] = u

		a[2*i+1] = [8]float64{0, 0, 0, x, y, 1, -v * x, -v * y}
		b[2*i+1] = v
	}

	coef := solveLinear8(a, b)

	return PerspectiveTransform{m: [9]float64{
		coef[0], coef[1], coef[2],
		coef[3], coef[4], coef[5],
		coef[6], coef[7], 1,
	}}
}

// solveLinear8 solves an 8x8 real linear system via Gauss-Jordan
// elimination with partial pivoting.
func solveLinear8(a [8][8]float64, b [8]float64) [8]float64 {
	const n = 8
	for col := 0; col < n; col++ {
		pivot := col
		best := a[col][col]
		if best < 0 {
			best = -best
		}
		for r := col + 1; r < n; r++ {
			v := a[r][col]
			if v < 0 {
				v = -v
			}
			if v > best {
				best = v
				pivot = r
			}
		}
		if pivot != col {
			a[col], a[pivot] = a[pivot], a[col]
			b[col], b[pivot] = b[pivot], b[col]
		}
		p := a[col][col]
		if p == 0 {
			continue
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := a[r][col] / p
			if factor == 0 {
				continue
			}
			for c := col; c < n; c++ {
				a[r][c] -= factor * a[col][c]
			}
			b[r] -= factor * b[col]
		}
	}
	var out [8]float64
	for i := 0; i < n; i++ {
		if a[i][i] != 0 {
			out[i] = b[i] / a[i][i]
		}
	}
	return out
}

// Apply maps a source-space point to destination space.
func (t PerspectiveTransform) Apply(p utils.Point) utils.Point {
	m := t.m
	denom := m[6]*p.X + m[7]*p.Y + m[8]
	if denom == 0 {
		return utils.Point{}
	}
	return utils.Point{
		X: (m[0]*p.X + m[1]*p.Y + m[2]) / denom,
		Y: (m[3]*p.X + m[4]*p.Y + m[5]) / denom,
	}
}

// Invert returns the inverse transform (destination space -> source
// space), used to drive the warp by sampling the source for every
// destination pixel rather than scattering source pixels forward.
func (t PerspectiveTransform) Invert() PerspectiveTransform {
	m := t.m
	// Cofactor-expansion inverse of the 3x3 matrix, then re-normalize so
	// the [2][2] entry is 1, matching NewPerspectiveTransform's convention.
	det := m[0]*(m[4]*m[8]-m[5]*m[7]) - m[1]*(m[3]*m[8]-m[5]*m[6]) + m[2]*(m[3]*m[7]-m[4]*m[6])
	if det == 0 {
		return t
	}
	inv := [9]float64{
		(m[4]*m[8] - m[5]*m[7]) / det,
		(m[2]*m[7] - m[1]*m[8]) / det,
		(m[1]*m[5] - m[2]*m[4]) / det,
		(m[5]*m[6] - m[3]*m[8]) / det,
		(m[0]*m[8] - m[2]*m[6]) / det,
		(m[2]*m[3] - m[0]*m[5]) / det,
		(m[3]*m[7] - m[4]*m[6]) / det,
		(m[1]*m[6] - m[0]*m[7]) / det,
		(m[0]*m[4] - m[1]*m[3]) / det,
	}
	if inv[8] != 0 && inv[8] != 1 {
		scale := inv[8]
		for i := range inv {
			inv[i] /= scale
		}
	}
	return PerspectiveTransform{m: inv}
}

// WarpPerspective maps the quadrilateral src (in img's coordinate space) to
// a size x size square and samples img via nearest-neighbor through the
// inverse homography, per spec.md section 4.2.6: "Compute the perspective
// transform that maps these four corners to a square [0,w]x[0,w] ... Warp."
func WarpPerspective(img image.Image, src [4]utils.Point, size int) *image.Gray {
	dst := [4]utils.Point{
		{X: 0, Y: 0},
		{X: float64(size), Y: 0},
		{X: float64(size), Y: float64(size)},
		{X: 0, Y: float64(size)},
	}
	fwd := NewPerspectiveTransform(src, dst)
	inv := fwd.Invert()

	out := image.NewGray(image.Rect(0, 0, size, size))
	bounds := img.Bounds()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			sp := inv.Apply(utils.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5})
			sx := int(sp.X)
			sy := int(sp.Y)
			if sx < bounds.Min.X {
				sx = bounds.Min.X
			}
			if sy < bounds.Min.Y {
				sy = bounds.Min.Y
			}
			if sx >= bounds.Max.X {
				sx = bounds.Max.X - 1
			}
			if sy >= bounds.Max.Y {
				sy = bounds.Max.Y - 1
			}
			r, g, b, _ := img.At(sx, sy).RGBA()
			lum := (299*uint32(r>>8) + 587*uint32(g>>8) + 114*uint32(b>>8)) / 1000
			out.SetGray(x, y, color.Gray{Y: byte(lum)})
		}
	}
	return out
}
