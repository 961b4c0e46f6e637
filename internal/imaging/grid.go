// Package imaging implements the Image Conditioner (spec.md section 4.1):
// grayscale conversion, median smoothing, fixed/adaptive thresholding,
// contour extraction and filtering, the four retry-policy configurations,
// and the 4-point perspective warp the Symbol Locator's rectification step
// needs. Grounded on the teacher's internal/detector/{contour,components,
// adaptive_threshold}.go for the Go-idiomatic shape of each stage, and on
// original_source/image_processor.{h,cpp} for the processing order.
package imaging

import "github.com/go-dmtx/dmtx200/internal/mempool"

// BitGrid is a row-major binary image: true means "foreground" (bright,
// after any polarity reversal). It is the Image Conditioner's output and
// the input every downstream stage (contour extraction, the Symbol
// Locator's brightness sampling, the Grid Reader's module classification)
// works against.
type BitGrid struct {
	W, H int
	bits []bool
}

// NewBitGrid allocates a zeroed grid backed by a pooled buffer.
func NewBitGrid(w, h int) *BitGrid {
	return &BitGrid{W: w, H: h, bits: mempool.GetBool(w * h)}
}

// Release returns the grid's backing buffer to the pool. Callers that keep
// a BitGrid alive past the stage that produced it (e.g. the Locator holding
// onto a rectified crop) must not call Release until they are done with it.
func (g *BitGrid) Release() {
	mempool.PutBool(g.bits)
	g.bits = nil
}

// Get reports the module/pixel at (x, y). Out-of-bounds reads return false.
func (g *BitGrid) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return false
	}
	return g.bits[y*g.W+x]
}

// Set assigns the pixel at (x, y).
func (g *BitGrid) Set(x, y int, v bool) { g.bits[y*g.W+x] = v }

// GrayPlane is a row-major 8-bit luminance image.
type GrayPlane struct {
	W, H int
	Pix  []byte
}

// NewGrayPlane allocates a plane backed by a pooled buffer.
func NewGrayPlane(w, h int) *GrayPlane {
	return &GrayPlane{W: w, H: h, Pix: mempool.GetByte(w * h)}
}

// Release returns the plane's backing buffer to the pool.
func (p *GrayPlane) Release() {
	mempool.PutByte(p.Pix)
	p.Pix = nil
}

// At returns the luminance at (x, y), clamping out-of-bounds reads to the
// nearest edge pixel (used by the median and box-mean filters).
func (p *GrayPlane) At(x, y int) byte {
	if x < 0 {
		x = 0
	}
	if x >= p.W {
		x = p.W - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= p.H {
		y = p.H - 1
	}
	return p.Pix[y*p.W+x]
}
