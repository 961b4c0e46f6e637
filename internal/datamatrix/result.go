// Package datamatrix wires the Image Conditioner, Symbol Locator, Grid
// Reader, Codeword Assembler, Reed-Solomon decoder and Payload Decoder into
// the end-to-end decode entry points, grounded on
// original_source/lemon_api.{h,cpp}'s Lemon class and free Decode functions.
package datamatrix

import (
	"github.com/go-dmtx/dmtx200/internal/locator"
	"github.com/go-dmtx/dmtx200/internal/payload"
	"github.com/go-dmtx/dmtx200/internal/utils"
)

// Result is one decoded symbol plus the diagnostics SPEC_FULL section 3
// adds over the original's bare byte output: which macro prefix fired (if
// any), the consumed ECI designator (if any), which retry policy and
// locator position produced it, and the rectified quadrilateral in the
// source image's coordinate space.
type Result struct {
	Bytes []byte
	Macro int  // 0, 5, or 6
	ECI   *int // consumed ECI designator value, if any

	Policy   int              // index into the retry ladder that produced this result (0..3)
	Position locator.Position // the LShape corner position the locator settled on
	Corners  [4]utils.Point   // p1, p0, p2, px, in original image coordinates

	// Repaired reports whether the Reed-Solomon step had to correct one or
	// more codewords to reach this result. False means the codeword block
	// was clean on read.
	Repaired bool
}

func fromPayload(p payload.Result, repaired bool) Result {
	return Result{Bytes: p.Bytes, Macro: p.Macro, ECI: p.ECI, Repaired: repaired}
}
