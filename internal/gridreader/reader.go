package gridreader

import (
	"image"

	"github.com/go-dmtx/dmtx200/internal/imaging"
)

// Result is the Grid Reader's output: a row-major 0/1 module vector ready
// for the Codeword Assembler's Utah traversal.
type Result struct {
	Rows, Cols int
	Codes      []int // len == Rows*Cols
}

// ReadGrid takes the Symbol Locator's rectified square grayscale crop,
// re-binarizes it under cfg, trims the dashed-side quiet zone, determines
// the module grid, fits row/column lines, and classifies every cell.
func ReadGrid(crop *image.Gray, cfg imaging.Config) (Result, bool) {
	b := crop.Bounds()
	fullSpan := b.Dx()

	binary := binarize(crop, cfg)
	defer binary.Release()

	trimRight, trimTop, ok := padDashedSides(binary)
	if !ok {
		return Result{}, false
	}

	roiW := binary.W - trimRight
	roiH := binary.H - trimTop
	croppedBin := cropBitGrid(binary, 0, trimTop, roiW, roiH)
	defer croppedBin.Release()
	croppedOrig := cropGray(crop, 0, trimTop, roiW, roiH)

	cols, rows, ok := codeSize(croppedBin, fullSpan)
	if !ok {
		return Result{}, false
	}

	rowPos, colPos := setGrid(croppedBin, rows, cols)
	scores, darkAvg, brightAvg := scoreGrid(croppedBin, croppedOrig, rows, cols, rowPos, colPos)
	codes := readCodes(croppedBin, rows, cols, rowPos, colPos, darkAvg, brightAvg, scores, cfg)

	return Result{Rows: rows, Cols: cols, Codes: codes}, true
}

func binarize(crop *image.Gray, cfg imaging.Config) *imaging.BitGrid {
	plane := imaging.ToGrayPlane(crop)
	defer plane.Release()
	blurred := imaging.MedianBlur3(plane)
	defer blurred.Release()

	if cfg.UseFixedThreshold {
		return imaging.FixedThreshold(blurred, cfg.FixedLevel, cfg.ReversePolarity)
	}
	return imaging.AdaptiveMeanThreshold(blurred, cfg.AdaptiveBlockSize, cfg.ReversePolarity)
}

// cropBitGrid extracts a w x h sub-grid starting at (x0, y0). Reads beyond
// the source's bounds (possible since the caller derives w/h from the
// pre-crop span, not the grid's own size) come back dark, matching BitGrid
// .Get's own out-of-bounds contract.
func cropBitGrid(src *imaging.BitGrid, x0, y0, w, h int) *imaging.BitGrid {
	out := imaging.NewBitGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(x, y, src.Get(x0+x, y0+y))
		}
	}
	return out
}

// cropGray extracts a w x h sub-image starting at (x0, y0), zero-filling
// any span that runs past the source's bounds.
func cropGray(src *image.Gray, x0, y0, w, h int) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.SetGray(x, y, src.GrayAt(src.Bounds().Min.X+x0+x, src.Bounds().Min.Y+y0+y))
		}
	}
	return out
}
