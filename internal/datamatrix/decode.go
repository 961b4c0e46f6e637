package datamatrix

import (
	"errors"
	"image"

	"github.com/go-dmtx/dmtx200/internal/ecc200"
	"github.com/go-dmtx/dmtx200/internal/gridreader"
	"github.com/go-dmtx/dmtx200/internal/imaging"
	"github.com/go-dmtx/dmtx200/internal/locator"
	"github.com/go-dmtx/dmtx200/internal/payload"
	"github.com/go-dmtx/dmtx200/internal/reedsolomon"
	"github.com/go-dmtx/dmtx200/internal/utils"
)

// ErrNotFound is returned when every retry policy exhausts its candidates
// without a single symbol decoding successfully.
var ErrNotFound = errors.New("datamatrix: no symbol decoded")

const (
	minModulesPerSide = 8
)

// Options controls one Decode call. Zero value matches the default retry
// ladder (spec.md section 4.1/section 9).
type Options struct {
	AdaptiveBlockSize    int
	AdaptiveBlockSizeAlt int
	MinContourVertices   int
	MinAspectRatio       float64
}

// DefaultOptions mirrors imaging.DefaultConfig's tunables, widened into the
// four-policy retry ladder Decode drives.
func DefaultOptions() Options {
	return Options{
		AdaptiveBlockSize:    25,
		AdaptiveBlockSizeAlt: 35,
		MinContourVertices:   160,
		MinAspectRatio:       0.20,
	}
}

// Decode runs the full pipeline over img, trying each retry policy in turn
// and, within a policy, every located candidate, grounded on
// original_source/lemon_api.cpp's Lemon::Decode. It never stops early on a
// successful decode: every candidate of every policy is attempted, matching
// the original's "keep going" retry contract (spec.md section 7).
func Decode(img image.Image, opts Options) ([]Result, error) {
	policies := imaging.ConditionerPolicies(opts.AdaptiveBlockSize, opts.AdaptiveBlockSizeAlt, opts.MinContourVertices, opts.MinAspectRatio)

	var results []Result
	for policyIdx, cfg := range policies {
		grid, contours := imaging.Process(img, cfg)
		if len(contours) < 1 {
			grid.Release()
			continue
		}

		candidates := locator.LocateSymbols(img, grid, contours, cfg)
		grid.Release()
		if len(candidates) == 0 {
			continue
		}

		for _, cand := range candidates {
			res, ok := decodeOne(cand, cfg)
			if !ok {
				continue
			}
			res.Policy = policyIdx
			res.Position = cand.Position
			res.Corners = cand.Corners
			results = append(results, res)
		}
	}

	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return results, nil
}

// decodeOne runs the grid reader, codeword assembly, Reed-Solomon repair
// and payload decode over one rectified candidate.
func decodeOne(cand locator.Located, cfg imaging.Config) (Result, bool) {
	grid, ok := gridreader.ReadGrid(cand.Image, cfg)
	if !ok {
		return Result{}, false
	}
	if grid.Cols < minModulesPerSide || grid.Rows < minModulesPerSide ||
		grid.Cols%2 == 1 || grid.Rows%2 == 1 {
		return Result{}, false
	}

	spec, ok := ecc200.Lookup(grid.Rows, grid.Cols)
	if !ok {
		return Result{}, false
	}

	raw := ecc200.NewBitMatrix(spec.TotalRows, spec.TotalCols)
	for r := 0; r < spec.TotalRows; r++ {
		for c := 0; c < spec.TotalCols; c++ {
			raw.Set(r, c, grid.Codes[r*spec.TotalCols+c] != 0)
		}
	}

	data := ecc200.RemoveAlignmentPatterns(raw, spec)
	codewords := ecc200.AssembleCodewords(data, spec)
	if len(codewords) != spec.TotalWords() {
		return Result{}, false
	}

	outcome := reedsolomon.Decode(codewords, spec.DataWords, spec.ErrorWords)
	if outcome == reedsolomon.Unrecoverable {
		return Result{}, false
	}

	msg, err := payload.Decode(codewords, spec.DataWords)
	if err != nil {
		return Result{}, false
	}

	return fromPayload(msg, outcome == reedsolomon.Repaired), true
}

// DecodeFile loads path via utils.LoadImage and decodes it.
func DecodeFile(path string, opts Options) ([]Result, error) {
	img, _, err := utils.LoadImage(path)
	if err != nil {
		return nil, err
	}
	return Decode(img, opts)
}

// DecodeRaw decodes a row-major 8-bit luminance buffer of width x height
// pixels with no file or image.Image wrapper, the analogue of
// original_source/lemon_api.cpp's Decode_rt entry point.
func DecodeRaw(width, height int, pix []byte, opts Options) ([]Result, error) {
	if len(pix) != width*height {
		return nil, errors.New("datamatrix: pixel buffer length does not match width*height")
	}
	img := &image.Gray{
		Pix:    pix,
		Stride: width,
		Rect:   image.Rect(0, 0, width, height),
	}
	return Decode(img, opts)
}
