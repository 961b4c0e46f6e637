package barcode

import (
	"image"

	"github.com/go-dmtx/dmtx200/internal/datamatrix"
)

// Format identifies a barcode symbology. This module only ever produces
// FormatDataMatrix results; the enum is kept so callers and serialized
// output carry an explicit symbology tag rather than an implicit one.
type Format int

const (
	FormatUnknown Format = iota
	FormatDataMatrix
)

// Options controls decode behavior and maps directly onto
// datamatrix.Options; it exists so this package's public surface does not
// leak the internal driver's type.
type Options struct {
	// TryHarder enables more exhaustive search (slower but more robust).
	TryHarder bool

	// ROI optionally restricts decoding to a sub-rectangle of the image.
	// If zero-sized or out of bounds, the full image is used.
	ROI image.Rectangle
}

// Point is an integer point in image coordinates.
type Point struct {
	X int
	Y int
}

// Result represents one decoded Data Matrix symbol.
type Result struct {
	Type     Format
	Value    []byte
	Points   []Point         // symbol corners in p1, p0, p2, px order (see datamatrix.Result.Corners)
	BBox     image.Rectangle // bounding box derived from Points
	Repaired bool            // true if Reed-Solomon had to correct codewords
}

// Decode locates and decodes every ECC200 Data Matrix symbol in img.
func Decode(img image.Image, opts Options) ([]Result, error) {
	dmOpts := datamatrix.DefaultOptions()
	if opts.TryHarder {
		dmOpts.MinContourVertices /= 2
		dmOpts.MinAspectRatio /= 2
	}
	if !opts.ROI.Empty() {
		img = cropToROI(img, opts.ROI)
	}

	raw, err := datamatrix.Decode(img, dmOpts)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(raw))
	for _, r := range raw {
		results = append(results, fromDatamatrixResult(r))
	}
	return results, nil
}

func fromDatamatrixResult(r datamatrix.Result) Result {
	points := make([]Point, 0, len(r.Corners))
	bbox := image.Rectangle{}
	for i, c := range r.Corners {
		x, y := int(c.X), int(c.Y)
		points = append(points, Point{X: x, Y: y})
		pt := image.Pt(x, y)
		if i == 0 {
			bbox = image.Rectangle{Min: pt, Max: pt}
		} else {
			bbox.Min.X = min(bbox.Min.X, x)
			bbox.Min.Y = min(bbox.Min.Y, y)
			bbox.Max.X = max(bbox.Max.X, x)
			bbox.Max.Y = max(bbox.Max.Y, y)
		}
	}

	return Result{
		Type:     FormatDataMatrix,
		Value:    r.Bytes,
		Points:   points,
		BBox:     bbox,
		Repaired: r.Repaired,
	}
}

func cropToROI(img image.Image, roi image.Rectangle) image.Image {
	roi = roi.Intersect(img.Bounds())
	if roi.Empty() {
		return img
	}
	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	if si, ok := img.(subImager); ok {
		return si.SubImage(roi)
	}
	return img
}
