package imaging

import "github.com/go-dmtx/dmtx200/internal/utils"

// FilterContours keeps only contours that could plausibly bound a Data
// Matrix symbol, per spec.md section 4.1:
//   - at least minVertices contour points ("each side >= 10 modules, each
//     module >= 4 px" interpreted as >= 160 vertices around the full
//     perimeter);
//   - axis-aligned bounding box aspect ratio >= minAspectRatio;
//   - bounding box at least 4 px from every image edge.
func FilterContours(contours []Contour, imgW, imgH, minVertices int, minAspectRatio float64) []Contour {
	const edgeMargin = 4.0

	out := make([]Contour, 0, len(contours))
	for _, c := range contours {
		if len(c.Points) < minVertices {
			continue
		}
		box := utils.BoundingBox(c.Points)
		w, h := box.Width(), box.Height()
		if w <= 0 || h <= 0 {
			continue
		}
		ratio := w / h
		if ratio > 1 {
			ratio = h / w
		}
		if ratio < minAspectRatio {
			continue
		}
		if box.MinX < edgeMargin || box.MinY < edgeMargin ||
			box.MaxX > float64(imgW)-edgeMargin || box.MaxY > float64(imgH)-edgeMargin {
			continue
		}
		out = append(out, c)
	}
	return out
}
