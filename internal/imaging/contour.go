package imaging

import (
	"container/list"

	"github.com/go-dmtx/dmtx200/internal/utils"
)

// compStats mirrors the teacher's connected-component bookkeeping, minus
// the probability-map accumulators (sum/sumSq/maxV) an OCR confidence score
// needed and a binary mask does not.
type compStats struct {
	count                  int
	minX, minY, maxX, maxY int
}

// labelComponents finds 4-connected components of value `want` in grid and
// returns, for each, its stats and a shared label plane. Adapted from
// internal/detector/components.go's connectedComponents/performComponentBFS,
// generalized from a fixed "mask[idx]==true" test to an arbitrary target
// value so the same code labels both bright (external-contour) and dark
// (internal-contour/hole) regions.
func labelComponents(grid *BitGrid, want bool) ([]compStats, []int) {
	w, h := grid.W, grid.H
	visited := make([]int, w*h)
	labels := make([]int, w*h)
	var comps []compStats
	label := 1

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if grid.Get(x, y) == want && visited[idx] == 0 {
				st := bfsComponent(grid, want, visited, labels, w, h, x, y, label)
				comps = append(comps, st)
				label++
			}
		}
	}
	return comps, labels
}

func bfsComponent(grid *BitGrid, want bool, visited, labels []int, w, h, startX, startY, label int) compStats {
	idx := func(x, y int) int { return y*w + x }
	startIdx := idx(startX, startY)

	st := compStats{minX: startX, minY: startY, maxX: startX, maxY: startY}
	q := list.New()
	q.PushBack(startIdx)
	visited[startIdx] = 1
	labels[startIdx] = label

	dirs := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

	for q.Len() > 0 {
		e := q.Front()
		q.Remove(e)
		ci, ok := e.Value.(int)
		if !ok {
			continue
		}
		cx, cy := ci%w, ci/w
		st.count++
		if cx < st.minX {
			st.minX = cx
		}
		if cy < st.minY {
			st.minY = cy
		}
		if cx > st.maxX {
			st.maxX = cx
		}
		if cy > st.maxY {
			st.maxY = cy
		}
		for _, d := range dirs {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			ni := idx(nx, ny)
			if grid.Get(nx, ny) == want && visited[ni] == 0 {
				visited[ni] = 1
				labels[ni] = label
				q.PushBack(ni)
			}
		}
	}
	return st
}

// Contour is one traced boundary plus whether it bounds foreground
// (external) or a hole inside foreground (internal).
type Contour struct {
	Points   []utils.Point
	Internal bool
}

// ExtractContours labels both bright and dark connected components of grid
// and traces each with Moore-Neighbor boundary following, returning every
// resulting polygon. spec.md section 4.1 calls for "all external+internal
// contours"; the teacher's single-polarity detector only ever needed
// external boundaries of text regions, so both label passes and the
// Internal flag are new here.
func ExtractContours(grid *BitGrid) []Contour {
	var out []Contour

	brightComps, brightLabels := labelComponents(grid, true)
	for i, c := range brightComps {
		pts := traceContourMoore(brightLabels, grid.W, grid.H, i+1, c)
		if len(pts) >= 3 {
			out = append(out, Contour{Points: pts, Internal: false})
		}
	}

	darkComps, darkLabels := labelComponents(grid, false)
	for i, c := range darkComps {
		// A dark component touching the image border is background, not a
		// hole inside a foreground blob; skip it.
		if c.minX == 0 || c.minY == 0 || c.maxX == grid.W-1 || c.maxY == grid.H-1 {
			continue
		}
		pts := traceContourMoore(darkLabels, grid.W, grid.H, i+1, c)
		if len(pts) >= 3 {
			out = append(out, Contour{Points: pts, Internal: true})
		}
	}

	return out
}

// traceContourMoore extracts a boundary polygon for the given labeled
// component using Moore-Neighbor tracing, restricted to the component's
// AABB. Adapted verbatim in algorithm (not copied file) from
// internal/detector/contour.go, generalized from that file's compStats
// (which also carried probability-map accumulators) to this package's
// narrower compStats.
func traceContourMoore(labels []int, w, h, label int, st compStats) []utils.Point {
	if label <= 0 || len(labels) != w*h {
		return nil
	}

	sx, sy := findStartingBoundaryPixel(labels, w, h, label, st)
	if sx == -1 {
		return nil
	}

	pts := make([]utils.Point, 0, 64)
	cx, cy := sx, sy
	bx, by := sx-1, sy

	addPoint := func(x, y int) {
		p := utils.Point{X: float64(x), Y: float64(y)}
		n := len(pts)
		if n >= 2 {
			a, b := pts[n-2], pts[n-1]
			v1x, v1y := b.X-a.X, b.Y-a.Y
			v2x, v2y := p.X-b.X, p.Y-b.Y
			if v1x*v2y-v1y*v2x == 0 {
				pts = pts[:n-1]
			}
		}
		pts = append(pts, p)
	}
	addPoint(cx, cy)

	startCx, startCy, startBx, startBy := cx, cy, bx, by
	maxSteps := w*h*4 + 8
	steps := 0

	for steps < maxSteps {
		steps++
		nx, ny, nbx, nby, found := findNextBoundaryPixel(labels, w, h, label, cx, cy, bx, by)
		if !found {
			break
		}
		bx, by = nbx, nby
		cx, cy = nx, ny
		if len(pts) == 0 || pts[len(pts)-1].X != float64(cx) || pts[len(pts)-1].Y != float64(cy) {
			addPoint(cx, cy)
		}
		if cx == startCx && cy == startCy && bx == startBx && by == startBy {
			break
		}
	}

	if len(pts) >= 2 && pts[0].X == pts[len(pts)-1].X && pts[0].Y == pts[len(pts)-1].Y {
		pts = pts[:len(pts)-1]
	}
	return pts
}

func findStartingBoundaryPixel(labels []int, w, h, label int, st compStats) (int, int) {
	isLabel := func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return false
		}
		return labels[y*w+x] == label
	}
	isBoundary := func(x, y int) bool {
		if !isLabel(x, y) {
			return false
		}
		return !isLabel(x+1, y) || !isLabel(x-1, y) || !isLabel(x, y+1) || !isLabel(x, y-1)
	}
	for y := st.minY; y <= st.maxY; y++ {
		for x := st.minX; x <= st.maxX; x++ {
			if isBoundary(x, y) {
				return x, y
			}
		}
	}
	for y := st.minY; y <= st.maxY; y++ {
		for x := st.minX; x <= st.maxX; x++ {
			if isLabel(x, y) {
				return x, y
			}
		}
	}
	return -1, -1
}

func findNextBoundaryPixel(labels []int, w, h, label, cx, cy, bx, by int) (int, int, int, int, bool) {
	isLabel := func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return false
		}
		return labels[y*w+x] == label
	}
	ndx := [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	ndy := [8]int{0, 1, 1, 1, 0, -1, -1, -1}
	dirIndex := func(dx, dy int) int {
		for i := 0; i < 8; i++ {
			if ndx[i] == dx && ndy[i] == dy {
				return i
			}
		}
		return 0
	}

	dx, dy := bx-cx, by-cy
	start := (dirIndex(dx, dy) + 1) % 8

	for k := 0; k < 8; k++ {
		i := (start + k) % 8
		tx, ty := cx+ndx[i], cy+ndy[i]
		if isLabel(tx, ty) {
			return tx, ty, cx, cy, true
		}
		bx, by = tx, ty
	}
	return 0, 0, bx, by, false
}
