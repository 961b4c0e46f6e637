package gridreader

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-dmtx/dmtx200/internal/imaging"
	"github.com/stretchr/testify/assert"
)

func TestCellScoreAllBright(t *testing.T) {
	g := imaging.NewBitGrid(10, 10)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			g.Set(x, y, true)
		}
	}
	assert.Equal(t, 1.0, cellScore(g, 0, 0, 9, 9))
}

func TestCellScoreAllDark(t *testing.T) {
	g := imaging.NewBitGrid(10, 10)
	assert.Equal(t, 0.0, cellScore(g, 0, 0, 9, 9))
}

func TestCellAverageComputesMean(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 5, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			img.SetGray(x, y, color.Gray{Y: 100})
		}
	}
	avg := cellAverage(img, 0, 0, 4, 4)
	assert.InDelta(t, 100.0, avg, 1e-9)
}

func TestScoreGridSeparatesGatesAndAverages(t *testing.T) {
	bin := imaging.NewBitGrid(20, 10)
	orig := image.NewGray(image.Rect(0, 0, 20, 10))
	// Left cell bright, right cell dark; original grayscale values differ
	// so dark/bright averages are distinguishable.
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			bin.Set(x, y, true)
			orig.SetGray(x, y, color.Gray{Y: 200})
		}
		for x := 10; x < 20; x++ {
			orig.SetGray(x, y, color.Gray{Y: 20})
		}
	}
	rowPos := []int{0, 9}
	colPos := []int{0, 9, 19}
	scores, darkAvg, brightAvg := scoreGrid(bin, orig, 1, 2, rowPos, colPos)
	assert.Equal(t, []float64{1.0, 0.0}, scores)
	assert.Equal(t, byte(20), darkAvg)
	assert.Equal(t, byte(200), brightAvg)
}
