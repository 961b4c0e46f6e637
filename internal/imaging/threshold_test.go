package imaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeCheckerboardPlane(w, h, cell int) *GrayPlane {
	p := NewGrayPlane(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/cell+y/cell)%2 == 0 {
				p.Pix[y*w+x] = 255
			} else {
				p.Pix[y*w+x] = 0
			}
		}
	}
	return p
}

func TestMedianBlur3RemovesSaltAndPepper(t *testing.T) {
	p := NewGrayPlane(5, 5)
	for i := range p.Pix {
		p.Pix[i] = 100
	}
	p.Pix[2*5+2] = 255 // single outlier at the center

	out := MedianBlur3(p)
	assert.Equal(t, byte(100), out.Pix[2*5+2], "median filter should suppress a single-pixel outlier")
}

func TestFixedThresholdPolarity(t *testing.T) {
	p := NewGrayPlane(2, 1)
	p.Pix[0] = 200
	p.Pix[1] = 50

	normal := FixedThreshold(p, 128, false)
	assert.True(t, normal.Get(0, 0))
	assert.False(t, normal.Get(1, 0))

	reversed := FixedThreshold(p, 128, true)
	assert.False(t, reversed.Get(0, 0))
	assert.True(t, reversed.Get(1, 0))
}

func TestAdaptiveMeanThresholdSeparatesCheckerboard(t *testing.T) {
	plane := makeCheckerboardPlane(40, 40, 10)
	grid := AdaptiveMeanThreshold(plane, 25, false)
	require.NotNil(t, grid)

	// Cell (0,0) is bright (255), its 25x25 neighborhood mean is well below
	// 255, so it must classify bright.
	assert.True(t, grid.Get(2, 2))
	// Cell (1,0) is dark (0) and must classify dark.
	assert.False(t, grid.Get(12, 2))
}

func TestSummedAreaTableRegionSum(t *testing.T) {
	p := NewGrayPlane(3, 3)
	for i := range p.Pix {
		p.Pix[i] = 10
	}
	sat := buildSummedAreaTable(p)
	sum, n := sat.regionSum(0, 0, 2, 2)
	assert.Equal(t, int64(90), sum)
	assert.Equal(t, int64(9), n)
}
