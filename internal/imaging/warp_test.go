package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/go-dmtx/dmtx200/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerspectiveTransformIdentitySquare(t *testing.T) {
	src := [4]utils.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	dst := src
	pt := NewPerspectiveTransform(src, dst)

	got := pt.Apply(utils.Point{X: 3, Y: 7})
	assert.InDelta(t, 3.0, got.X, 1e-6)
	assert.InDelta(t, 7.0, got.Y, 1e-6)
}

func TestPerspectiveTransformMapsCorners(t *testing.T) {
	src := [4]utils.Point{{X: 5, Y: 5}, {X: 25, Y: 8}, {X: 22, Y: 28}, {X: 3, Y: 24}}
	dst := [4]utils.Point{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 20}, {X: 0, Y: 20}}
	pt := NewPerspectiveTransform(src, dst)

	for i, s := range src {
		got := pt.Apply(s)
		assert.InDelta(t, dst[i].X, got.X, 1e-3)
		assert.InDelta(t, dst[i].Y, got.Y, 1e-3)
	}
}

func TestPerspectiveTransformInvertRoundTrips(t *testing.T) {
	src := [4]utils.Point{{X: 5, Y: 5}, {X: 25, Y: 8}, {X: 22, Y: 28}, {X: 3, Y: 24}}
	dst := [4]utils.Point{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 20}, {X: 0, Y: 20}}
	fwd := NewPerspectiveTransform(src, dst)
	inv := fwd.Invert()

	p := utils.Point{X: 12, Y: 17}
	roundTrip := inv.Apply(fwd.Apply(p))
	assert.True(t, math.Abs(roundTrip.X-p.X) < 1e-3)
	assert.True(t, math.Abs(roundTrip.Y-p.Y) < 1e-3)
}

func TestWarpPerspectiveProducesRequestedSize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if x < 20 {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}
	src := [4]utils.Point{{X: 0, Y: 0}, {X: 40, Y: 0}, {X: 40, Y: 40}, {X: 0, Y: 40}}
	out := WarpPerspective(img, src, 16)
	require.NotNil(t, out)
	assert.Equal(t, 16, out.Bounds().Dx())
	assert.Equal(t, 16, out.Bounds().Dy())
	// Left half of the source was black, right half white; the warped
	// square should preserve that split.
	assert.Less(t, out.GrayAt(2, 8).Y, byte(50))
	assert.Greater(t, out.GrayAt(13, 8).Y, byte(200))
}
