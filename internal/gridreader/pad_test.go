package gridreader

import (
	"testing"

	"github.com/go-dmtx/dmtx200/internal/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaddingDashTrimsNothingWhenBordersAreAlreadyClean(t *testing.T) {
	g := imaging.NewBitGrid(30, 30)
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			g.Set(x, y, true)
		}
	}
	trimRight, trimTop, ok := padDashedSides(g)
	require.True(t, ok)
	assert.Equal(t, 0, trimRight)
	assert.Equal(t, 0, trimTop)
}

func TestPaddingDashTrimsDarkMarginOffBothSides(t *testing.T) {
	g := imaging.NewBitGrid(30, 30)
	// Bright everywhere except a 3px dark margin along the right and top
	// edges, standing in for residual quiet zone left after rectification.
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			if x >= 27 || y < 3 {
				continue
			}
			g.Set(x, y, true)
		}
	}
	trimRight, trimTop, ok := padDashedSides(g)
	require.True(t, ok)
	assert.Equal(t, 3, trimRight)
	assert.Equal(t, 3, trimTop)
}

func TestPaddingDashFailsWhenNoQuietZoneBoundaryExists(t *testing.T) {
	g := imaging.NewBitGrid(30, 30) // entirely dark: no side ever clears 20%
	_, _, ok := padDashedSides(g)
	assert.False(t, ok)
}
