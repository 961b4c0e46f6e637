package datamatrix

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeReturnsErrNotFoundOnBlankImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	results, err := Decode(img, DefaultOptions())
	assert.Nil(t, results)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecodeRawRejectsMismatchedBufferLength(t *testing.T) {
	_, err := DecodeRaw(10, 10, make([]byte, 42), DefaultOptions())
	require.Error(t, err)
}

func TestDecodeRawAcceptsMatchingBufferLength(t *testing.T) {
	pix := make([]byte, 64*64)
	for i := range pix {
		pix[i] = 255
	}
	results, err := DecodeRaw(64, 64, pix, DefaultOptions())
	assert.Nil(t, results)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDefaultOptionsMatchesConditionerDefaults(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 25, opts.AdaptiveBlockSize)
	assert.Equal(t, 35, opts.AdaptiveBlockSizeAlt)
	assert.Equal(t, 160, opts.MinContourVertices)
	assert.Equal(t, 0.20, opts.MinAspectRatio)
}
