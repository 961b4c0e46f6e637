package testutil

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

// ImageSize represents common image dimensions.
type ImageSize struct {
	Width  int
	Height int
}

var (
	// Common test image sizes.
	SmallSize  = ImageSize{320, 240}
	MediumSize = ImageSize{640, 480}
	LargeSize  = ImageSize{1024, 768}
)

// TestImageConfig holds configuration for generating synthetic decode test images.
type TestImageConfig struct {
	Size        ImageSize
	Background  color.Color
	Foreground  color.Color
	Rotation    float64 // rotation in degrees
	GridModules int     // when > 0, draw a checkerboard module grid of this many cells per side
}

// DefaultTestImageConfig returns a default configuration for test images.
func DefaultTestImageConfig() TestImageConfig {
	return TestImageConfig{
		Size:       MediumSize,
		Background: color.White,
		Foreground: color.Black,
		Rotation:   0,
	}
}

// GenerateBlankImage creates a synthetic blank image with the given configuration.
// Blank images carry no locatable finder pattern and are used to exercise the
// not-found path of the locator.
func GenerateBlankImage(config TestImageConfig) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, config.Size.Width, config.Size.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{config.Background}, image.Point{}, draw.Src)

	if config.GridModules > 0 {
		drawModuleGrid(img, config.GridModules, config.Foreground)
	}

	if config.Rotation != 0 {
		rotated := imaging.Rotate(img, config.Rotation, color.White)
		rgba := image.NewRGBA(rotated.Bounds())
		draw.Draw(rgba, rgba.Bounds(), rotated, rotated.Bounds().Min, draw.Src)
		return rgba, nil
	}

	return img, nil
}

// drawModuleGrid paints an evenly spaced checkerboard pattern, mimicking the
// module density of a Data Matrix symbol without encoding a real payload.
func drawModuleGrid(img *image.RGBA, modules int, fg color.Color) {
	bounds := img.Bounds()
	cellW := bounds.Dx() / modules
	cellH := bounds.Dy() / modules
	if cellW == 0 || cellH == 0 {
		return
	}

	for row := 0; row < modules; row++ {
		for col := 0; col < modules; col++ {
			if (row+col)%2 != 0 {
				continue
			}
			x0 := bounds.Min.X + col*cellW
			y0 := bounds.Min.Y + row*cellH
			cell := image.Rect(x0, y0, x0+cellW, y0+cellH)
			draw.Draw(img, cell, &image.Uniform{fg}, image.Point{}, draw.Src)
		}
	}
}

// SaveImage saves an image to the specified path.
func SaveImage(t *testing.T, img image.Image, path string) {
	t.Helper()

	dir := filepath.Dir(path)
	require.NoError(t, EnsureDir(dir), "Failed to create directory %s", dir)

	file, err := os.Create(path) //nolint:gosec // G304: Test file creation with controlled path
	require.NoError(t, err, "Failed to create file %s", path)
	defer func() {
		require.NoError(t, file.Close())
	}()

	err = png.Encode(file, img)
	require.NoError(t, err, "Failed to encode PNG image")
}

// LoadImage loads an image from the specified path.
func LoadImage(t *testing.T, path string) image.Image {
	t.Helper()

	file, err := os.Open(path) //nolint:gosec // G304: Test file reading with controlled path
	require.NoError(t, err, "Failed to open image file %s", path)
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	require.NoError(t, err, "Failed to decode image")

	return img
}

// CompareImages compares two images and returns true if they are similar.
func CompareImages(img1, img2 image.Image, tolerance float64) bool {
	bounds1 := img1.Bounds()
	bounds2 := img2.Bounds()

	if bounds1 != bounds2 {
		return false
	}

	var totalDiff float64
	var pixelCount float64

	for y := bounds1.Min.Y; y < bounds1.Max.Y; y++ {
		for x := bounds1.Min.X; x < bounds1.Max.X; x++ {
			r1, g1, b1, a1 := img1.At(x, y).RGBA()
			r2, g2, b2, a2 := img2.At(x, y).RGBA()

			dr := float64(r1) - float64(r2)
			dg := float64(g1) - float64(g2)
			db := float64(b1) - float64(b2)
			da := float64(a1) - float64(a2)

			diff := math.Sqrt(dr*dr + dg*dg + db*db + da*da)
			totalDiff += diff
			pixelCount++
		}
	}

	avgDiff := totalDiff / pixelCount
	maxDiff := math.Sqrt(4 * 65535 * 65535)

	return (avgDiff / maxDiff) <= tolerance
}

// GenerateTestImages creates the standard set of synthetic decode test images
// under the testdata directory.
func GenerateTestImages(t *testing.T) {
	t.Helper()

	simpleDir := GetTestImageDir(t, "simple")
	require.NoError(t, EnsureDir(simpleDir))

	blank := DefaultTestImageConfig()
	blank.Size = SmallSize
	img, err := GenerateBlankImage(blank)
	require.NoError(t, err, "Failed to generate blank image")
	SaveImage(t, img, filepath.Join(simpleDir, "blank.png"))

	gridDir := GetTestImageDir(t, "grid")
	require.NoError(t, EnsureDir(gridDir))

	modules := []int{10, 12, 16, 18, 22, 24}
	for _, m := range modules {
		config := DefaultTestImageConfig()
		config.Size = SmallSize
		config.GridModules = m

		img, err := GenerateBlankImage(config)
		require.NoError(t, err, "Failed to generate module grid image for %d modules", m)

		SaveImage(t, img, filepath.Join(gridDir, fmt.Sprintf("grid_%d.png", m)))
	}

	rotatedDir := GetTestImageDir(t, "rotated")
	require.NoError(t, EnsureDir(rotatedDir))

	rotations := []float64{0, 90, 180, 270, 45, -45}
	for _, rotation := range rotations {
		config := DefaultTestImageConfig()
		config.Size = MediumSize
		config.GridModules = 16
		config.Rotation = rotation

		img, err := GenerateBlankImage(config)
		require.NoError(t, err, "Failed to generate rotated grid image for angle: %.1f", rotation)

		SaveImage(t, img, filepath.Join(rotatedDir, fmt.Sprintf("rotated_%.0f.png", rotation)))
	}

	noisyDir := GetTestImageDir(t, "noisy")
	require.NoError(t, EnsureDir(noisyDir))

	config := DefaultTestImageConfig()
	config.Size = LargeSize
	config.Background = color.RGBA{248, 248, 248, 255}
	config.Foreground = color.RGBA{32, 32, 32, 255}
	config.GridModules = 20

	img, err = GenerateBlankImage(config)
	require.NoError(t, err, "Failed to generate noisy grid image")

	noisyImg := addNoise(img, 0.02)
	SaveImage(t, noisyImg, filepath.Join(noisyDir, "noisy.png"))
}

// addNoise adds random noise to an image to simulate scanning artifacts.
func addNoise(img *image.RGBA, noiseLevel float64) *image.RGBA {
	bounds := img.Bounds()
	noisy := image.NewRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()

			if math.Mod(float64(x*y), 1.0/noiseLevel) < 1.0 {
				if (x+y)%2 == 0 {
					r = 65535 - r
					g = 65535 - g
					b = 65535 - b
				}
			}

			//nolint:gosec // G115: Safe conversion for image noise generation
			noisy.Set(x, y, color.RGBA64{uint16(r), uint16(g), uint16(b), uint16(a)})
		}
	}

	return noisy
}

// CreateTestImage creates a simple test image with the specified dimensions and color.
func CreateTestImage(width, height int, backgroundColor color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{backgroundColor}, image.Point{}, draw.Src)
	return img
}

// CreateTestImageWithGrid creates a test image with a synthetic module grid drawn on it.
func CreateTestImageWithGrid(modules, width, height int) image.Image {
	config := DefaultTestImageConfig()
	config.Size = ImageSize{Width: width, Height: height}
	config.GridModules = modules

	img, err := GenerateBlankImage(config)
	if err != nil {
		return CreateTestImage(width, height, color.White)
	}

	return img
}

// LoadImageFile loads an image from the specified path (non-testing version).
func LoadImageFile(path string) (image.Image, error) {
	file, err := os.Open(path) //nolint:gosec // G304: Opening user-provided image file is expected
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return img, nil
}
