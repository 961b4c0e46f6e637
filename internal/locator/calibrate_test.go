package locator

import (
	"testing"

	"github.com/go-dmtx/dmtx200/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestWrapIndexHandlesNegativeAndOverflow(t *testing.T) {
	assert.Equal(t, 9, wrapIndex(-1, 10))
	assert.Equal(t, 0, wrapIndex(10, 10))
	assert.Equal(t, 5, wrapIndex(5, 10))
}

func TestCalibrateLShapeOnDiamond(t *testing.T) {
	contour := diamondContour(100, 100, 60, 40)
	_, vertex := seedVertices(contour)
	l, ok := getLShape(contour, vertex)
	if !ok {
		t.Fatal("expected getLShape to succeed on a well-formed diamond")
	}

	before1, before2 := l.Angle1, l.Angle2
	ok = calibrateLShape(contour, &l)
	assert.True(t, ok)
	// Calibration should not flip the legs to near-parallel or near-opposite.
	diff := l.Angle1 - l.Angle2
	if diff < 0 {
		diff = -diff
	}
	assert.True(t, diff >= 45.0 && diff <= 135.0)
	_ = before1
	_ = before2
}

func TestCalibrateP1P2WalksTowardTargetAngle(t *testing.T) {
	// A straight horizontal contour: the angle from `best` to any point on
	// it is already 0, so orient +1 should accept immediately without
	// moving far from the starting index.
	contour := make([]utils.Point, 0, 40)
	for i := 0; i < 40; i++ {
		contour = append(contour, utils.Point{X: float64(i), Y: 0})
	}
	best := Vertex{Location: utils.Point{X: -10, Y: 0}, Index: -1}
	p := Vertex{Location: contour[20], Index: 20}
	calibrateP1P2(contour, best, 0, +1, +1, &p)
	assert.InDelta(t, 0.0, p.Location.Y, 1e-6)
}
