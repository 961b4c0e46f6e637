package mempool

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPoolIntegration_SimulatedConditionerWorkflow simulates the buffer
// traffic of one Image Conditioner pass: grayscale plane, binary mask,
// and the module-score grid a Grid Reader pass would derive from it.
func TestPoolIntegration_SimulatedConditionerWorkflow(t *testing.T) {
	const (
		width      = 640
		height     = 480
		iterations = 100
	)

	for range iterations {
		planeSize := width * height
		gray := GetByte(planeSize)
		for j := range gray {
			gray[j] = byte(j % 256)
		}

		mask := GetBool(planeSize)
		for j := range gray {
			if gray[j] > 127 {
				mask[j] = true
			}
		}

		blurred := GetByte(planeSize)
		copy(blurred, gray)

		PutByte(gray)
		PutBool(mask)
		PutByte(blurred)
	}
}

// TestPoolIntegration_ConcurrentDecodes simulates several decode attempts
// (the retry controller's up-to-4 passes) sharing the same pool.
func TestPoolIntegration_ConcurrentDecodes(t *testing.T) {
	const (
		numWorkers = 10
		iterations = 50
		planeSize  = 512 * 512
	)

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := range numWorkers {
		go func(id int) {
			defer wg.Done()
			for i := range iterations {
				gray := GetByte(planeSize)
				mask := GetBool(planeSize)
				for j := range gray {
					gray[j] = byte((id + i + j) % 256)
				}
				PutByte(gray)
				PutBool(mask)
			}
		}(w)
	}
	wg.Wait()
}

// TestPoolIntegration_MemoryFootprint checks that pooling keeps total
// allocation well under the naive per-iteration cost.
func TestPoolIntegration_MemoryFootprint(t *testing.T) {
	const (
		bufferSize = 1024 * 1024
		iterations = 100
	)

	runtime.GC()
	var m1 runtime.MemStats
	runtime.ReadMemStats(&m1)
	baseline := m1.TotalAlloc

	for range iterations {
		buf := GetByte(bufferSize)
		for j := range buf {
			buf[j] = byte(j)
		}
		PutByte(buf)
	}

	runtime.GC()
	var m2 runtime.MemStats
	runtime.ReadMemStats(&m2)

	allocated := m2.TotalAlloc - baseline
	maxExpected := uint64(100 * 1024 * 1024)
	assert.Less(t, allocated, maxExpected)
}

// TestPoolIntegration_ErrorRecovery exercises the safe-on-nil contract the
// rest of the package relies on when a decode attempt aborts mid-stage.
func TestPoolIntegration_ErrorRecovery(t *testing.T) {
	_ = GetByte(1000)
	assert.NotPanics(t, func() {
		PutByte(nil)
		PutBool(nil)
	})

	buf := GetByte(1000)
	assert.Len(t, buf, 1000)
	PutByte(buf)
}
