package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Motion gate constants
const (
	// MotionBlurSize is the Gaussian kernel applied before differencing.
	MotionBlurSize = 21
	// MotionDiffThreshold is the per-pixel difference that counts as change.
	MotionDiffThreshold = 25
	// DefaultMotionPercent is the share of changed pixels that counts as motion.
	DefaultMotionPercent = 0.5
	// DefaultHoldFrames keeps the gate open after motion stops.
	DefaultHoldFrames = 30
)

// MotionGate decides whether a frame is worth running hand detection on.
// It opens on frame-to-frame change and stays open for a number of still
// frames afterwards, so a hand held still keeps being tracked for a while.
type MotionGate struct {
	mu          sync.Mutex
	percent     float64
	holdFrames  int
	still       int
	prevGray    gocv.Mat
	initialized bool
}

// NewMotionGate creates a gate that opens when more than percent of the
// pixels change and closes after holdFrames still frames.
func NewMotionGate(percent float64, holdFrames int) *MotionGate {
	return &MotionGate{
		percent:    percent,
		holdFrames: max(0, holdFrames),
		prevGray:   gocv.NewMat(),
	}
}

// Open reports whether detection should run on frame, and the percentage of
// changed pixels. The first frame always opens the gate.
func (m *MotionGate) Open(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: MotionBlurSize, Y: MotionBlurSize}, 0, 0, gocv.BorderDefault)

	if !m.initialized {
		blurred.CopyTo(&m.prevGray)
		m.initialized = true
		m.still = 0
		return true, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prevGray, &diff)
	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, MotionDiffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(thresh)) / float64(thresh.Rows()*thresh.Cols()) * 100
	blurred.CopyTo(&m.prevGray)

	if changed > m.percent {
		m.still = 0
		return true, changed
	}
	m.still++
	return m.still <= m.holdFrames, changed
}

// Reset forgets the baseline frame; the next frame opens the gate.
func (m *MotionGate) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initialized = false
	m.still = 0
}

// Close releases the baseline frame.
func (m *MotionGate) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prevGray.Close()
	m.prevGray = gocv.NewMat()
	m.initialized = false
}
