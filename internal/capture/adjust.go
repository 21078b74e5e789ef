package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// Adjustment ranges.
const (
	MinBrightness = -100.0
	MaxBrightness = 100.0
	MinContrast   = 0.0
	MaxContrast   = 2.0
)

// Adjustment describes the per-frame image correction.
type Adjustment struct {
	Brightness float64 `json:"brightness"` // added to every channel, -100..100
	Contrast   float64 `json:"contrast"`   // channel gain, 0..2
	Mirror     bool    `json:"mirror"`     // flip horizontally
}

// DefaultAdjustment leaves the frame untouched apart from mirroring, so the
// preview behaves like a mirror.
func DefaultAdjustment() Adjustment {
	return Adjustment{Contrast: 1, Mirror: true}
}

// Clamp returns a with every field inside its valid range.
func (a Adjustment) Clamp() Adjustment {
	a.Brightness = max(MinBrightness, min(MaxBrightness, a.Brightness))
	a.Contrast = max(MinContrast, min(MaxContrast, a.Contrast))
	return a
}

// Identity reports whether applying a changes nothing.
func (a Adjustment) Identity() bool {
	return a.Brightness == 0 && a.Contrast == 1 && !a.Mirror
}

// Adjuster applies brightness, contrast and mirroring to frames. Settings
// may be changed from any goroutine while the frame loop applies them.
type Adjuster struct {
	mu  sync.RWMutex
	adj Adjustment
}

// NewAdjuster creates an adjuster with the given settings, clamped.
func NewAdjuster(a Adjustment) *Adjuster {
	return &Adjuster{adj: a.Clamp()}
}

// Set replaces the settings, clamped.
func (a *Adjuster) Set(adj Adjustment) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.adj = adj.Clamp()
}

// Get returns the current settings.
func (a *Adjuster) Get() Adjustment {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.adj
}

// Apply corrects frame in place. Channel values saturate at 0 and 255.
func (a *Adjuster) Apply(frame *gocv.Mat) {
	if frame == nil || frame.Empty() {
		return
	}
	adj := a.Get()

	if adj.Brightness != 0 || adj.Contrast != 1 {
		out := gocv.NewMat()
		frame.ConvertToWithParams(&out, frame.Type(), float32(adj.Contrast), float32(adj.Brightness))
		out.CopyTo(frame)
		out.Close()
	}
	if adj.Mirror {
		gocv.Flip(*frame, frame, 1)
	}
}
