package effects

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/ayusman/handmagic/internal/compose"
)

// Fire cycles through preloaded, chroma-keyed animation frames. The frames are
// owned by the caller.
type Fire struct {
	config FireConfig
	frames []gocv.Mat
	index  int
}

// NewFire creates a fire renderer over frames. With no frames it draws
// nothing.
func NewFire(frames []gocv.Mat, cfg FireConfig) *Fire {
	return &Fire{config: cfg, frames: frames}
}

// Size returns the square side drawn at intensity.
func (f *Fire) Size(intensity float64) int {
	return max(f.config.MinSize, int(intensity*f.config.BaseSize))
}

// Draw blends the current animation frame centered at center and advances
// the animation by one frame. The frame index advances even when the sprite
// does not fit and nothing is drawn.
func (f *Fire) Draw(frame *gocv.Mat, center image.Point, intensity float64) bool {
	if len(f.frames) == 0 {
		return false
	}
	current := f.frames[f.index]
	f.index = (f.index + 1) % len(f.frames)

	size := f.Size(intensity)
	topLeft := image.Point{X: center.X - size/2, Y: center.Y - size/2}
	if frame == nil || topLeft.X < 0 || topLeft.Y < 0 || topLeft.X+size > frame.Cols() || topLeft.Y+size > frame.Rows() {
		return false
	}

	scaled := compose.ScaleSprite(current, image.Point{X: size, Y: size})
	defer scaled.Close()
	return compose.AlphaBlend(frame, scaled, topLeft)
}

// FrameIndex returns the index of the next frame to draw.
func (f *Fire) FrameIndex() int { return f.index }

// Reset rewinds the animation.
func (f *Fire) Reset() { f.index = 0 }
