package effects

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/ayusman/handmagic/internal/compose"
)

// Instance is one placement of a sprite.
type Instance struct {
	Center   image.Point
	Size     int
	Rotation float64 // degrees
	Opacity  float64
	Sprite   int
}

// TopLeft returns the corner at which the scaled sprite is blended.
func (in Instance) TopLeft() image.Point {
	return image.Point{X: in.Center.X - in.Size/2, Y: in.Center.Y - in.Size/2}
}

// drawInstance scales, rotates and blends sprite onto frame. It reports
// whether anything was drawn.
func drawInstance(frame *gocv.Mat, sprite gocv.Mat, in Instance) bool {
	if frame == nil || sprite.Empty() || in.Size < 1 {
		return false
	}
	topLeft := in.TopLeft()
	if topLeft.X < 0 || topLeft.Y < 0 || topLeft.X+in.Size > frame.Cols() || topLeft.Y+in.Size > frame.Rows() {
		return false
	}

	scaled := compose.ScaleSprite(sprite, image.Point{X: in.Size, Y: in.Size})
	defer scaled.Close()

	if in.Rotation == 0 {
		return compose.AlphaBlendOpacity(frame, scaled, topLeft, in.Opacity)
	}
	rotated := compose.RotateSprite(scaled, in.Rotation)
	defer rotated.Close()
	return compose.AlphaBlendOpacity(frame, rotated, topLeft, in.Opacity)
}
