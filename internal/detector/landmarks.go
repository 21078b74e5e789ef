// Package detector provides hand landmark types, landmark geometry and the
// adapters that produce landmarks from video frames.
package detector

import "image"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a normalized landmark position. X and Y are in [0,1] relative to
// the frame, Y grows downward; Z is the optional relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Point2D is a 2D position, either normalized or in pixels depending on use.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HandLandmarks represents the 21 hand landmarks of one tracked hand for a
// single frame.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// XY returns the normalized 2D position of landmark i.
func (h *HandLandmarks) XY(i int) Point2D {
	return Point2D{X: h.Points[i].X, Y: h.Points[i].Y}
}

// Pixel converts landmark i to pixel coordinates in a width x height frame.
func (h *HandLandmarks) Pixel(i, width, height int) image.Point {
	return Pixel(h.XY(i), width, height)
}

// Translate returns a copy of the hand moved by (dx, dy) in normalized units.
func (h *HandLandmarks) Translate(dx, dy float64) HandLandmarks {
	moved := *h
	for i := range moved.Points {
		moved.Points[i].X += dx
		moved.Points[i].Y += dy
	}
	return moved
}

// WithIndexTipAt returns a copy of the hand translated so that the index
// fingertip lands on (x, y). The pose is unchanged.
func (h *HandLandmarks) WithIndexTipAt(x, y float64) HandLandmarks {
	tip := h.Points[IndexTip]
	return h.Translate(x-tip.X, y-tip.Y)
}
