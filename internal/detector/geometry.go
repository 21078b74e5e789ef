package detector

import (
	"image"
	"math"
)

// OpenFingerThreshold is the number of extended non-thumb fingers at which a
// hand counts as open.
const OpenFingerThreshold = 3

// Finger slots of the vector returned by FingerStates.
const (
	FingerThumb = iota
	FingerIndex
	FingerMiddle
	FingerRing
	FingerPinky
)

// tip/PIP pairs for the four non-thumb fingers, index first.
var fingerJoints = [4][2]int{
	{IndexTip, IndexPIP},
	{MiddleTip, MiddlePIP},
	{RingTip, RingPIP},
	{PinkyTip, PinkyPIP},
}

// palmLandmarks are averaged to find the palm center.
var palmLandmarks = [...]int{Wrist, ThumbCMC, ThumbMCP, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}

// FingerOpenness counts the extended non-thumb fingers (0..4). A finger is
// extended when its tip is above its PIP joint in camera space.
func FingerOpenness(h *HandLandmarks) int {
	if h == nil {
		return 0
	}
	n := 0
	for _, j := range fingerJoints {
		if h.Points[j[0]].Y < h.Points[j[1]].Y {
			n++
		}
	}
	return n
}

// IsHandOpen reports whether at least OpenFingerThreshold fingers are extended.
func IsHandOpen(h *HandLandmarks) bool {
	return FingerOpenness(h) >= OpenFingerThreshold
}

// FingerStates returns the extended/curled vector for thumb, index, middle,
// ring and pinky. The thumb extends sideways, so it is tested on the
// horizontal axis: it is extended when its tip is farther from the index MCP
// than its IP joint is.
func FingerStates(h *HandLandmarks) [5]bool {
	var s [5]bool
	if h == nil {
		return s
	}
	ref := h.Points[IndexMCP].X
	s[FingerThumb] = math.Abs(h.Points[ThumbTip].X-ref) > math.Abs(h.Points[ThumbIP].X-ref)
	for i, j := range fingerJoints {
		s[i+1] = h.Points[j[0]].Y < h.Points[j[1]].Y
	}
	return s
}

// FingerRule constrains one finger slot of a Pose.
type FingerRule uint8

const (
	FingerAny FingerRule = iota
	FingerExtended
	FingerCurled
)

// Pose is a pattern over the five finger slots.
type Pose [5]FingerRule

// IndexOnlyPose matches a raised index finger with middle, ring and pinky
// curled. The thumb is ignored.
var IndexOnlyPose = Pose{FingerAny, FingerExtended, FingerCurled, FingerCurled, FingerCurled}

// Matches reports whether states satisfy every non-Any slot exactly.
func (p Pose) Matches(states [5]bool) bool {
	for i, rule := range p {
		switch rule {
		case FingerExtended:
			if !states[i] {
				return false
			}
		case FingerCurled:
			if states[i] {
				return false
			}
		}
	}
	return true
}

// IsOnlyIndexRaised reports whether the hand matches IndexOnlyPose.
func IsOnlyIndexRaised(h *HandLandmarks) bool {
	if h == nil {
		return false
	}
	return IndexOnlyPose.Matches(FingerStates(h))
}

// HandScale returns the pixel distance between the wrist and the middle
// fingertip. It grows as the hand gets closer to the camera.
func HandScale(h *HandLandmarks, width, height int) float64 {
	if h == nil {
		return 0
	}
	w, m := h.Points[Wrist], h.Points[MiddleTip]
	dx := (m.X - w.X) * float64(width)
	dy := (m.Y - w.Y) * float64(height)
	return math.Hypot(dx, dy)
}

// CentroidAngle returns the angle swept around center going from p1 to p2,
// normalized into [0, 2π).
func CentroidAngle(p1, p2, center Point2D) float64 {
	a1 := math.Atan2(p1.Y-center.Y, p1.X-center.X)
	a2 := math.Atan2(p2.Y-center.Y, p2.X-center.X)
	d := math.Mod(a2-a1, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	if d >= 2*math.Pi {
		d = 0
	}
	return d
}

// PalmCenter returns the mean of the wrist and knuckle landmarks in pixels.
func PalmCenter(h *HandLandmarks, width, height int) image.Point {
	var sx, sy float64
	for _, i := range palmLandmarks {
		sx += h.Points[i].X
		sy += h.Points[i].Y
	}
	n := float64(len(palmLandmarks))
	return Pixel(Point2D{X: sx / n, Y: sy / n}, width, height)
}

// Pixel converts a normalized point to integer pixel coordinates.
func Pixel(p Point2D, width, height int) image.Point {
	return image.Point{X: int(p.X * float64(width)), Y: int(p.Y * float64(height))}
}
