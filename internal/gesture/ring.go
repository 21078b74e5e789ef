package gesture

import "github.com/ayusman/handmagic/internal/detector"

// Ring is a fixed-capacity history of points. Pushing onto a full ring
// evicts the oldest point.
type Ring struct {
	buf   []detector.Point2D
	start int
	n     int
}

// NewRing creates a ring holding at most capacity points (minimum 1).
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{buf: make([]detector.Point2D, capacity)}
}

// Push appends p, evicting the oldest point when full.
func (r *Ring) Push(p detector.Point2D) {
	if r.n < len(r.buf) {
		r.buf[(r.start+r.n)%len(r.buf)] = p
		r.n++
		return
	}
	r.buf[r.start] = p
	r.start = (r.start + 1) % len(r.buf)
}

// Len returns the number of stored points.
func (r *Ring) Len() int { return r.n }

// Cap returns the fixed capacity.
func (r *Ring) Cap() int { return len(r.buf) }

// Clear drops every point.
func (r *Ring) Clear() {
	r.start = 0
	r.n = 0
}

// At returns the i-th point, oldest first.
func (r *Ring) At(i int) detector.Point2D {
	return r.buf[(r.start+i)%len(r.buf)]
}

// Last returns the newest point.
func (r *Ring) Last() (detector.Point2D, bool) {
	if r.n == 0 {
		return detector.Point2D{}, false
	}
	return r.At(r.n - 1), true
}

// Points returns a copy of the stored points, oldest first.
func (r *Ring) Points() []detector.Point2D {
	out := make([]detector.Point2D, r.n)
	for i := range out {
		out[i] = r.At(i)
	}
	return out
}
