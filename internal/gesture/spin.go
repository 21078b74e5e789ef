package gesture

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ayusman/handmagic/internal/detector"
)

// Sweep measures how a path turns around its own centroid.
type Sweep struct {
	// Total is the sum of absolute angular steps in radians.
	Total float64
	// Net is the signed sum of angular steps in radians. Direction reversals
	// cancel out here but not in Total.
	Net float64
}

// MeasureSweep computes the angular sweep of points around their centroid.
// Each step is normalized into (-π, π] so a reversal shows up as a negative
// step instead of wrapping to a large positive one.
func MeasureSweep(points []detector.Point2D) Sweep {
	if len(points) < 2 {
		return Sweep{}
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	center := detector.Point2D{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}

	var s Sweep
	for i := 1; i < len(points); i++ {
		d := detector.CentroidAngle(points[i-1], points[i], center)
		if d > math.Pi {
			d -= 2 * math.Pi
		}
		s.Total += math.Abs(d)
		s.Net += d
	}
	return s
}

// IsCircularMotion reports whether points sweep more than cfg.SpinTotalDegrees
// in all and more than cfg.SpinNetDegrees in one consistent direction.
func IsCircularMotion(points []detector.Point2D, cfg Config) bool {
	s := MeasureSweep(points)
	return s.Total > degToRad(cfg.SpinTotalDegrees) && math.Abs(s.Net) > degToRad(cfg.SpinNetDegrees)
}

func degToRad(d float64) float64 {
	return d * math.Pi / 180
}
