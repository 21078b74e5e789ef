package gesture

import (
	"image"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/handmagic/internal/detector"
)

func TestRing(t *testing.T) {
	t.Run("evicts oldest when full", func(t *testing.T) {
		r := NewRing(3)
		for i := 1; i <= 5; i++ {
			r.Push(detector.Point2D{X: float64(i)})
		}

		want := []detector.Point2D{{X: 3}, {X: 4}, {X: 5}}
		if diff := cmp.Diff(want, r.Points()); diff != "" {
			t.Errorf("Points() mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, 3, r.Len())
		assert.Equal(t, 3, r.Cap())

		last, ok := r.Last()
		require.True(t, ok)
		assert.Equal(t, 5.0, last.X)
	})

	t.Run("clear keeps capacity", func(t *testing.T) {
		r := NewRing(4)
		r.Push(detector.Point2D{X: 1})
		r.Clear()

		assert.Equal(t, 0, r.Len())
		assert.Equal(t, 4, r.Cap())
		assert.Empty(t, r.Points())
		_, ok := r.Last()
		assert.False(t, ok)
	})

	t.Run("minimum capacity is one", func(t *testing.T) {
		r := NewRing(0)
		r.Push(detector.Point2D{X: 1})
		r.Push(detector.Point2D{X: 2})
		assert.Equal(t, []detector.Point2D{{X: 2}}, r.Points())
	})
}

func arcPoints(degrees []float64) []detector.Point2D {
	points := make([]detector.Point2D, len(degrees))
	for i, d := range degrees {
		rad := d * math.Pi / 180
		points[i] = detector.Point2D{X: math.Cos(rad), Y: math.Sin(rad)}
	}
	return points
}

func TestIsCircularMotion(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("full circle fires", func(t *testing.T) {
		var degs []float64
		for i := 0; i < 40; i++ {
			degs = append(degs, float64(i)*9)
		}
		assert.True(t, IsCircularMotion(arcPoints(degs), cfg))
	})

	t.Run("reverse circle fires", func(t *testing.T) {
		var degs []float64
		for i := 0; i < 40; i++ {
			degs = append(degs, -float64(i)*9)
		}
		assert.True(t, IsCircularMotion(arcPoints(degs), cfg))
	})

	t.Run("back and forth does not fire", func(t *testing.T) {
		// Three full periods of a triangle wave between -20 and 20 degrees.
		degs := []float64{-20}
		for period := 0; period < 3; period++ {
			for d := -15.0; d <= 20; d += 5 {
				degs = append(degs, d)
			}
			for d := 15.0; d >= -20; d -= 5 {
				degs = append(degs, d)
			}
		}
		require.Len(t, degs, 49)

		s := MeasureSweep(arcPoints(degs))
		assert.Greater(t, s.Total, 270*math.Pi/180)
		assert.InDelta(t, 0, s.Net, 1e-6)
		assert.False(t, IsCircularMotion(arcPoints(degs), cfg))
	})

	t.Run("quarter arc does not fire", func(t *testing.T) {
		var degs []float64
		for i := 0; i < 40; i++ {
			degs = append(degs, float64(i)*90/39)
		}
		s := MeasureSweep(arcPoints(degs))
		assert.Less(t, s.Total, 270*math.Pi/180)
		assert.False(t, IsCircularMotion(arcPoints(degs), cfg))
	})

	t.Run("fewer than two points", func(t *testing.T) {
		assert.Equal(t, Sweep{}, MeasureSweep(nil))
		assert.False(t, IsCircularMotion([]detector.Point2D{{X: 1}}, cfg))
	})
}

func TestUpdateOpenClose(t *testing.T) {
	open := detector.OpenPalmLandmarks()
	fist := detector.FistLandmarks()

	tests := []struct {
		name  string
		hands []detector.HandLandmarks
		want  []bool
	}{
		{
			name:  "open on first frame fires",
			hands: []detector.HandLandmarks{open, open},
			want:  []bool{true, false},
		},
		{
			name:  "closed then open fires once",
			hands: []detector.HandLandmarks{fist, fist, fist, fist, fist, open, open, open},
			want:  []bool{false, false, false, false, false, true, false, false},
		},
		{
			name:  "every reopen fires",
			hands: []detector.HandLandmarks{open, fist, open, fist, open},
			want:  []bool{true, false, true, false, true},
		},
		{
			name:  "never open never fires",
			hands: []detector.HandLandmarks{fist, fist},
			want:  []bool{false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(DefaultConfig())
			got := make([]bool, len(tt.hands))
			for i := range tt.hands {
				got[i] = s.UpdateOpenClose(&tt.hands[i], int64(i*33))
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("fired mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSinceOpenAfterClose(t *testing.T) {
	s := NewState(DefaultConfig())
	assert.Equal(t, int64(-1), s.SinceOpenAfterClose(1000))

	fist := detector.FistLandmarks()
	open := detector.OpenPalmLandmarks()
	s.UpdateOpenClose(&fist, 100)
	require.True(t, s.UpdateOpenClose(&open, 200))

	assert.True(t, s.HandOpen())
	assert.Equal(t, int64(300), s.SinceOpenAfterClose(500))
}

func circlingHands(n int, stepDeg float64) []detector.HandLandmarks {
	base := detector.IndexPointingLandmarks()
	hands := make([]detector.HandLandmarks, n)
	for i := range hands {
		rad := float64(i) * stepDeg * math.Pi / 180
		hands[i] = base.WithIndexTipAt(0.5+0.1*math.Cos(rad), 0.5+0.1*math.Sin(rad))
	}
	return hands
}

func TestUpdateSpin(t *testing.T) {
	t.Run("fires on the sample that completes the circle", func(t *testing.T) {
		s := NewState(DefaultConfig())
		hands := circlingHands(40, 9)

		for i := 0; i < 39; i++ {
			require.False(t, s.UpdateSpin(&hands[i], int64(i*20)), "frame %d", i)
		}
		assert.Equal(t, 39, s.IndexHistoryLen())
		assert.Equal(t, int64(-1), s.SinceSpin(1000))

		require.True(t, s.UpdateSpin(&hands[39], 780))
		assert.Equal(t, 0, s.IndexHistoryLen(), "history is cleared after a detection")
		assert.Equal(t, int64(220), s.SinceSpin(1000))
	})

	t.Run("leaving the pose clears history", func(t *testing.T) {
		s := NewState(DefaultConfig())
		hands := circlingHands(30, 9)
		for i := range hands {
			s.UpdateSpin(&hands[i], int64(i))
		}
		require.Equal(t, 30, s.IndexHistoryLen())

		open := detector.OpenPalmLandmarks()
		assert.False(t, s.UpdateSpin(&open, 31))
		assert.Equal(t, 0, s.IndexHistoryLen())
	})

	t.Run("still finger never fires", func(t *testing.T) {
		s := NewState(DefaultConfig())
		hand := detector.IndexPointingLandmarks()
		for i := 0; i < 60; i++ {
			assert.False(t, s.UpdateSpin(&hand, int64(i)))
		}
		assert.Equal(t, DefaultConfig().HistorySize, s.IndexHistoryLen())
	})
}

func TestTrail(t *testing.T) {
	s := NewState(DefaultConfig())
	for i := 0; i < 35; i++ {
		s.RecordTrailPoint(float64(i), float64(i*2))
	}

	trail := s.Trail()
	require.Len(t, trail, 30)
	assert.Equal(t, detector.Point2D{X: 5, Y: 10}, trail[0])
	assert.Equal(t, detector.Point2D{X: 34, Y: 68}, trail[29])
}

func TestUpdate(t *testing.T) {
	s := NewState(DefaultConfig())
	hand := detector.IndexPointingLandmarks()

	sig := s.Update(&hand, 0, 640, 480)

	assert.False(t, sig.OpenedAfterClosed)
	assert.False(t, sig.Spin)
	assert.False(t, sig.HandOpen)
	assert.Equal(t, image.Point{X: 364, Y: 182}, sig.IndexTip)
	assert.InDelta(t, detector.HandScale(&hand, 640, 480), sig.HandSize, 1e-9)
	assert.Equal(t, sig.HandSize, s.LastHandSize())
	assert.Equal(t, int64(-1), sig.SinceOpen)
	assert.Equal(t, int64(-1), sig.SinceSpin)
	assert.Len(t, s.Trail(), 1)
	assert.Equal(t, []detector.Point2D{{X: 364, Y: 182}}, sig.Trail)
	assert.Empty(t, sig.Events())

	open := detector.OpenPalmLandmarks()
	sig = s.Update(&open, 40, 640, 480)
	assert.Equal(t, []Event{EventOpenedAfterClosed}, sig.Events())
	assert.Equal(t, int64(0), sig.SinceOpen)
	require.Len(t, sig.Trail, 2)
	assert.Equal(t, detector.Point2D{X: 364, Y: 182}, sig.Trail[0], "oldest first")
	assert.Equal(t, s.Trail(), sig.Trail)
}

func TestReset(t *testing.T) {
	s := NewState(DefaultConfig())
	open := detector.OpenPalmLandmarks()
	s.Update(&open, 10, 640, 480)
	require.True(t, s.HandOpen())

	s.Reset()

	assert.False(t, s.HandOpen())
	assert.Empty(t, s.Trail())
	assert.Zero(t, s.LastHandSize())
	assert.Equal(t, int64(-1), s.SinceOpenAfterClose(100))
	assert.True(t, s.UpdateOpenClose(&open, 200), "reset returns to the closed state")
}
