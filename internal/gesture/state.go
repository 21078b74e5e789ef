// Package gesture turns per-frame hand landmarks into discrete gesture events
// and continuous hand signals.
package gesture

import (
	"image"

	"github.com/ayusman/handmagic/internal/detector"
)

// Event names a discrete gesture event.
type Event string

const (
	// EventOpenedAfterClosed fires on the first open frame after a closed one.
	EventOpenedAfterClosed Event = "opened_after_closed"
	// EventSpin fires when the raised index finger completes a circle.
	EventSpin Event = "spin"
)

// Config holds the gesture thresholds.
type Config struct {
	OpenFingers      int           // extended fingers needed for an open hand
	SpinPose         detector.Pose // pose that feeds the spin history
	HistorySize      int           // index tip history capacity
	MinSpinSamples   int           // samples needed before spin analysis runs
	SpinTotalDegrees float64       // total absolute sweep required
	SpinNetDegrees   float64       // net signed sweep required
	TrailSize        int           // trail ring capacity
}

// DefaultConfig returns the default gesture thresholds.
func DefaultConfig() Config {
	return Config{
		OpenFingers:      detector.OpenFingerThreshold,
		SpinPose:         detector.IndexOnlyPose,
		HistorySize:      45,
		MinSpinSamples:   40,
		SpinTotalDegrees: 270,
		SpinNetDegrees:   200,
		TrailSize:        30,
	}
}

// Signals is a snapshot of one hand after a frame update.
type Signals struct {
	OpenedAfterClosed bool        `json:"opened_after_closed"`
	Spin              bool        `json:"spin"`
	HandOpen          bool        `json:"hand_open"`
	HandSize          float64     `json:"hand_size"`
	IndexTip          image.Point `json:"index_tip"`
	Palm              image.Point `json:"palm"`
	SinceOpen         int64       `json:"since_open_ms"`
	SinceSpin         int64       `json:"since_spin_ms"`

	// Trail holds the recorded trail points, oldest first.
	Trail []detector.Point2D `json:"trail,omitempty"`
}

// Events lists the events fired in this snapshot.
func (s Signals) Events() []Event {
	var events []Event
	if s.OpenedAfterClosed {
		events = append(events, EventOpenedAfterClosed)
	}
	if s.Spin {
		events = append(events, EventSpin)
	}
	return events
}

// State tracks gesture history for one hand slot. It is not safe for
// concurrent use.
type State struct {
	cfg Config

	handClosedPrev bool
	handOpen       bool

	lastOpen  int64
	hasOpened bool

	indexHistory *Ring
	lastSpin     int64
	hasSpun      bool

	trail    *Ring
	handSize float64
}

// NewState creates a state with no history. The hand starts out closed, so
// a hand that is open on its first frame fires EventOpenedAfterClosed.
func NewState(cfg Config) *State {
	if cfg.MinSpinSamples > cfg.HistorySize {
		cfg.HistorySize = cfg.MinSpinSamples
	}
	return &State{
		cfg:            cfg,
		handClosedPrev: true,
		indexHistory:   NewRing(cfg.HistorySize),
		trail:          NewRing(cfg.TrailSize),
	}
}

// Config returns the thresholds in use.
func (s *State) Config() Config { return s.cfg }

// UpdateOpenClose classifies the hand and reports whether it just opened
// after being closed. The previous state is updated after classification.
func (s *State) UpdateOpenClose(h *detector.HandLandmarks, now int64) bool {
	open := detector.FingerOpenness(h) >= s.cfg.OpenFingers
	fired := open && s.handClosedPrev
	if fired {
		s.lastOpen = now
		s.hasOpened = true
	}
	s.handClosedPrev = !open
	s.handOpen = open
	return fired
}

// UpdateSpin records the index tip while the spin pose is held and reports
// whether a full circle was just completed. Leaving the pose clears the
// history; so does a detection.
func (s *State) UpdateSpin(h *detector.HandLandmarks, now int64) bool {
	if h == nil || !s.cfg.SpinPose.Matches(detector.FingerStates(h)) {
		s.indexHistory.Clear()
		return false
	}

	s.indexHistory.Push(h.XY(detector.IndexTip))
	if s.indexHistory.Len() < s.cfg.MinSpinSamples {
		return false
	}

	if !IsCircularMotion(s.indexHistory.Points(), s.cfg) {
		return false
	}
	s.lastSpin = now
	s.hasSpun = true
	s.indexHistory.Clear()
	return true
}

// RecordTrailPoint appends a pixel position to the trail.
func (s *State) RecordTrailPoint(x, y float64) {
	s.trail.Push(detector.Point2D{X: x, Y: y})
}

// HandSize measures the hand in pixels and remembers it.
func (s *State) HandSize(h *detector.HandLandmarks, width, height int) float64 {
	s.handSize = detector.HandScale(h, width, height)
	return s.handSize
}

// Update runs every per-frame operation in order and returns the resulting
// signals.
func (s *State) Update(h *detector.HandLandmarks, now int64, width, height int) Signals {
	sig := Signals{
		OpenedAfterClosed: s.UpdateOpenClose(h, now),
		Spin:              s.UpdateSpin(h, now),
	}

	tip := h.Pixel(detector.IndexTip, width, height)
	s.RecordTrailPoint(float64(tip.X), float64(tip.Y))

	sig.HandOpen = s.handOpen
	sig.HandSize = s.HandSize(h, width, height)
	sig.IndexTip = tip
	sig.Palm = detector.PalmCenter(h, width, height)
	sig.SinceOpen = s.SinceOpenAfterClose(now)
	sig.SinceSpin = s.SinceSpin(now)
	sig.Trail = s.Trail()
	return sig
}

// HandOpen reports the classification of the last frame.
func (s *State) HandOpen() bool { return s.handOpen }

// SinceOpenAfterClose returns the milliseconds since the last
// EventOpenedAfterClosed, or -1 if it never fired.
func (s *State) SinceOpenAfterClose(now int64) int64 {
	if !s.hasOpened {
		return -1
	}
	return now - s.lastOpen
}

// SinceSpin returns the milliseconds since the last EventSpin, or -1 if it
// never fired.
func (s *State) SinceSpin(now int64) int64 {
	if !s.hasSpun {
		return -1
	}
	return now - s.lastSpin
}

// LastHandSize returns the most recent HandSize measurement.
func (s *State) LastHandSize() float64 { return s.handSize }

// Trail returns the recorded trail points, oldest first.
func (s *State) Trail() []detector.Point2D { return s.trail.Points() }

// IndexHistoryLen returns the number of buffered spin samples.
func (s *State) IndexHistoryLen() int { return s.indexHistory.Len() }

// Reset discards all history and returns to the initial closed state.
func (s *State) Reset() {
	s.handClosedPrev = true
	s.handOpen = false
	s.lastOpen, s.hasOpened = 0, false
	s.lastSpin, s.hasSpun = 0, false
	s.indexHistory.Clear()
	s.trail.Clear()
	s.handSize = 0
}
