// Package dispatch routes each frame's tracked hands to the active effect
// renderer and owns the per-hand gesture state and per-effect state.
package dispatch

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/handmagic/internal/assets"
	"github.com/ayusman/handmagic/internal/detector"
	"github.com/ayusman/handmagic/internal/effects"
	"github.com/ayusman/handmagic/internal/gesture"
	"github.com/ayusman/handmagic/internal/particle"
)

// Config holds the dispatcher settings.
type Config struct {
	Gesture gesture.Config
	Effects effects.Config
	// MaxHands is the number of hand slots with their own gesture state.
	// Extra hands are ignored.
	MaxHands int
	// FrameWidth and FrameHeight are used when Process gets no frame.
	FrameWidth  int
	FrameHeight int
	// Seed seeds the shared random source.
	Seed uint64
}

// DefaultConfig returns the default dispatcher settings.
func DefaultConfig() Config {
	return Config{
		Gesture:     gesture.DefaultConfig(),
		Effects:     effects.DefaultConfig(),
		MaxHands:    2,
		FrameWidth:  640,
		FrameHeight: 480,
		Seed:        1,
	}
}

// Event is a gesture event raised while processing a frame.
type Event struct {
	Type gesture.Event `json:"type"`
	Hand int           `json:"hand"`
	Time int64         `json:"time"`
	Mode Mode          `json:"mode"`
}

// Result describes what happened during one Process call.
type Result struct {
	Events  []Event           `json:"events"`
	Signals []gesture.Signals `json:"signals"`
	Hands   int               `json:"hands"`
}

// Dispatcher maps the selected mode to its renderer. It is not safe for
// concurrent use; the frame loop owns it.
type Dispatcher struct {
	config Config
	states []*gesture.State
	mode   Mode

	fire      *effects.Fire
	sparkles  *effects.Sparkles
	explosion *effects.Explosion
	snow      *effects.Snow
	trail     *effects.RainbowTrail

	hands int
}

// New creates a dispatcher drawing with set. A nil set disables every
// sprite-based effect.
func New(cfg Config, set *assets.Set) *Dispatcher {
	if cfg.MaxHands < 1 {
		cfg.MaxHands = 1
	}
	if set == nil {
		set = &assets.Set{}
	}
	r := particle.NewRand(cfg.Seed)

	d := &Dispatcher{
		config:    cfg,
		states:    make([]*gesture.State, cfg.MaxHands),
		mode:      ModeNone,
		fire:      effects.NewFire(set.Fire, cfg.Effects.Fire),
		sparkles:  effects.NewSparkles(set.Sparkles, cfg.Effects.Sparkles, r),
		explosion: effects.NewExplosion(set.Spark, cfg.Effects.Explosion, r),
		snow:      effects.NewSnow(set.Snowflake, cfg.Effects.Snow, r),
		trail:     effects.NewRainbowTrail(cfg.Effects.Trail),
	}
	for i := range d.states {
		d.states[i] = gesture.NewState(cfg.Gesture)
	}
	return d
}

// Process runs one frame: it switches effects if mode changed, updates the
// gesture state of every tracked hand, renders the active effect onto frame
// in place and returns the raised events and per-hand signals. With no hands
// only ambient work runs: the snow field and live explosion particles.
func (d *Dispatcher) Process(frame *gocv.Mat, hands []detector.HandLandmarks, now int64, mode Mode, intensity float64) Result {
	width, height := d.frameSize(frame)
	if mode != d.mode {
		d.switchMode(mode, width, height)
	}
	intensity = max(0, min(1, intensity))

	if len(hands) > len(d.states) {
		hands = hands[:len(d.states)]
	}
	d.hands = len(hands)

	if d.mode == ModeSnow {
		d.snow.Tick(frame, now)
	}

	res := Result{Hands: len(hands)}
	for i := range hands {
		state := d.states[i]
		sig := state.Update(&hands[i], now, width, height)
		res.Signals = append(res.Signals, sig)
		for _, ev := range sig.Events() {
			res.Events = append(res.Events, Event{Type: ev, Hand: i, Time: now, Mode: d.mode})
		}
		d.render(frame, i, sig, now, intensity)
	}

	switch d.mode {
	case ModeExplosion:
		d.explosion.Tick(frame, now)
	case ModeRainbowTrail:
		if len(hands) > 0 {
			d.trail.Draw(frame)
		}
	}
	return res
}

func (d *Dispatcher) render(frame *gocv.Mat, slot int, sig gesture.Signals, now int64, intensity float64) {
	switch d.mode {
	case ModeFire:
		if sig.HandOpen {
			d.fire.Draw(frame, sig.Palm, intensity)
		}
	case ModeSparkles:
		if sig.HandOpen {
			d.sparkles.Draw(frame, sig.Palm, sig.Trail, intensity)
		}
	case ModeExplosion:
		d.explosion.Emit(sig.Palm, sig, now)
	case ModeSnow:
		d.snow.Burst(frame, sig.IndexTip, sig)
	case ModeRainbowTrail:
		// the trail follows the first hand only
		if slot == 0 {
			d.trail.Add(sig.IndexTip)
		}
	case ModeRainbowArcs:
		effects.DrawRainbowArcs(frame, sig.IndexTip, sig.HandSize, d.config.Effects.Arcs)
	}
}

func (d *Dispatcher) frameSize(frame *gocv.Mat) (int, int) {
	if frame != nil && !frame.Empty() {
		return frame.Cols(), frame.Rows()
	}
	return d.config.FrameWidth, d.config.FrameHeight
}

// switchMode tears down the state of the current effect and activates next.
func (d *Dispatcher) switchMode(next Mode, width, height int) {
	d.teardown()
	d.mode = next
	if next == ModeSnow {
		d.snow.Activate(width, height)
	}
}

func (d *Dispatcher) teardown() {
	d.fire.Reset()
	d.explosion.Reset()
	d.snow.Deactivate()
	d.trail.Clear()
}

// Reset discards all gesture and effect state. The next Process call
// activates its mode from scratch.
func (d *Dispatcher) Reset() {
	d.teardown()
	for _, s := range d.states {
		s.Reset()
	}
	d.mode = ModeNone
	d.hands = 0
}

// Mode returns the active mode.
func (d *Dispatcher) Mode() Mode { return d.mode }

// Hands returns the number of hands processed in the last frame.
func (d *Dispatcher) Hands() int { return d.hands }

// State returns the gesture state of a hand slot, or nil if out of range.
func (d *Dispatcher) State(slot int) *gesture.State {
	if slot < 0 || slot >= len(d.states) {
		return nil
	}
	return d.states[slot]
}

// HandOpen reports whether the first hand was open in the last frame it was
// seen.
func (d *Dispatcher) HandOpen() bool { return d.states[0].HandOpen() }

// SinceOpenAfterClose returns the milliseconds since the first hand last
// opened after being closed, or -1.
func (d *Dispatcher) SinceOpenAfterClose(now int64) int64 {
	return d.states[0].SinceOpenAfterClose(now)
}

// SinceSpin returns the milliseconds since the first hand last completed a
// spin, or -1.
func (d *Dispatcher) SinceSpin(now int64) int64 { return d.states[0].SinceSpin(now) }

// HandSize returns the last measured size of the first hand in pixels.
func (d *Dispatcher) HandSize() float64 { return d.states[0].LastHandSize() }

// Explosion returns the explosion renderer.
func (d *Dispatcher) Explosion() *effects.Explosion { return d.explosion }

// Snow returns the snow renderer.
func (d *Dispatcher) Snow() *effects.Snow { return d.snow }

// Trail returns the rainbow trail renderer.
func (d *Dispatcher) Trail() *effects.RainbowTrail { return d.trail }

// Fire returns the fire renderer.
func (d *Dispatcher) Fire() *effects.Fire { return d.fire }
