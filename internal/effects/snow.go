package effects

import (
	"image"
	"math"

	"gocv.io/x/gocv"

	"github.com/ayusman/handmagic/internal/gesture"
	"github.com/ayusman/handmagic/internal/particle"
)

// Snow keeps an ambient snow field falling over the whole frame and adds a
// flurry of snowflake sprites around the finger after a spin.
type Snow struct {
	config SnowConfig
	sprite *gocv.Mat
	rand   *particle.Rand
	field  *particle.Field
}

// NewSnow creates an inactive snow renderer. Flakes and the spin flurry use
// sprite; with a nil sprite flakes are white circles and there is no flurry.
func NewSnow(sprite *gocv.Mat, cfg SnowConfig, r *particle.Rand) *Snow {
	if r == nil {
		r = particle.NewRand(1)
	}
	return &Snow{config: cfg, sprite: sprite, rand: r}
}

// Activate builds the ambient field for a width x height frame.
func (s *Snow) Activate(width, height int) {
	cfg := s.config.Field
	if s.sprite != nil && !s.sprite.Empty() {
		cfg.Draw = s.drawFlake
	}
	s.field = particle.NewField(width, height, cfg, s.rand)
}

// Deactivate discards the ambient field.
func (s *Snow) Deactivate() { s.field = nil }

// Active reports whether the field exists.
func (s *Snow) Active() bool { return s.field != nil }

// Field returns the ambient field, or nil when inactive.
func (s *Snow) Field() *particle.Field { return s.field }

// Tick advances and draws the ambient field. A frame of a different size
// resizes the field.
func (s *Snow) Tick(frame *gocv.Mat, now int64) {
	if s.field == nil {
		return
	}
	if frame != nil && !frame.Empty() {
		if w, h := s.field.Size(); w != frame.Cols() || h != frame.Rows() {
			s.field.Resize(frame.Cols(), frame.Rows())
		}
	}
	s.field.Update()
	s.field.Draw(frame, now)
}

// BurstPlan lays out the spin flurry around tip. It is empty unless a spin
// was detected less than WindowMs ago.
func (s *Snow) BurstPlan(tip image.Point, sig gesture.Signals) []Instance {
	if sig.SinceSpin < 0 || sig.SinceSpin >= s.config.WindowMs {
		return nil
	}
	r := s.rand
	plan := make([]Instance, s.config.Burst)
	for i := range plan {
		angle := r.Angle()
		dist := r.Uniform(0, s.config.Radius)
		plan[i] = Instance{
			Center: image.Point{
				X: tip.X + int(math.Cos(angle)*dist),
				Y: tip.Y + int(math.Sin(angle)*dist),
			},
			Size:     r.Intn(s.config.MinSize, s.config.MaxSize),
			Rotation: r.Uniform(0, 360),
			Opacity:  1,
		}
	}
	return plan
}

// Burst draws the spin flurry and returns the number of sprites drawn.
func (s *Snow) Burst(frame *gocv.Mat, tip image.Point, sig gesture.Signals) int {
	if s.sprite == nil {
		return 0
	}
	drawn := 0
	for _, in := range s.BurstPlan(tip, sig) {
		if drawInstance(frame, *s.sprite, in) {
			drawn++
		}
	}
	return drawn
}

func (s *Snow) drawFlake(frame *gocv.Mat, p *particle.Particle, _ int64) {
	drawInstance(frame, *s.sprite, Instance{
		Center:   p.Position(),
		Size:     int(p.Size * 3),
		Rotation: p.Rotation,
		Opacity:  1,
	})
}
