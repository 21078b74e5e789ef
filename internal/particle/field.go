package particle

import (
	"image/color"

	"gocv.io/x/gocv"
)

// Flakes that leave the bottom re-enter this far above the top edge.
const (
	respawnTop    = -50
	respawnBottom = -10
)

// FieldConfig controls an ambient Field.
type FieldConfig struct {
	Count    int
	MinSize  float64
	MaxSize  float64
	MinSpeed float64 // pixels per tick, downward
	MaxSpeed float64
	MaxDrift float64 // pixels per tick, either direction
	MaxSpin  float64 // degrees per tick, either direction
	// Draw renders one flake. When nil each flake is a filled white circle.
	Draw DrawFunc
}

// DefaultFieldConfig returns the ambient snow settings.
func DefaultFieldConfig() FieldConfig {
	return FieldConfig{
		Count:    150,
		MinSize:  2,
		MaxSize:  6,
		MinSpeed: 1,
		MaxSpeed: 3,
		MaxDrift: 1,
		MaxSpin:  3,
	}
}

// Field is a fixed population of ambient particles that never expire. A
// flake leaving the bottom edge is moved back above the top with fresh
// motion parameters; lateral drift wraps around the frame width.
type Field struct {
	config FieldConfig
	rand   *Rand
	width  int
	height int
	flakes []Particle
}

// NewField fills a width x height area with cfg.Count flakes.
func NewField(width, height int, cfg FieldConfig, r *Rand) *Field {
	if r == nil {
		r = NewRand(1)
	}
	f := &Field{
		config: cfg,
		rand:   r,
		width:  width,
		height: height,
		flakes: make([]Particle, cfg.Count),
	}
	for i := range f.flakes {
		p := &f.flakes[i]
		f.randomizeMotion(p)
		p.X = r.Uniform(0, float64(width))
		p.Y = r.Uniform(0, float64(height))
	}
	return f
}

func (f *Field) randomizeMotion(p *Particle) {
	r := f.rand
	p.Size = r.Uniform(f.config.MinSize, f.config.MaxSize)
	p.VY = r.Uniform(f.config.MinSpeed, f.config.MaxSpeed)
	p.VX = r.Uniform(-f.config.MaxDrift, f.config.MaxDrift)
	p.Spin = r.Uniform(-f.config.MaxSpin, f.config.MaxSpin)
	p.Rotation = r.Uniform(0, 360)
}

// Update moves every flake one tick.
func (f *Field) Update() {
	w := float64(f.width)
	for i := range f.flakes {
		p := &f.flakes[i]
		p.X += p.VX
		p.Y += p.VY
		p.Rotation += p.Spin

		if p.Y > float64(f.height) {
			f.randomizeMotion(p)
			p.Y = f.rand.Uniform(respawnTop, respawnBottom)
			p.X = f.rand.Uniform(0, w)
			continue
		}
		if w > 0 {
			for p.X < 0 {
				p.X += w
			}
			for p.X >= w {
				p.X -= w
			}
		}
	}
}

// Draw renders every flake onto frame.
func (f *Field) Draw(frame *gocv.Mat, now int64) {
	for i := range f.flakes {
		p := &f.flakes[i]
		if f.config.Draw != nil {
			f.config.Draw(frame, p, now)
			continue
		}
		if frame == nil {
			continue
		}
		gocv.Circle(frame, p.Position(), max(1, int(p.Size)), color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)
	}
}

// Resize changes the area the flakes wrap within.
func (f *Field) Resize(width, height int) {
	f.width = width
	f.height = height
}

// Size returns the field area.
func (f *Field) Size() (width, height int) { return f.width, f.height }

// Len returns the constant flake count.
func (f *Field) Len() int { return len(f.flakes) }

// Flakes returns the flakes for inspection. The slice is shared.
func (f *Field) Flakes() []Particle { return f.flakes }
