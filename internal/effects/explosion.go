package effects

import (
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"github.com/ayusman/handmagic/internal/compose"
	"github.com/ayusman/handmagic/internal/gesture"
	"github.com/ayusman/handmagic/internal/particle"
)

// Explosion emits sparks from an open hand. Opening a closed hand fires a
// large burst and widens the palette for a while.
type Explosion struct {
	config  ExplosionConfig
	sprite  *gocv.Mat
	manager *particle.Manager
}

// NewExplosion creates an explosion renderer drawing each spark with sprite,
// a white BGRA image tinted per particle. With a nil sprite sparks are drawn
// as filled circles.
func NewExplosion(sprite *gocv.Mat, cfg ExplosionConfig, r *particle.Rand) *Explosion {
	e := &Explosion{config: cfg, sprite: sprite}
	e.manager = particle.NewManager(particle.Config{
		MaxParticles: cfg.MaxParticles,
		Gravity:      cfg.Gravity,
		Rand:         r,
		Spawn:        e.spawner(warmPalette, cfg.Speed),
		Draw:         e.draw,
	})
	return e
}

// Emit spawns this frame's particles for one hand and returns how many were
// created. Nothing is emitted unless the hand is open.
func (e *Explosion) Emit(center image.Point, sig gesture.Signals, now int64) int {
	if !sig.HandOpen {
		return 0
	}

	if sig.SinceOpen < 0 || sig.SinceOpen >= e.config.WindowMs {
		return e.manager.Spawn(e.config.Steady, center, now, nil)
	}

	wide := e.spawner(widePalette, e.config.BurstSpeed)
	n := e.config.Wide
	if sig.OpenedAfterClosed {
		n += e.config.Burst
	}
	return e.manager.Spawn(n, center, now, wide)
}

// Tick advances, draws and expires every live particle. It runs every frame
// the effect is active, with or without a tracked hand.
func (e *Explosion) Tick(frame *gocv.Mat, now int64) {
	e.manager.Tick(frame, now)
}

// Len returns the number of live particles.
func (e *Explosion) Len() int { return e.manager.Len() }

// Particles exposes the live particles.
func (e *Explosion) Particles() []particle.Particle { return e.manager.Particles() }

// Reset discards every particle.
func (e *Explosion) Reset() { e.manager.Reset() }

func (e *Explosion) spawner(palette []color.RGBA, speed [2]float64) particle.SpawnFunc {
	cfg := e.config
	return func(p *particle.Particle, _ image.Point, r *particle.Rand) {
		angle := r.Angle()
		v := r.Uniform(speed[0], speed[1])
		p.VX = math.Cos(angle) * v
		p.VY = math.Sin(angle) * v
		p.Size = r.Uniform(cfg.MinSize, cfg.MaxSize)
		p.Spin = r.Uniform(-10, 10)
		p.Lifetime = int64(r.Intn(cfg.MinLifetime, cfg.MaxLifetime))
		p.Color = palette[r.Pick(len(palette))]
	}
}

func (e *Explosion) draw(frame *gocv.Mat, p *particle.Particle, now int64) {
	if frame == nil || frame.Empty() {
		return
	}
	ratio := p.AgeRatio(now)
	size := int(p.Size * particle.ExplosionScale(ratio))
	opacity := particle.ExplosionOpacity(ratio)
	if size < 1 || opacity <= 0 {
		return
	}

	if e.sprite == nil || e.sprite.Empty() {
		gocv.Circle(frame, p.Position(), max(1, size/2), p.Color, -1)
		return
	}

	topLeft := image.Point{X: int(p.X) - size/2, Y: int(p.Y) - size/2}
	if topLeft.X < 0 || topLeft.Y < 0 || topLeft.X+size > frame.Cols() || topLeft.Y+size > frame.Rows() {
		return
	}
	scaled := compose.ScaleSprite(*e.sprite, image.Point{X: size, Y: size})
	defer scaled.Close()
	tinted := compose.TintSprite(scaled, p.Color)
	defer tinted.Close()
	compose.AlphaBlendOpacity(frame, tinted, topLeft, opacity)
}
