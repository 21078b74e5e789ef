// Package particle manages short-lived and ambient visual entities that the
// effect renderers spawn, advance and draw once per frame.
package particle

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Particle is one transient visual entity. Times are milliseconds.
type Particle struct {
	X, Y     float64
	VX, VY   float64
	Size     float64
	Rotation float64 // degrees
	Spin     float64 // degrees per tick
	Born     int64
	Lifetime int64
	Color    color.RGBA
	Sprite   int
}

// Age returns the milliseconds since the particle was born.
func (p *Particle) Age(now int64) int64 {
	return now - p.Born
}

// AgeRatio returns Age divided by Lifetime. It is not clamped.
func (p *Particle) AgeRatio(now int64) float64 {
	if p.Lifetime <= 0 {
		return 1
	}
	return float64(p.Age(now)) / float64(p.Lifetime)
}

// IsAlive reports whether the particle is younger than its lifetime.
func (p *Particle) IsAlive(now int64) bool {
	return p.Age(now) < p.Lifetime
}

// Position returns the particle position in integer pixels.
func (p *Particle) Position() image.Point {
	return image.Point{X: int(p.X), Y: int(p.Y)}
}

// advance integrates one tick of motion.
func (p *Particle) advance(gravity float64) {
	p.X += p.VX
	p.Y += p.VY
	p.VY += gravity
	p.Rotation += p.Spin
}

// SpawnFunc initializes a new particle born at origin. Born is already set.
type SpawnFunc func(p *Particle, origin image.Point, r *Rand)

// DrawFunc draws one particle onto the frame.
type DrawFunc func(frame *gocv.Mat, p *Particle, now int64)

// Config controls how a Manager spawns and draws particles.
type Config struct {
	// MaxParticles is the pool size. New particles are dropped when full.
	MaxParticles int
	// Gravity is added to the vertical velocity every tick.
	Gravity float64
	// Spawn is the default initializer used by Spawn.
	Spawn SpawnFunc
	// Draw renders a particle. A nil Draw disables drawing.
	Draw DrawFunc
	// Rand is the random source passed to Spawn.
	Rand *Rand
}

// Manager owns a collection of transient particles. It is not safe for
// concurrent use.
type Manager struct {
	config    Config
	particles []Particle
}

// NewManager creates a manager with a preallocated pool.
func NewManager(cfg Config) *Manager {
	if cfg.MaxParticles <= 0 {
		cfg.MaxParticles = 512
	}
	if cfg.Rand == nil {
		cfg.Rand = NewRand(1)
	}
	return &Manager{
		config:    cfg,
		particles: make([]Particle, 0, cfg.MaxParticles),
	}
}

// Spawn creates up to n particles at origin using init, or the configured
// Spawn when init is nil. It returns the number actually created.
func (m *Manager) Spawn(n int, origin image.Point, now int64, init SpawnFunc) int {
	if init == nil {
		init = m.config.Spawn
	}
	created := 0
	for ; created < n && len(m.particles) < m.config.MaxParticles; created++ {
		p := Particle{X: float64(origin.X), Y: float64(origin.Y), Born: now}
		if init != nil {
			init(&p, origin, m.config.Rand)
		}
		m.particles = append(m.particles, p)
	}
	return created
}

// Tick advances every particle, draws each one, then evicts those whose age
// has reached their lifetime. A particle is drawn on the frame it expires.
func (m *Manager) Tick(frame *gocv.Mat, now int64) {
	for i := range m.particles {
		m.particles[i].advance(m.config.Gravity)
	}

	if m.config.Draw != nil {
		for i := range m.particles {
			m.config.Draw(frame, &m.particles[i], now)
		}
	}

	alive := m.particles[:0]
	for _, p := range m.particles {
		if p.IsAlive(now) {
			alive = append(alive, p)
		}
	}
	m.particles = alive
}

// Len returns the number of live particles.
func (m *Manager) Len() int { return len(m.particles) }

// Particles returns the live particles. The slice is only valid until the
// next Spawn or Tick.
func (m *Manager) Particles() []Particle { return m.particles }

// Reset discards every particle.
func (m *Manager) Reset() {
	m.particles = m.particles[:0]
}
