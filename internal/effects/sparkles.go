package effects

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/ayusman/handmagic/internal/detector"
	"github.com/ayusman/handmagic/internal/particle"
)

// Sparkles draws bursts of blinking sprites at the hand and along its recent
// trail.
type Sparkles struct {
	config  SparklesConfig
	sprites []gocv.Mat
	rand    *particle.Rand
}

// NewSparkles creates a sparkle renderer. With no sprites it draws nothing.
func NewSparkles(sprites []gocv.Mat, cfg SparklesConfig, r *particle.Rand) *Sparkles {
	if r == nil {
		r = particle.NewRand(1)
	}
	return &Sparkles{config: cfg, sprites: sprites, rand: r}
}

// Plan lays out one frame of sparkles: int(Count*intensity) instances around
// center, then a third as many (at least one) at half size around each trail
// point, most recent first. trail is ordered oldest first.
func (s *Sparkles) Plan(center image.Point, trail []detector.Point2D, intensity float64) []Instance {
	if len(s.sprites) == 0 {
		return nil
	}
	count := int(s.config.Count * intensity)
	if count <= 0 {
		return nil
	}
	maxSize := max(s.config.MinSize+1, int(s.config.MaxSize*intensity))

	plan := make([]Instance, 0, count+len(trail)*max(1, count/3))
	plan = s.burst(plan, center, count, s.config.MinSize, maxSize)

	trailCount := max(1, count/3)
	small := max(1, s.config.MinSize/2)
	for i := len(trail) - 1; i >= 0; i-- {
		p := image.Point{X: int(trail[i].X), Y: int(trail[i].Y)}
		plan = s.burst(plan, p, trailCount, small, max(small+1, maxSize/2))
	}
	return plan
}

func (s *Sparkles) burst(plan []Instance, center image.Point, n, minSize, maxSize int) []Instance {
	r := s.rand
	j := s.config.Jitter
	for i := 0; i < n; i++ {
		plan = append(plan, Instance{
			Center:   image.Point{X: center.X + r.Intn(-j, j), Y: center.Y + r.Intn(-j, j)},
			Size:     r.Intn(minSize, maxSize),
			Rotation: r.Uniform(0, 360),
			Opacity:  r.Uniform(s.config.MinBlink, s.config.MaxBlink),
			Sprite:   r.Pick(len(s.sprites)),
		})
	}
	return plan
}

// Draw plans and blends one frame of sparkles. It returns the number of
// instances that fit inside the frame.
func (s *Sparkles) Draw(frame *gocv.Mat, center image.Point, trail []detector.Point2D, intensity float64) int {
	drawn := 0
	for _, in := range s.Plan(center, trail, intensity) {
		if drawInstance(frame, s.sprites[in.Sprite], in) {
			drawn++
		}
	}
	return drawn
}
