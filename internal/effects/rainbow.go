package effects

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gocv.io/x/gocv"

	"github.com/ayusman/handmagic/internal/compose"
	"github.com/ayusman/handmagic/internal/detector"
	"github.com/ayusman/handmagic/internal/gesture"
)

// rainbowHues is the hue sequence the trail gradient interpolates through.
var rainbowHues = []colorful.Color{
	hex("#ff0000"), // red
	hex("#ff5f00"), // orange-red
	hex("#ff7f00"), // orange
	hex("#ffbf00"), // gold
	hex("#ffff00"), // yellow
	hex("#bfff00"), // chartreuse
	hex("#00ff00"), // green
	hex("#00ff7f"), // spring green
	hex("#00ffff"), // cyan
	hex("#007fff"), // azure
	hex("#0000ff"), // blue
	hex("#4b0082"), // indigo
	hex("#800080"), // purple
	hex("#9400d3"), // violet
	hex("#ff00ff"), // magenta
}

func hex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// RainbowGradient interpolates steps colors between each pair of consecutive
// hues, wrapping from the last hue back to the first.
func RainbowGradient(steps int) []color.RGBA {
	steps = max(1, steps)
	out := make([]color.RGBA, 0, len(rainbowHues)*steps)
	for i, c1 := range rainbowHues {
		c2 := rainbowHues[(i+1)%len(rainbowHues)]
		for s := 0; s < steps; s++ {
			r, g, b := c1.BlendRgb(c2, float64(s)/float64(steps)).Clamped().RGB255()
			out = append(out, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return out
}

// Segment is one stroke of the rainbow trail.
type Segment struct {
	From, To   image.Point
	Thickness  int
	ColorIndex int
	Color      color.RGBA
	Glow       bool
}

// RainbowTrail draws a tapering, color-cycling stroke behind the finger. It
// keeps its own point history, separate from the gesture trail.
type RainbowTrail struct {
	config   TrailConfig
	points   *gesture.Ring
	offset   float64
	gradient []color.RGBA
}

// NewRainbowTrail creates an empty trail.
func NewRainbowTrail(cfg TrailConfig) *RainbowTrail {
	return &RainbowTrail{
		config:   cfg,
		points:   gesture.NewRing(cfg.MaxLength),
		gradient: RainbowGradient(cfg.Steps),
	}
}

// Add appends a point and advances the color offset by CycleSpeed.
func (t *RainbowTrail) Add(p image.Point) {
	t.points.Push(detector.Point2D{X: float64(p.X), Y: float64(p.Y)})
	t.offset = math.Mod(t.offset+t.config.CycleSpeed, float64(len(t.gradient)))
}

// Segments plans the strokes between consecutive points, oldest first.
// Segment i of n points has thickness max(1, int(Width*i/n + 1)), so the
// stroke is thickest at the newest point.
func (t *RainbowTrail) Segments() []Segment {
	n := t.points.Len()
	if n < 2 {
		return nil
	}
	total := len(t.gradient)
	segs := make([]Segment, 0, n-1)
	for i := 1; i < n; i++ {
		a, b := t.points.At(i-1), t.points.At(i)
		thickness := max(1, int(float64(t.config.Width)*float64(i)/float64(n)+1))
		idx := int(float64(i)*float64(total)/float64(n)+t.offset) % total
		segs = append(segs, Segment{
			From:       image.Point{X: int(a.X), Y: int(a.Y)},
			To:         image.Point{X: int(b.X), Y: int(b.Y)},
			Thickness:  thickness,
			ColorIndex: idx,
			Color:      t.gradient[idx],
			Glow:       thickness > t.config.GlowCutoff,
		})
	}
	return segs
}

// Draw strokes the trail onto frame with anti-aliased lines, then blends a
// wider copy of the thick segments on top as a glow.
func (t *RainbowTrail) Draw(frame *gocv.Mat) int {
	segs := t.Segments()
	if len(segs) == 0 || frame == nil || frame.Empty() {
		return 0
	}

	glow := false
	for _, s := range segs {
		gocv.LineWithParams(frame, s.From, s.To, s.Color, s.Thickness, gocv.LineAA, 0)
		glow = glow || s.Glow
	}

	if glow {
		layer := frame.Clone()
		defer layer.Close()
		for _, s := range segs {
			if s.Glow {
				gocv.LineWithParams(&layer, s.From, s.To, s.Color, s.Thickness+2, gocv.LineAA, 0)
			}
		}
		compose.WeightedOverlay(frame, layer, t.config.GlowAlpha)
	}
	return len(segs)
}

// Len returns the number of stored points.
func (t *RainbowTrail) Len() int { return t.points.Len() }

// ColorOffset returns the current gradient offset.
func (t *RainbowTrail) ColorOffset() float64 { return t.offset }

// Gradient returns the color table.
func (t *RainbowTrail) Gradient() []color.RGBA { return t.gradient }

// Clear drops every point and rewinds the color offset.
func (t *RainbowTrail) Clear() {
	t.points.Clear()
	t.offset = 0
}
