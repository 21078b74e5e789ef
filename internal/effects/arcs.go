package effects

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

var arcColors = []color.RGBA{
	{R: 255, G: 0, B: 0, A: 255},
	{R: 255, G: 127, B: 0, A: 255},
	{R: 255, G: 255, B: 0, A: 255},
	{R: 0, G: 255, B: 0, A: 255},
	{R: 0, G: 0, B: 255, A: 255},
	{R: 75, G: 0, B: 130, A: 255},
	{R: 148, G: 0, B: 211, A: 255},
}

// Arc is one band of the rainbow arcs.
type Arc struct {
	Radius    int
	Thickness int
	Color     color.RGBA
}

// ArcScale maps a hand size to the arc scale, clamped to
// [MinScale, MaxScale].
func ArcScale(handSize float64, cfg ArcsConfig) float64 {
	if cfg.RefHandSize <= 0 {
		return 1
	}
	return max(cfg.MinScale, min(cfg.MaxScale, handSize/cfg.RefHandSize))
}

// PlanArcs lays out the concentric bands, outermost first. A closer hand
// gives larger and thicker arcs.
func PlanArcs(handSize float64, cfg ArcsConfig) []Arc {
	scale := ArcScale(handSize, cfg)
	thickness := max(1, int(cfg.BaseWidth*scale))
	arcs := make([]Arc, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		radius := int((cfg.BaseRadius - cfg.RadiusStep*float64(i)) * scale)
		if radius < 1 {
			break
		}
		arcs = append(arcs, Arc{
			Radius:    radius,
			Thickness: thickness,
			Color:     arcColors[i%len(arcColors)],
		})
	}
	return arcs
}

// DrawRainbowArcs draws upper half-ellipses centered at center.
func DrawRainbowArcs(frame *gocv.Mat, center image.Point, handSize float64, cfg ArcsConfig) int {
	if frame == nil || frame.Empty() {
		return 0
	}
	arcs := PlanArcs(handSize, cfg)
	for _, a := range arcs {
		axes := image.Point{X: a.Radius, Y: a.Radius * 4 / 5}
		gocv.Ellipse(frame, center, axes, 0, 180, 360, a.Color, a.Thickness)
	}
	return len(arcs)
}
