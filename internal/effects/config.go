// Package effects implements the gesture-driven renderers. Every renderer
// mutates the frame it is given in place and draws nothing when its assets
// are missing or its overlay would not fit inside the frame.
package effects

import (
	"image/color"

	"github.com/ayusman/handmagic/internal/particle"
)

// FireConfig controls the animated fire sprite.
type FireConfig struct {
	BaseSize float64 // square side at intensity 1
	MinSize  int
}

// SparklesConfig controls sparkle bursts.
type SparklesConfig struct {
	Count    float64 // instances at intensity 1
	Jitter   int     // max offset from the burst center in pixels
	MinSize  int
	MaxSize  float64 // max side at intensity 1
	MinBlink float64
	MaxBlink float64
}

// ExplosionConfig controls particle emission for the explosion effect.
type ExplosionConfig struct {
	Steady       int   // particles per frame while the hand is open
	Wide         int   // particles per frame inside the boost window
	Burst        int   // extra particles on the opened-after-closed frame
	WindowMs     int64 // boost window after opened-after-closed
	MinLifetime  int
	MaxLifetime  int
	MinSize      float64
	MaxSize      float64
	Speed        [2]float64
	BurstSpeed   [2]float64
	Gravity      float64
	MaxParticles int
}

// SnowConfig controls the ambient field and the spin burst.
type SnowConfig struct {
	Field    particle.FieldConfig
	WindowMs int64 // burst window after a spin
	Burst    int
	Radius   float64
	MinSize  int
	MaxSize  int
}

// TrailConfig controls the rainbow trail.
type TrailConfig struct {
	MaxLength  int
	Width      int
	CycleSpeed float64
	Steps      int     // gradient steps per hue transition
	GlowAlpha  float64 // weight of the glow layer
	GlowCutoff int     // segments thicker than this get a glow pass
}

// ArcsConfig controls the rainbow arcs.
type ArcsConfig struct {
	Count       int
	BaseRadius  float64
	RadiusStep  float64
	BaseWidth   float64
	RefHandSize float64
	MinScale    float64
	MaxScale    float64
}

// Config groups the settings of every renderer.
type Config struct {
	Fire      FireConfig
	Sparkles  SparklesConfig
	Explosion ExplosionConfig
	Snow      SnowConfig
	Trail     TrailConfig
	Arcs      ArcsConfig
}

// DefaultConfig returns the default renderer settings.
func DefaultConfig() Config {
	return Config{
		Fire: FireConfig{BaseSize: 200, MinSize: 20},
		Sparkles: SparklesConfig{
			Count:    15,
			Jitter:   30,
			MinSize:  8,
			MaxSize:  48,
			MinBlink: 0.3,
			MaxBlink: 0.8,
		},
		Explosion: ExplosionConfig{
			Steady:       4,
			Wide:         12,
			Burst:        40,
			WindowMs:     1500,
			MinLifetime:  400,
			MaxLifetime:  900,
			MinSize:      6,
			MaxSize:      16,
			Speed:        [2]float64{1, 4},
			BurstSpeed:   [2]float64{4, 10},
			Gravity:      0.15,
			MaxParticles: 600,
		},
		Snow: SnowConfig{
			Field:    particle.DefaultFieldConfig(),
			WindowMs: 3000,
			Burst:    12,
			Radius:   60,
			MinSize:  12,
			MaxSize:  28,
		},
		Trail: TrailConfig{
			MaxLength:  30,
			Width:      5,
			CycleSpeed: 0.1,
			Steps:      10,
			GlowAlpha:  0.3,
			GlowCutoff: 2,
		},
		Arcs: ArcsConfig{
			Count:       7,
			BaseRadius:  100,
			RadiusStep:  12,
			BaseWidth:   10,
			RefHandSize: 150,
			MinScale:    0.5,
			MaxScale:    2.0,
		},
	}
}

// Explosion palettes. The wide palette is used inside the boost window.
var (
	warmPalette = []color.RGBA{
		{R: 255, G: 120, B: 20, A: 255},
		{R: 255, G: 180, B: 40, A: 255},
		{R: 255, G: 230, B: 120, A: 255},
		{R: 230, G: 60, B: 20, A: 255},
	}
	widePalette = []color.RGBA{
		{R: 255, G: 0, B: 0, A: 255},
		{R: 0, G: 255, B: 0, A: 255},
		{R: 0, G: 0, B: 255, A: 255},
		{R: 255, G: 255, B: 0, A: 255},
		{R: 255, G: 0, B: 255, A: 255},
		{R: 0, G: 255, B: 255, A: 255},
		{R: 255, G: 255, B: 255, A: 255},
	}
)
