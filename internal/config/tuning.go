// Package config loads the optional JSON tuning file that overrides gesture
// thresholds and effect parameters.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ayusman/handmagic/internal/dispatch"
)

// DefaultConfigPath is the tuning file shipped with the repository. It holds
// the same values as the compiled-in defaults.
const DefaultConfigPath = "config/tuning.defaults.json"

const maxFileSize = 1 * 1024 * 1024 // 1MB

// TuningConfig is the schema of the tuning file. Every field is optional;
// nil fields keep the compiled-in default.
type TuningConfig struct {
	// Gesture thresholds
	OpenFingers      *int     `json:"open_fingers,omitempty"`
	HistorySize      *int     `json:"history_size,omitempty"`
	MinSpinSamples   *int     `json:"min_spin_samples,omitempty"`
	SpinTotalDegrees *float64 `json:"spin_total_degrees,omitempty"`
	SpinNetDegrees   *float64 `json:"spin_net_degrees,omitempty"`
	TrailSize        *int     `json:"trail_size,omitempty"`

	// Dispatcher
	MaxHands *int    `json:"max_hands,omitempty"`
	Seed     *uint64 `json:"seed,omitempty"`

	// Fire and sparkles
	FireBaseSize *float64 `json:"fire_base_size,omitempty"`
	SparkleCount *float64 `json:"sparkle_count,omitempty"`

	// Explosion
	ExplosionWindow       *string  `json:"explosion_window,omitempty"` // duration string like "1500ms"
	ExplosionBurst        *int     `json:"explosion_burst,omitempty"`
	ExplosionGravity      *float64 `json:"explosion_gravity,omitempty"`
	ExplosionMaxParticles *int     `json:"explosion_max_particles,omitempty"`

	// Snow
	SnowWindow *string `json:"snow_window,omitempty"` // duration string like "3s"
	SnowCount  *int    `json:"snow_count,omitempty"`

	// Rainbow trail and arcs
	TrailWidth      *int     `json:"trail_width,omitempty"`
	TrailGlowAlpha  *float64 `json:"trail_glow_alpha,omitempty"`
	ArcsCount       *int     `json:"arcs_count,omitempty"`
	ArcsRefHandSize *float64 `json:"arcs_ref_hand_size,omitempty"`
}

// LoadTuningConfig reads and validates a tuning file. The path must have a
// .json extension and the file must be at most 1MB.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &TuningConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that are set.
func (c *TuningConfig) Validate() error {
	if c.OpenFingers != nil && (*c.OpenFingers < 1 || *c.OpenFingers > 4) {
		return fmt.Errorf("open_fingers must be between 1 and 4, got %d", *c.OpenFingers)
	}
	for name, v := range map[string]*int{
		"history_size":            c.HistorySize,
		"min_spin_samples":        c.MinSpinSamples,
		"trail_size":              c.TrailSize,
		"max_hands":               c.MaxHands,
		"explosion_max_particles": c.ExplosionMaxParticles,
	} {
		if v != nil && *v < 1 {
			return fmt.Errorf("%s must be positive, got %d", name, *v)
		}
	}
	for name, v := range map[string]*int{
		"explosion_burst": c.ExplosionBurst,
		"snow_count":      c.SnowCount,
		"trail_width":     c.TrailWidth,
		"arcs_count":      c.ArcsCount,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", name, *v)
		}
	}
	if c.SpinTotalDegrees != nil && *c.SpinTotalDegrees <= 0 {
		return fmt.Errorf("spin_total_degrees must be positive, got %f", *c.SpinTotalDegrees)
	}
	if c.SpinNetDegrees != nil && *c.SpinNetDegrees <= 0 {
		return fmt.Errorf("spin_net_degrees must be positive, got %f", *c.SpinNetDegrees)
	}
	if c.TrailGlowAlpha != nil && (*c.TrailGlowAlpha < 0 || *c.TrailGlowAlpha > 1) {
		return fmt.Errorf("trail_glow_alpha must be between 0 and 1, got %f", *c.TrailGlowAlpha)
	}
	if c.ArcsRefHandSize != nil && *c.ArcsRefHandSize <= 0 {
		return fmt.Errorf("arcs_ref_hand_size must be positive, got %f", *c.ArcsRefHandSize)
	}

	if c.ExplosionWindow != nil && *c.ExplosionWindow != "" {
		if _, err := time.ParseDuration(*c.ExplosionWindow); err != nil {
			return fmt.Errorf("invalid explosion_window '%s': %w", *c.ExplosionWindow, err)
		}
	}
	if c.SnowWindow != nil && *c.SnowWindow != "" {
		if _, err := time.ParseDuration(*c.SnowWindow); err != nil {
			return fmt.Errorf("invalid snow_window '%s': %w", *c.SnowWindow, err)
		}
	}
	return nil
}

// GetExplosionWindow returns the explosion boost window, or def when unset.
func (c *TuningConfig) GetExplosionWindow(def time.Duration) time.Duration {
	return parseDuration(c.ExplosionWindow, def)
}

// GetSnowWindow returns the snow burst window, or def when unset.
func (c *TuningConfig) GetSnowWindow(def time.Duration) time.Duration {
	return parseDuration(c.SnowWindow, def)
}

func parseDuration(s *string, def time.Duration) time.Duration {
	if s == nil || *s == "" {
		return def
	}
	d, err := time.ParseDuration(*s)
	if err != nil {
		return def
	}
	return d
}

// Apply overwrites the fields of cfg that are set in c.
func (c *TuningConfig) Apply(cfg *dispatch.Config) {
	g := &cfg.Gesture
	setInt(&g.OpenFingers, c.OpenFingers)
	setInt(&g.HistorySize, c.HistorySize)
	setInt(&g.MinSpinSamples, c.MinSpinSamples)
	setFloat(&g.SpinTotalDegrees, c.SpinTotalDegrees)
	setFloat(&g.SpinNetDegrees, c.SpinNetDegrees)
	setInt(&g.TrailSize, c.TrailSize)

	setInt(&cfg.MaxHands, c.MaxHands)
	if c.Seed != nil {
		cfg.Seed = *c.Seed
	}

	e := &cfg.Effects
	setFloat(&e.Fire.BaseSize, c.FireBaseSize)
	setFloat(&e.Sparkles.Count, c.SparkleCount)

	window := time.Duration(e.Explosion.WindowMs) * time.Millisecond
	e.Explosion.WindowMs = c.GetExplosionWindow(window).Milliseconds()
	setInt(&e.Explosion.Burst, c.ExplosionBurst)
	setFloat(&e.Explosion.Gravity, c.ExplosionGravity)
	setInt(&e.Explosion.MaxParticles, c.ExplosionMaxParticles)

	window = time.Duration(e.Snow.WindowMs) * time.Millisecond
	e.Snow.WindowMs = c.GetSnowWindow(window).Milliseconds()
	setInt(&e.Snow.Field.Count, c.SnowCount)

	setInt(&e.Trail.Width, c.TrailWidth)
	setFloat(&e.Trail.GlowAlpha, c.TrailGlowAlpha)
	setInt(&e.Arcs.Count, c.ArcsCount)
	setFloat(&e.Arcs.RefHandSize, c.ArcsRefHandSize)
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
