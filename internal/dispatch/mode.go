package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned by ParseMode for an unrecognized identifier.
var ErrUnknownMode = errors.New("unknown effect mode")

// Mode identifies the active effect.
type Mode string

const (
	ModeNone         Mode = "none"
	ModeFire         Mode = "fire"
	ModeSparkles     Mode = "sparkles"
	ModeExplosion    Mode = "explosion"
	ModeSnow         Mode = "snow"
	ModeRainbowTrail Mode = "rainbow_trail"
	ModeRainbowArcs  Mode = "rainbow_arcs"
)

var modeLabels = map[Mode]string{
	ModeNone:         "No Effect",
	ModeFire:         "Fire",
	ModeSparkles:     "Sparkles",
	ModeExplosion:    "Explosion",
	ModeSnow:         "Snow",
	ModeRainbowTrail: "Rainbow Trail",
	ModeRainbowArcs:  "Rainbow Arcs",
}

// Modes returns every mode in menu order.
func Modes() []Mode {
	return []Mode{ModeNone, ModeFire, ModeSparkles, ModeExplosion, ModeSnow, ModeRainbowTrail, ModeRainbowArcs}
}

// ParseMode accepts a mode identifier or its label, case-insensitively. The
// empty string parses as ModeNone.
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ModeNone, nil
	}
	for m, label := range modeLabels {
		if strings.EqualFold(s, string(m)) || strings.EqualFold(s, label) {
			return m, nil
		}
	}
	return ModeNone, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Label returns the human-readable name.
func (m Mode) Label() string {
	if l, ok := modeLabels[m]; ok {
		return l
	}
	return string(m)
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	_, ok := modeLabels[m]
	return ok
}
