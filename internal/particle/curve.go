package particle

import "github.com/tanema/gween/ease"

// ExplosionScale grows linearly from 1 at birth to 2.5 at death.
func ExplosionScale(ratio float64) float64 {
	if ratio < 0 {
		ratio = 0
	}
	return float64(ease.Linear(float32(ratio), 1, 1.5, 1))
}

// ExplosionOpacity fades linearly from 1 at birth to 0 at death and stays at 0
// afterwards.
func ExplosionOpacity(ratio float64) float64 {
	if ratio < 0 {
		ratio = 0
	}
	return max(0, float64(ease.Linear(float32(ratio), 1, -1, 1)))
}
