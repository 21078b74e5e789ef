// Package compose provides the pixel-level compositing used by the effect
// renderers: alpha blending of BGRA overlays, chroma keying and weighted
// layer overlays on 8-bit frames.
package compose

import (
	"image"

	"gocv.io/x/gocv"
)

// AlphaBlend composites a BGRA overlay onto dst with its top-left corner at
// topLeft. It is AlphaBlendOpacity with full opacity.
func AlphaBlend(dst *gocv.Mat, overlay gocv.Mat, topLeft image.Point) bool {
	return AlphaBlendOpacity(dst, overlay, topLeft, 1)
}

// AlphaBlendOpacity composites a BGRA overlay onto a BGR or BGRA frame:
//
//	dst = a*overlay + (1-a)*dst,  a = alpha/255 * opacity
//
// for the B, G and R channels. The destination alpha channel, if any, is left
// untouched. Nothing is drawn and false is returned unless the overlay fits
// entirely inside dst and both Mats are continuous 8-bit images.
func AlphaBlendOpacity(dst *gocv.Mat, overlay gocv.Mat, topLeft image.Point, opacity float64) bool {
	if !isFrame(dst) || overlay.Empty() || overlay.Type() != gocv.MatTypeCV8UC4 {
		return false
	}

	ow, oh := overlay.Cols(), overlay.Rows()
	if topLeft.X < 0 || topLeft.Y < 0 || topLeft.X+ow > dst.Cols() || topLeft.Y+oh > dst.Rows() {
		return false
	}

	dstData, err := dst.DataPtrUint8()
	if err != nil {
		return false
	}
	ovData, err := overlay.DataPtrUint8()
	if err != nil {
		return false
	}

	opacity = clamp01(opacity)
	if opacity == 0 {
		return true
	}

	dch := dst.Channels()
	dstep, ostep := dst.Step(), overlay.Step()
	for y := 0; y < oh; y++ {
		drow := (topLeft.Y+y)*dstep + topLeft.X*dch
		orow := y * ostep
		for x := 0; x < ow; x++ {
			o := orow + x*4
			alpha := ovData[o+3]
			if alpha == 0 {
				continue
			}
			d := drow + x*dch
			if alpha == 255 && opacity == 1 {
				dstData[d] = ovData[o]
				dstData[d+1] = ovData[o+1]
				dstData[d+2] = ovData[o+2]
				continue
			}
			a := float64(alpha) / 255 * opacity
			for c := 0; c < 3; c++ {
				dstData[d+c] = mix(ovData[o+c], dstData[d+c], a)
			}
		}
	}
	return true
}

// WeightedOverlay blends a whole layer onto dst:
//
//	dst = alpha*layer + (1-alpha)*dst
//
// The layer must match dst in size and type.
func WeightedOverlay(dst *gocv.Mat, layer gocv.Mat, alpha float64) bool {
	if !isFrame(dst) || layer.Empty() {
		return false
	}
	if layer.Rows() != dst.Rows() || layer.Cols() != dst.Cols() || layer.Type() != dst.Type() {
		return false
	}
	alpha = clamp01(alpha)
	gocv.AddWeighted(layer, alpha, *dst, 1-alpha, 0, dst)
	return true
}

// isFrame reports whether m is a usable 8-bit BGR or BGRA frame.
func isFrame(m *gocv.Mat) bool {
	if m == nil || m.Empty() {
		return false
	}
	t := m.Type()
	return t == gocv.MatTypeCV8UC3 || t == gocv.MatTypeCV8UC4
}

func mix(src, dst uint8, a float64) uint8 {
	v := a*float64(src) + (1-a)*float64(dst)
	return uint8(min(255, v+0.5))
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
