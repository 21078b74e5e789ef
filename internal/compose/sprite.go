package compose

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// ScaleSprite resizes src to size. The caller closes the result.
func ScaleSprite(src gocv.Mat, size image.Point) gocv.Mat {
	dst := gocv.NewMat()
	if src.Empty() {
		return dst
	}
	size.X = max(1, size.X)
	size.Y = max(1, size.Y)
	gocv.Resize(src, &dst, size, 0, 0, gocv.InterpolationArea)
	return dst
}

// RotateSprite rotates src by degrees around its center, keeping its size.
// Corners uncovered by the rotation are fully transparent. The caller closes
// the result.
func RotateSprite(src gocv.Mat, degrees float64) gocv.Mat {
	dst := gocv.NewMat()
	if src.Empty() {
		return dst
	}
	size := image.Point{X: src.Cols(), Y: src.Rows()}
	m := gocv.GetRotationMatrix2D(image.Point{X: size.X / 2, Y: size.Y / 2}, degrees, 1)
	defer m.Close()

	gocv.WarpAffineWithParams(src, &dst, m, size, gocv.InterpolationLinear, gocv.BorderConstant, color.RGBA{})
	return dst
}

// TintSprite multiplies the color channels of a BGRA sprite by c, leaving
// alpha unchanged. A white sprite becomes c. The caller closes the result.
func TintSprite(src gocv.Mat, c color.RGBA) gocv.Mat {
	dst := src.Clone()
	if dst.Empty() || dst.Type() != gocv.MatTypeCV8UC4 {
		return dst
	}
	data, err := dst.DataPtrUint8()
	if err != nil {
		return dst
	}

	scale := [3]float64{float64(c.B) / 255, float64(c.G) / 255, float64(c.R) / 255}
	for i := 0; i+3 < len(data); i += 4 {
		for ch := 0; ch < 3; ch++ {
			data[i+ch] = uint8(float64(data[i+ch])*scale[ch] + 0.5)
		}
	}
	return dst
}

// SolidSprite returns a size x size BGRA Mat filled with c.
func SolidSprite(size int, c color.RGBA) gocv.Mat {
	m := gocv.NewMatWithSize(size, size, gocv.MatTypeCV8UC4)
	m.SetTo(gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), float64(c.A)))
	return m
}
