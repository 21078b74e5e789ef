package assets

import (
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"
)

// DefaultSpriteSize is the side of the built-in sprites.
const DefaultSpriteSize = 32

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func blankSprite(size int) gocv.Mat {
	m := gocv.NewMatWithSize(size, size, gocv.MatTypeCV8UC4)
	m.SetTo(gocv.NewScalar(0, 0, 0, 0))
	return m
}

// SparkSprite draws a white four-pointed star on a transparent square.
func SparkSprite(size int) gocv.Mat {
	size = max(4, size)
	m := blankSprite(size)
	c := image.Point{X: size / 2, Y: size / 2}
	r := size/2 - 1

	gocv.Circle(&m, c, max(1, size/6), white, -1)
	gocv.LineWithParams(&m, image.Point{X: c.X - r, Y: c.Y}, image.Point{X: c.X + r, Y: c.Y}, white, max(1, size/16), gocv.LineAA, 0)
	gocv.LineWithParams(&m, image.Point{X: c.X, Y: c.Y - r}, image.Point{X: c.X, Y: c.Y + r}, white, max(1, size/16), gocv.LineAA, 0)
	d := r * 2 / 3
	gocv.LineWithParams(&m, image.Point{X: c.X - d, Y: c.Y - d}, image.Point{X: c.X + d, Y: c.Y + d}, white, 1, gocv.LineAA, 0)
	gocv.LineWithParams(&m, image.Point{X: c.X - d, Y: c.Y + d}, image.Point{X: c.X + d, Y: c.Y - d}, white, 1, gocv.LineAA, 0)
	return m
}

// SnowflakeSprite draws a white six-armed snowflake on a transparent square.
func SnowflakeSprite(size int) gocv.Mat {
	size = max(4, size)
	m := blankSprite(size)
	c := image.Point{X: size / 2, Y: size / 2}
	r := float64(size/2 - 1)
	thickness := max(1, size/16)

	for arm := 0; arm < 6; arm++ {
		a := float64(arm) * math.Pi / 3
		tip := polar(c, r, a)
		gocv.LineWithParams(&m, c, tip, white, thickness, gocv.LineAA, 0)

		// two short branches two thirds out
		mid := polar(c, r*2/3, a)
		for _, side := range []float64{-1, 1} {
			gocv.LineWithParams(&m, mid, polar(mid, r/3, a+side*math.Pi/4), white, thickness, gocv.LineAA, 0)
		}
	}
	return m
}

func polar(c image.Point, r, a float64) image.Point {
	return image.Point{
		X: c.X + int(math.Round(r*math.Cos(a))),
		Y: c.Y + int(math.Round(r*math.Sin(a))),
	}
}
