// Package testdata generates the image fixtures used by the package tests.
package testdata

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"

	"gocv.io/x/gocv"
)

// WriteFireGIF writes an animated GIF of n frames to path. Each frame is a
// black background with a flame-colored block covering the center whose
// height grows with the frame index, so frames differ and the background
// keys out.
func WriteFireGIF(path string, n, width, height int) error {
	g := &gif.GIF{}
	for i := 0; i < n; i++ {
		flame := color.RGBA{R: 255, G: uint8(100 + 40*(i%4)), B: 0, A: 255}
		frame := image.NewPaletted(image.Rect(0, 0, width, height), color.Palette{color.Black, flame})
		top := height/2 - height/8 - i*height/(4*n)
		for y := top; y < height; y++ {
			for x := width / 4; x < width*3/4; x++ {
				frame.Set(x, y, flame)
			}
		}
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, 5)
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return gif.EncodeAll(f, g)
}

// WriteSpritePNG writes a size x size PNG with a transparent border and an
// opaque center square of color c.
func WriteSpritePNG(path string, size int, c color.NRGBA) error {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := size / 4; y < size*3/4; y++ {
		for x := size / 4; x < size*3/4; x++ {
			img.SetNRGBA(x, y, c)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return png.Encode(f, img)
}

// BlankFrame returns a black BGR frame. The caller closes it.
func BlankFrame(width, height int) gocv.Mat {
	m := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	m.SetTo(gocv.NewScalar(0, 0, 0, 0))
	return m
}

// FrameSum adds up every byte of a continuous Mat. A black frame sums to 0.
func FrameSum(m *gocv.Mat) (int, error) {
	data, err := m.DataPtrUint8()
	if err != nil {
		return 0, err
	}
	sum := 0
	for _, v := range data {
		sum += int(v)
	}
	return sum, nil
}
