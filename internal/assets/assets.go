// Package assets loads the sprites and animations the effects draw with.
package assets

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"log"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/image/draw"
	"gocv.io/x/gocv"

	"github.com/ayusman/handmagic/internal/compose"
)

// ErrNoFrames is returned when an animation decodes to zero frames.
var ErrNoFrames = errors.New("animation has no frames")

// DefaultMaxSize bounds the longest side of a loaded animation frame.
const DefaultMaxSize = 256

// File names looked up by Load inside the asset directory.
const (
	FireFile      = "fire.gif"
	SparklesDir   = "sparkles"
	SparkFile     = "spark.png"
	SnowflakeFile = "snowflake.png"
)

// Set holds every loaded asset. A nil or empty field disables the effects
// that depend on it.
type Set struct {
	Fire      []gocv.Mat
	Sparkles  []gocv.Mat
	Spark     *gocv.Mat
	Snowflake *gocv.Mat
	// Failures records why an asset could not be loaded, keyed by name.
	Failures map[string]error
}

// Load reads the assets in dir. Missing or malformed files are logged and
// recorded in Failures; spark and snowflake sprites fall back to the built-in
// drawings and sparkles fall back to the spark.
func Load(dir string) *Set {
	s := &Set{Failures: make(map[string]error)}

	frames, err := LoadAnimation(filepath.Join(dir, FireFile), DefaultMaxSize, compose.DefaultChromaThreshold)
	if err != nil {
		s.fail(FireFile, err)
	} else {
		s.Fire = frames
	}

	sprites, err := LoadSprites(filepath.Join(dir, SparklesDir))
	if err != nil {
		s.fail(SparklesDir, err)
	} else {
		s.Sparkles = sprites
	}

	s.Spark = s.loadSprite(filepath.Join(dir, SparkFile), SparkFile, SparkSprite)
	s.Snowflake = s.loadSprite(filepath.Join(dir, SnowflakeFile), SnowflakeFile, SnowflakeSprite)

	if len(s.Sparkles) == 0 {
		s.Sparkles = []gocv.Mat{s.Spark.Clone()}
	}

	log.Printf("assets loaded from %s: %d fire frames, %d sparkle sprites", dir, len(s.Fire), len(s.Sparkles))
	return s
}

// Builtin returns a set made only of the procedural sprites. It has no fire
// animation.
func Builtin() *Set {
	spark := SparkSprite(DefaultSpriteSize)
	snow := SnowflakeSprite(DefaultSpriteSize)
	return &Set{
		Sparkles:  []gocv.Mat{spark.Clone()},
		Spark:     &spark,
		Snowflake: &snow,
		Failures:  make(map[string]error),
	}
}

func (s *Set) loadSprite(path, name string, fallback func(int) gocv.Mat) *gocv.Mat {
	m, err := loadPNG(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.fail(name, err)
		}
		m = fallback(DefaultSpriteSize)
	}
	return &m
}

func (s *Set) fail(name string, err error) {
	s.Failures[name] = err
	log.Printf("asset %s unavailable: %v", name, err)
}

// Close releases every Mat in the set.
func (s *Set) Close() {
	if s == nil {
		return
	}
	for i := range s.Fire {
		s.Fire[i].Close()
	}
	for i := range s.Sparkles {
		s.Sparkles[i].Close()
	}
	if s.Spark != nil {
		s.Spark.Close()
	}
	if s.Snowflake != nil {
		s.Snowflake.Close()
	}
	s.Fire, s.Sparkles, s.Spark, s.Snowflake = nil, nil, nil, nil
}

// LoadAnimation decodes every frame of an animated GIF, composites each onto
// the full canvas, scales it so the longest side is at most maxSize and
// converts it to a chroma-keyed BGRA Mat.
func LoadAnimation(path string, maxSize int, threshold uint8) ([]gocv.Mat, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(g.Image) == 0 {
		return nil, ErrNoFrames
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewNRGBA(bounds)
	size := fitSize(bounds.Size(), maxSize)

	frames := make([]gocv.Mat, 0, len(g.Image))
	for i, frame := range g.Image {
		var previous *image.NRGBA
		if disposal(g, i) == gif.DisposalPrevious {
			previous = image.NewNRGBA(bounds)
			draw.Draw(previous, bounds, canvas, bounds.Min, draw.Src)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		scaled := image.NewNRGBA(image.Rectangle{Max: size})
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), canvas, bounds, draw.Src, nil)

		m, err := nrgbaToBGRA(scaled)
		if err != nil {
			closeAll(frames)
			return nil, fmt.Errorf("frame %d of %s: %w", i, path, err)
		}
		compose.ChromaKeyToAlpha(&m, threshold)
		frames = append(frames, m)

		switch disposal(g, i) {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			draw.Draw(canvas, bounds, previous, bounds.Min, draw.Src)
		}
	}
	return frames, nil
}

func disposal(g *gif.GIF, i int) byte {
	if i < len(g.Disposal) {
		return g.Disposal[i]
	}
	return gif.DisposalNone
}

// fitSize scales size down so its longest side is at most maxSize.
func fitSize(size image.Point, maxSize int) image.Point {
	longest := max(size.X, size.Y)
	if maxSize <= 0 || longest <= maxSize {
		return size
	}
	return image.Point{
		X: max(1, size.X*maxSize/longest),
		Y: max(1, size.Y*maxSize/longest),
	}
}

// nrgbaToBGRA copies a non-premultiplied RGBA image into a new BGRA Mat.
func nrgbaToBGRA(img *image.NRGBA) (gocv.Mat, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	data := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		dst := data[y*w*4 : (y+1)*w*4]
		for x := 0; x < w*4; x += 4 {
			dst[x], dst[x+1], dst[x+2], dst[x+3] = src[x+2], src[x+1], src[x], src[x+3]
		}
	}
	m, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC4, data)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer m.Close()
	return m.Clone(), nil
}

// LoadSprites reads every PNG in dir, sorted by name, as BGRA Mats.
func LoadSprites(dir string) ([]gocv.Mat, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no sprites in %s: %w", dir, os.ErrNotExist)
	}
	sort.Strings(paths)

	sprites := make([]gocv.Mat, 0, len(paths))
	for _, p := range paths {
		m, err := loadPNG(p)
		if err != nil {
			closeAll(sprites)
			return nil, err
		}
		sprites = append(sprites, m)
	}
	return sprites, nil
}

// loadPNG reads an image keeping its alpha channel. Images without alpha are
// made fully opaque.
func loadPNG(path string) (gocv.Mat, error) {
	if _, err := os.Stat(path); err != nil {
		return gocv.NewMat(), err
	}
	m := gocv.IMRead(path, gocv.IMReadUnchanged)
	if m.Empty() {
		m.Close()
		return gocv.NewMat(), fmt.Errorf("read %s: not a readable image", path)
	}

	switch m.Channels() {
	case 4:
		return m, nil
	case 3:
		out := gocv.NewMat()
		gocv.CvtColor(m, &out, gocv.ColorBGRToBGRA)
		m.Close()
		return out, nil
	case 1:
		out := gocv.NewMat()
		gocv.CvtColor(m, &out, gocv.ColorGrayToBGRA)
		m.Close()
		return out, nil
	default:
		m.Close()
		return gocv.NewMat(), fmt.Errorf("read %s: unsupported channel count", path)
	}
}

func closeAll(mats []gocv.Mat) {
	for i := range mats {
		mats[i].Close()
	}
}
