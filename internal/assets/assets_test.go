package assets

import (
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/handmagic/testdata"
)

func TestFitSize(t *testing.T) {
	tests := []struct {
		name string
		in   image.Point
		max  int
		want image.Point
	}{
		{name: "already small", in: image.Pt(100, 50), max: 256, want: image.Pt(100, 50)},
		{name: "wide", in: image.Pt(512, 256), max: 256, want: image.Pt(256, 128)},
		{name: "tall", in: image.Pt(300, 600), max: 256, want: image.Pt(128, 256)},
		{name: "no limit", in: image.Pt(1000, 1000), max: 0, want: image.Pt(1000, 1000)},
		{name: "thin stays visible", in: image.Pt(1000, 1), max: 100, want: image.Pt(100, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fitSize(tt.in, tt.max))
		})
	}
}

func TestLoadAnimation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, FireFile)
	require.NoError(t, testdata.WriteFireGIF(path, 4, 512, 512))

	frames, err := LoadAnimation(path, DefaultMaxSize, 80)
	require.NoError(t, err)
	defer closeAll(frames)

	require.Len(t, frames, 4)
	for _, f := range frames {
		assert.Equal(t, 256, f.Cols())
		assert.Equal(t, 256, f.Rows())
		assert.Equal(t, 4, f.Channels())

		data, err := f.DataPtrUint8()
		require.NoError(t, err)
		assert.Equal(t, uint8(0), data[3], "black corner is keyed out")
		center := (128*f.Cols() + 128) * 4
		assert.GreaterOrEqual(t, data[center+2], uint8(250), "flame red channel")
		assert.GreaterOrEqual(t, data[center+3], uint8(250), "flame stays opaque")
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadAnimation(filepath.Join(dir, "nope.gif"), DefaultMaxSize, 80)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed file", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.gif")
		require.NoError(t, os.WriteFile(bad, []byte("not a gif"), 0o644))
		_, err := LoadAnimation(bad, DefaultMaxSize, 80)
		assert.Error(t, err)
	})
}

func TestLoadAnimationEdgeColor(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	flame := color.RGBA{R: 255, G: 120, A: 255}
	frame := image.NewPaletted(image.Rect(0, 0, 64, 64), color.Palette{color.Transparent, flame})
	for y := 16; y < 48; y++ {
		for x := 16; x < 48; x++ {
			frame.SetColorIndex(x, y, 1)
		}
	}

	path := filepath.Join(t.TempDir(), FireFile)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, gif.EncodeAll(f, &gif.GIF{Image: []*image.Paletted{frame}, Delay: []int{5}}))
	require.NoError(t, f.Close())

	frames, err := LoadAnimation(path, 24, 80)
	require.NoError(t, err)
	defer closeAll(frames)
	require.Len(t, frames, 1)

	data, err := frames[0].DataPtrUint8()
	require.NoError(t, err)
	partial := 0
	for i := 0; i < len(data); i += 4 {
		if a := data[i+3]; a == 0 {
			continue
		} else if a < 255 {
			partial++
		}
		assert.GreaterOrEqual(t, data[i+2], uint8(250), "red at pixel %d with alpha %d", i/4, data[i+3])
	}
	assert.Positive(t, partial, "scaling produces soft edges")
}

func TestNRGBAToBGRA(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	img.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	m, err := nrgbaToBGRA(img)
	require.NoError(t, err)
	defer m.Close()

	data, err := m.DataPtrUint8()
	require.NoError(t, err)
	assert.Equal(t, []uint8{50, 100, 200, 128, 30, 20, 10, 255}, data)
}

func TestLoadSprites(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	dir := t.TempDir()
	require.NoError(t, testdata.WriteSpritePNG(filepath.Join(dir, "b.png"), 16, color.NRGBA{R: 255, A: 255}))
	require.NoError(t, testdata.WriteSpritePNG(filepath.Join(dir, "a.png"), 8, color.NRGBA{B: 255, A: 255}))

	sprites, err := LoadSprites(dir)
	require.NoError(t, err)
	defer closeAll(sprites)

	require.Len(t, sprites, 2)
	assert.Equal(t, 8, sprites[0].Cols(), "sorted by name")
	assert.Equal(t, 16, sprites[1].Cols())
	assert.Equal(t, 4, sprites[1].Channels())

	_, err = LoadSprites(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	t.Run("empty directory falls back to built-in sprites", func(t *testing.T) {
		set := Load(t.TempDir())
		defer set.Close()

		assert.Empty(t, set.Fire)
		assert.Contains(t, set.Failures, FireFile)
		assert.Contains(t, set.Failures, SparklesDir)
		assert.NotContains(t, set.Failures, SparkFile, "missing optional sprites are not failures")
		require.NotNil(t, set.Spark)
		require.NotNil(t, set.Snowflake)
		assert.Equal(t, DefaultSpriteSize, set.Spark.Cols())
		assert.Len(t, set.Sparkles, 1)
	})

	t.Run("full directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, testdata.WriteFireGIF(filepath.Join(dir, FireFile), 3, 64, 64))
		require.NoError(t, os.Mkdir(filepath.Join(dir, SparklesDir), 0o755))
		require.NoError(t, testdata.WriteSpritePNG(filepath.Join(dir, SparklesDir, "star.png"), 24, color.NRGBA{G: 255, A: 255}))

		set := Load(dir)
		defer set.Close()

		assert.Empty(t, set.Failures)
		assert.Len(t, set.Fire, 3)
		assert.Len(t, set.Sparkles, 1)
		assert.Equal(t, 24, set.Sparkles[0].Cols())
	})
}

func TestBuiltinSprites(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	spark := SparkSprite(32)
	defer spark.Close()
	snow := SnowflakeSprite(32)
	defer snow.Close()

	for _, m := range []struct {
		name string
		data func() ([]uint8, error)
	}{
		{name: "spark", data: spark.DataPtrUint8},
		{name: "snowflake", data: snow.DataPtrUint8},
	} {
		t.Run(m.name, func(t *testing.T) {
			data, err := m.data()
			require.NoError(t, err)
			assert.Equal(t, uint8(0), data[3], "corner is transparent")
			center := (16*32 + 16) * 4
			assert.Positive(t, data[center+3], "center is drawn")
		})
	}

	set := Builtin()
	defer set.Close()
	assert.Empty(t, set.Fire)
	assert.Len(t, set.Sparkles, 1)
}
