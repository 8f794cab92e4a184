package icon

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/bnema/geobadge/assets"
	"github.com/bnema/geobadge/internal/application/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testFS(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"icon.png":     {Data: solidPNG(t, 64, 64, color.RGBA{B: 0xff, A: 0xff})},
		"flags/fr.png": {Data: solidPNG(t, 48, 32, color.RGBA{R: 0xff, A: 0xff})},
		"flags/zz.png": {Data: []byte("not a png")},
	}
}

func TestFlagPath(t *testing.T) {
	assert.Equal(t, "/assets/flags/fr.png", FlagPath("FR"))
	assert.Equal(t, "/assets/flags/de.png", FlagPath("de"))
}

func TestAssetLoader_Load(t *testing.T) {
	l := NewAssetLoader(testFS(t))

	img, err := l.Load("/assets/icon.png")
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())

	_, err = l.Load("/assets/icon.png")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), l.Stats().Hits)
}

func TestAssetLoader_Errors(t *testing.T) {
	l := NewAssetLoader(testFS(t))

	_, err := l.Load("/assets/flags/xx.png")
	assert.ErrorIs(t, err, port.ErrAssetNotFound)

	_, err = l.Load("/assets/../secret.png")
	assert.ErrorIs(t, err, port.ErrAssetNotFound)

	_, err = l.Load("icon.png")
	assert.ErrorIs(t, err, port.ErrAssetNotFound)

	_, err = l.Load("/assets/flags/zz.png")
	require.Error(t, err)
	assert.NotErrorIs(t, err, port.ErrAssetNotFound)

	_, err = l.ReadFile("/assets/missing.png")
	assert.ErrorIs(t, err, port.ErrAssetNotFound)
}

func TestComposer_ComposeFlag(t *testing.T) {
	c := NewComposer(NewAssetLoader(testFS(t)))

	img, err := c.ComposeFlag(context.Background(), "FR")
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, CanvasSize, CanvasSize), img.Bounds())

	// top half keeps the base icon
	r, _, b, _ := img.At(16, 4).RGBA()
	assert.Less(t, r, uint32(0x1000))
	assert.Greater(t, b, uint32(0xf000))

	// inside the overlay is the flag
	r, _, b, _ = img.At(16, 24).RGBA()
	assert.Greater(t, r, uint32(0xf000))
	assert.Less(t, b, uint32(0x1000))

	// overlay border is stroked
	top := CanvasSize - FlagHeight
	for _, p := range []image.Point{{0, top}, {CanvasSize - 1, top}, {10, CanvasSize - 1}, {0, 28}} {
		r, g, b, a := img.At(p.X, p.Y).RGBA()
		assert.Equal(t, []uint32{0, 0, 0, 0xffff}, []uint32{r, g, b, a}, "pixel %v", p)
	}
}

func TestComposer_MissingFlag(t *testing.T) {
	c := NewComposer(NewAssetLoader(testFS(t)))

	for _, code := range []string{"QQ", "", "F", "../"} {
		_, err := c.ComposeFlag(context.Background(), code)
		assert.ErrorIs(t, err, port.ErrAssetNotFound, "code %q", code)
	}
}

func TestComposer_Cancelled(t *testing.T) {
	c := NewComposer(NewAssetLoader(testFS(t)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ComposeFlag(ctx, "FR")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmbeddedAssets(t *testing.T) {
	l := NewAssetLoader(assets.Files)

	for _, path := range []string{port.DefaultIconPath, port.ErrorIconPath, FlagPath("IT"), FlagPath("gb")} {
		_, err := l.Load(path)
		assert.NoError(t, err, path)
	}

	_, err := NewComposer(l).ComposeFlag(context.Background(), "DE")
	assert.NoError(t, err)
}
