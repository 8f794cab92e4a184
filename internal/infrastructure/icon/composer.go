package icon

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/bnema/geobadge/internal/application/port"
	"github.com/bnema/geobadge/internal/logging"
	"golang.org/x/image/draw"
)

const (
	CanvasSize = 32
	FlagWidth  = 32
	FlagHeight = 18
)

var strokeColor = color.RGBA{A: 0xff}

// Composer draws a country flag over the bottom-right corner of the default icon.
type Composer struct {
	loader *AssetLoader
}

var _ port.IconComposer = (*Composer)(nil)

func NewComposer(loader *AssetLoader) *Composer {
	return &Composer{loader: loader}
}

// ComposeFlag returns a CanvasSize square icon with the flag of countryCode overlaid.
func (c *Composer) ComposeFlag(ctx context.Context, countryCode string) (image.Image, error) {
	log := logging.FromContext(ctx)

	if !validCountryCode(countryCode) {
		return nil, fmt.Errorf("%w: country code %q", port.ErrAssetNotFound, countryCode)
	}

	base, err := c.loader.Load(port.DefaultIconPath)
	if err != nil {
		return nil, fmt.Errorf("load base icon: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	flag, err := c.loader.Load(FlagPath(countryCode))
	if err != nil {
		return nil, fmt.Errorf("load flag: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	canvas := image.NewRGBA(image.Rect(0, 0, CanvasSize, CanvasSize))
	draw.CatmullRom.Scale(canvas, canvas.Bounds(), base, base.Bounds(), draw.Over, nil)

	overlay := image.Rect(CanvasSize-FlagWidth, CanvasSize-FlagHeight, CanvasSize, CanvasSize)
	draw.CatmullRom.Scale(canvas, overlay, flag, flag.Bounds(), draw.Over, nil)
	strokeRect(canvas, overlay, strokeColor)

	log.Debug().Str("country_code", countryCode).Msg("flag icon composed")
	return canvas, nil
}

// strokeRect draws a 1px border just inside r.
func strokeRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

func validCountryCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	for _, r := range code {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
