package port

import (
	"context"
	"image"
)

//go:generate mockgen -source=badge_surface.go -destination=mocks/mock_badge_surface.go -package=mocks

// BadgeSurface is where the icon and badge are displayed.
type BadgeSurface interface {
	// SetIconPath shows an asset addressed by its virtual path, e.g. /assets/icon.png.
	SetIconPath(ctx context.Context, path string) error
	SetIconImage(ctx context.Context, img image.Image) error
	SetBadgeText(ctx context.Context, text string) error
	// SetBadgeTextColor with an empty color restores the surface default.
	SetBadgeTextColor(ctx context.Context, color string) error
}
