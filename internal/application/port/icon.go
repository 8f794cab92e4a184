package port

import (
	"context"
	"errors"
	"image"
)

// Virtual asset paths.
const (
	DefaultIconPath = "/assets/icon.png"
	ErrorIconPath   = "/assets/icon-small.png"
)

// ErrAssetNotFound is returned when an icon or flag asset does not exist.
var ErrAssetNotFound = errors.New("asset not found")

//go:generate mockgen -source=icon.go -destination=mocks/mock_icon.go -package=mocks

// IconComposer builds the flag icon shown in country-flag mode.
type IconComposer interface {
	// ComposeFlag draws the base icon with the flag for countryCode in the
	// bottom-right corner. Returns ErrAssetNotFound when no flag exists.
	ComposeFlag(ctx context.Context, countryCode string) (image.Image, error)
}
