// Package icon loads badge assets and composes the flag icon.
package icon

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"strings"

	"github.com/bnema/geobadge/internal/application/port"
	"github.com/bnema/geobadge/internal/infrastructure/cache"
)

const (
	assetPrefix = "/assets/"

	// decodedCacheSize covers the base icons plus a handful of flags.
	decodedCacheSize = 16
)

// FlagPath returns the virtual asset path of a country flag.
func FlagPath(countryCode string) string {
	return assetPrefix + "flags/" + strings.ToLower(countryCode) + ".png"
}

// AssetLoader decodes PNG assets from an fs.FS addressed by virtual "/assets/..." paths.
type AssetLoader struct {
	fsys  fs.FS
	cache *cache.LRU[string, image.Image]
}

// NewAssetLoader creates a loader over fsys, whose root holds what "/assets/" points to.
func NewAssetLoader(fsys fs.FS) *AssetLoader {
	return &AssetLoader{
		fsys:  fsys,
		cache: cache.NewLRU[string, image.Image](decodedCacheSize),
	}
}

// Load returns the decoded image at a virtual asset path.
// A missing file yields port.ErrAssetNotFound.
func (l *AssetLoader) Load(path string) (image.Image, error) {
	return l.cache.Load(path, l.decode)
}

// ReadFile returns the raw bytes at a virtual asset path.
func (l *AssetLoader) ReadFile(path string) ([]byte, error) {
	name, err := assetName(path)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, wrapNotFound(path, err)
	}
	return data, nil
}

// Stats reports decoded image cache usage.
func (l *AssetLoader) Stats() cache.Stats {
	return l.cache.Stats()
}

func (l *AssetLoader) decode(path string) (image.Image, error) {
	name, err := assetName(path)
	if err != nil {
		return nil, err
	}

	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, wrapNotFound(path, err)
	}
	defer func() { _ = f.Close() }()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func assetName(path string) (string, error) {
	name, ok := strings.CutPrefix(path, assetPrefix)
	if !ok || !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: %s", port.ErrAssetNotFound, path)
	}
	return name, nil
}

func wrapNotFound(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", port.ErrAssetNotFound, path)
	}
	return fmt.Errorf("open %s: %w", path, err)
}
