// Package assets holds the icons and flag images rendered on the badge.
package assets

import (
	"embed"
)

// Files contains icon.png, icon-small.png and flags/<cc>.png.
// Paths inside the FS match the virtual asset paths without the leading "/assets/".
//
//go:embed icon.png icon-small.png flags/*.png
var Files embed.FS
