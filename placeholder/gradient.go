// Package placeholder renders the deterministic hero image used when image
// generation is unavailable.
package placeholder

import (
	"fmt"

	"colorstory/palette"
)

const (
	// Provider is the attribution tag recorded for placeholder assets.
	Provider = "fallback-gradient"

	ContentType = "image/svg+xml"

	DefaultFrom = "#D8D2C4"
	DefaultTo   = "#5B6770"

	size = 1024
)

// Asset is a rendered placeholder.
type Asset struct {
	Data        []byte
	ContentType string
}

const gradientSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%[1]d" height="%[1]d" viewBox="0 0 %[1]d %[1]d">
  <defs>
    <linearGradient id="g" x1="0" y1="0" x2="1" y2="1">
      <stop offset="0" stop-color="%[2]s"/>
      <stop offset="1" stop-color="%[3]s"/>
    </linearGradient>
  </defs>
  <rect width="%[1]d" height="%[1]d" fill="url(#g)"/>
</svg>
`

// Gradient renders a two-stop linear gradient from the first two valid
// colors of hexes. Missing or invalid colors fall back to the defaults.
func Gradient(hexes ...string) Asset {
	from, to := DefaultFrom, DefaultTo
	if len(hexes) > 0 {
		if h, ok := palette.NormalizeHex(hexes[0]); ok {
			from = h
		}
	}
	if len(hexes) > 1 {
		if h, ok := palette.NormalizeHex(hexes[1]); ok {
			to = h
		}
	}

	return Asset{
		Data:        []byte(fmt.Sprintf(gradientSVG, size, from, to)),
		ContentType: ContentType,
	}
}
