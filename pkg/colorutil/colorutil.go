// Package colorutil provides shared color utilities for the image viewer.
package colorutil

import (
	"fmt"
	"image/color"
	"math"
)

// Crosshair and overlay colors used by the canvas.
var (
	CrosshairHorizontal = color.RGBA{R: 255, G: 107, B: 107, A: 255}
	CrosshairVertical   = color.RGBA{R: 74, G: 144, B: 226, A: 255}
)

// HexRGB normalizes a color to an uppercase RRGGBB hex string.
// Grayscale sources replicate the single channel; alpha is dropped. The
// conversion goes through NRGBA so a translucent pixel reports its stored
// channel values, not the premultiplied ones.
func HexRGB(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02X%02X%02X", n.R, n.G, n.B)
}

// Luminance returns the Rec. 601 luma of a color in the range [0, 255].
func Luminance(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
}

// RGBToHSV converts RGB (0-255) to HSV with H in 0-360, S and V in 0-100.
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC * 100.0

	if maxC == 0 {
		s = 0
	} else {
		s = (diff / maxC) * 100.0
	}

	if diff == 0 {
		h = 0
	} else if maxC == r {
		h = 60 * math.Mod((g-b)/diff, 6)
	} else if maxC == g {
		h = 60 * ((b-r)/diff + 2)
	} else {
		h = 60 * ((r-g)/diff + 4)
	}

	if h < 0 {
		h += 360
	}

	return h, s, v
}
