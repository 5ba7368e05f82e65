package view

import (
	"math"

	"pixelview/pkg/geometry"
)

// ScreenToImage converts a canvas point to original-image pixel coordinates
// given the viewport offset and effective zoom. The result is clamped to the
// image bounds; screen coordinates routinely fall outside them.
func ScreenToImage(screen, offset geometry.Point2D, zoom float64, imageSize geometry.Size) geometry.PointInt {
	if imageSize.IsZero() || zoom <= 0 {
		return geometry.PointInt{}
	}
	return geometry.PointInt{
		X: geometry.ClampInt(int(math.Floor((offset.X+screen.X)/zoom)), 0, imageSize.Width-1),
		Y: geometry.ClampInt(int(math.Floor((offset.Y+screen.Y)/zoom)), 0, imageSize.Height-1),
	}
}

// ImageToScreen converts an image pixel coordinate back to a canvas point.
// Inverse of ScreenToImage up to rounding, for in-bounds points.
func ImageToScreen(pixel geometry.PointInt, offset geometry.Point2D, zoom float64) geometry.Point2D {
	return geometry.Point2D{
		X: float64(pixel.X)*zoom - offset.X,
		Y: float64(pixel.Y)*zoom - offset.Y,
	}
}
