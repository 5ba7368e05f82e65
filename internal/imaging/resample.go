package imaging

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Resample scales src to width x height using a Catmull-Rom filter. The same
// filter is used for both upscaling and downscaling so consecutive zoom
// levels don't visibly pop.
func Resample(src image.Image, width, height int) *image.RGBA {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
