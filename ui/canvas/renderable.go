package canvas

import (
	"image"

	fynecanvas "fyne.io/fyne/v2/canvas"

	"pixelview/internal/view"
)

// Bitmap wraps a resampled bitmap in a Fyne image object so the view
// cache can hand ready-to-paint objects to the widget.
type Bitmap struct {
	img *fynecanvas.Image
}

// CanvasImage returns the Fyne object for embedding in the widget tree.
func (b *Bitmap) CanvasImage() *fynecanvas.Image {
	return b.img
}

// Release drops the pixel data so the evicted object can be collected
// while the widget may still hold a stale pointer.
func (b *Bitmap) Release() {
	b.img.Image = nil
	b.img.Hide()
}

// Factory builds the view-layer renderable constructor. Nearest
// neighbour scaling keeps pixels crisp when the display zooms further.
func Factory() view.RenderableFactory {
	return func(src image.Image) view.Renderable {
		img := fynecanvas.NewImageFromImage(src)
		img.FillMode = fynecanvas.ImageFillStretch
		img.ScaleMode = fynecanvas.ImageScalePixels
		return &Bitmap{img: img}
	}
}
