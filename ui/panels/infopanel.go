// Package panels provides UI panels for the application.
package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"pixelview/internal/app"
	"pixelview/internal/metadata"
	"pixelview/pkg/colorutil"
	"pixelview/pkg/geometry"
)

// InfoPanel shows the live view readout: cursor position, zoom, view
// origin, bitmap and canvas sizes, and the pixel under the cursor.
type InfoPanel struct {
	state     *app.State
	container fyne.CanvasObject

	fileLabel      *widget.Label
	cursorLabel    *widget.Label
	pixelPosLabel  *widget.Label
	zoomLabel      *widget.Label
	originLabel    *widget.Label
	bitmapLabel    *widget.Label
	canvasLabel    *widget.Label
	hexLabel       *widget.Label
	hsvLabel       *widget.Label
	watermarkLabel *widget.Label
}

// NewInfoPanel creates the info panel.
func NewInfoPanel(state *app.State) *InfoPanel {
	ip := &InfoPanel{state: state}

	ip.fileLabel = widget.NewLabel("No image loaded")
	ip.fileLabel.Wrapping = fyne.TextWrapBreak
	ip.cursorLabel = widget.NewLabel("Cursor: --")
	ip.pixelPosLabel = widget.NewLabel("Pixel: --")
	ip.zoomLabel = widget.NewLabel("Zoom: --")
	ip.originLabel = widget.NewLabel("Origin: --")
	ip.bitmapLabel = widget.NewLabel("Bitmap: --")
	ip.canvasLabel = widget.NewLabel("Canvas: --")
	ip.hexLabel = widget.NewLabel("Color: --")
	ip.hexLabel.TextStyle = fyne.TextStyle{Monospace: true}
	ip.hsvLabel = widget.NewLabel("HSV: --")
	ip.hsvLabel.TextStyle = fyne.TextStyle{Monospace: true}
	ip.watermarkLabel = widget.NewLabel("Watermark: --")
	ip.watermarkLabel.Wrapping = fyne.TextWrapWord

	ip.container = container.NewVScroll(container.NewVBox(
		ip.fileLabel,
		widget.NewSeparator(),
		ip.cursorLabel,
		ip.pixelPosLabel,
		ip.hexLabel,
		ip.hsvLabel,
		widget.NewSeparator(),
		ip.zoomLabel,
		ip.originLabel,
		ip.bitmapLabel,
		ip.canvasLabel,
		widget.NewSeparator(),
		ip.watermarkLabel,
	))

	return ip
}

// Container returns the panel container.
func (ip *InfoPanel) Container() fyne.CanvasObject {
	return ip.container
}

// UpdateImage refreshes the per-image fields after a load.
func (ip *InfoPanel) UpdateImage() {
	session := ip.state.Session()
	src := session.Source()
	if src == nil || !src.Valid() {
		ip.fileLabel.SetText("No image loaded")
		ip.watermarkLabel.SetText("Watermark: --")
		return
	}
	ip.fileLabel.SetText(fmt.Sprintf("%s  (%dx%d %s)",
		src.DisplayName(), src.Width(), src.Height(), src.Mode))
	ip.watermarkLabel.SetText("Watermark: " + metadata.DetectWatermark(src))
	ip.UpdateView()
}

// UpdateView refreshes the zoom and viewport fields.
func (ip *InfoPanel) UpdateView() {
	session := ip.state.Session()
	if !session.Loaded() {
		ip.zoomLabel.SetText("Zoom: --")
		ip.originLabel.SetText("Origin: --")
		ip.bitmapLabel.SetText("Bitmap: --")
		ip.canvasLabel.SetText("Canvas: --")
		return
	}

	zoom := session.Zoom()
	ip.zoomLabel.SetText(fmt.Sprintf("Zoom: %.2fx (base %.2f, user %.1f)",
		session.EffectiveZoom(), zoom.BaseZoom(), zoom.UserZoom()))

	offset := session.Viewport().Offset()
	ip.originLabel.SetText(fmt.Sprintf("Origin: %.0f, %.0f", offset.X, offset.Y))

	bmp := session.BitmapSize()
	ip.bitmapLabel.SetText(fmt.Sprintf("Bitmap: %dx%d", bmp.Width, bmp.Height))

	canvas := session.Viewport().CanvasSize()
	ip.canvasLabel.SetText(fmt.Sprintf("Canvas: %dx%d", canvas.Width, canvas.Height))
}

// UpdatePointer refreshes the cursor fields. A nil position means the
// pointer left the canvas.
func (ip *InfoPanel) UpdatePointer(pos *geometry.Point2D) {
	session := ip.state.Session()
	if pos == nil || !session.Loaded() {
		ip.cursorLabel.SetText("Cursor: --")
		ip.pixelPosLabel.SetText("Pixel: --")
		ip.hexLabel.SetText("Color: --")
		ip.hsvLabel.SetText("HSV: --")
		return
	}

	ip.cursorLabel.SetText(fmt.Sprintf("Cursor: %.0f, %.0f", pos.X, pos.Y))

	pt, ok := session.ImagePointAt(*pos)
	if !ok {
		ip.pixelPosLabel.SetText("Pixel: --")
		return
	}
	ip.pixelPosLabel.SetText(fmt.Sprintf("Pixel: %d, %d", pt.X, pt.Y))
	ip.hexLabel.SetText("Color: " + session.PixelHexAt(*pos))

	c := session.Source().PixelAt(pt.X, pt.Y)
	r, g, b, _ := c.RGBA()
	h, s, v := colorutil.RGBToHSV(float64(r>>8), float64(g>>8), float64(b>>8))
	ip.hsvLabel.SetText(fmt.Sprintf("HSV: %.0f° %.0f%% %.0f%%", h, s, v))
}
