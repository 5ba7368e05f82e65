// Package canvas provides the image display widget with pan, zoom, and
// a pixel crosshair.
package canvas

import (
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"pixelview/internal/view"
	"pixelview/pkg/colorutil"
	"pixelview/pkg/geometry"
)

// PanStep is the keyboard pan distance in canvas units.
const PanStep = 20

// ImageCanvas displays the session's cached bitmap at the viewport
// offset. The mouse wheel zooms at the pointer, dragging pans, and a
// crosshair tracks the pointer for pixel inspection.
type ImageCanvas struct {
	widget.BaseWidget

	session *view.Session

	background *fynecanvas.Rectangle
	hline      *fynecanvas.Line
	vline      *fynecanvas.Line

	showCrosshair bool
	dragging      bool

	// Last raw pointer position inside the widget, for the crosshair.
	cursor *fyne.Position

	// Callbacks
	onPointerMoved func(pos *geometry.Point2D)
	onViewChanged  func()
}

var _ fyne.Draggable = (*ImageCanvas)(nil)
var _ desktop.Hoverable = (*ImageCanvas)(nil)

// NewImageCanvas creates the canvas bound to a view session.
func NewImageCanvas(session *view.Session) *ImageCanvas {
	ic := &ImageCanvas{
		session:       session,
		background:    fynecanvas.NewRectangle(color.Black),
		hline:         fynecanvas.NewLine(colorutil.CrosshairHorizontal),
		vline:         fynecanvas.NewLine(colorutil.CrosshairVertical),
		showCrosshair: true,
	}
	ic.hline.StrokeWidth = 1
	ic.vline.StrokeWidth = 1
	ic.hline.Hide()
	ic.vline.Hide()
	ic.ExtendBaseWidget(ic)
	return ic
}

// Session returns the bound view session.
func (ic *ImageCanvas) Session() *view.Session {
	return ic.session
}

// SetCrosshair toggles the pointer crosshair.
func (ic *ImageCanvas) SetCrosshair(show bool) {
	ic.showCrosshair = show
	if !show {
		ic.hline.Hide()
		ic.vline.Hide()
	}
	ic.Refresh()
}

// OnPointerMoved sets a callback for pointer movement. The position is
// nil when the pointer leaves the canvas.
func (ic *ImageCanvas) OnPointerMoved(callback func(pos *geometry.Point2D)) {
	ic.onPointerMoved = callback
}

// OnViewChanged sets a callback fired after zoom or pan changes.
func (ic *ImageCanvas) OnViewChanged(callback func()) {
	ic.onViewChanged = callback
}

// ZoomIn zooms one step at the last pointer position or canvas center.
func (ic *ImageCanvas) ZoomIn() {
	if ic.session.ZoomIn(nil) {
		ic.viewChanged()
	}
}

// ZoomOut zooms out one step.
func (ic *ImageCanvas) ZoomOut() {
	if ic.session.ZoomOut(nil) {
		ic.viewChanged()
	}
}

// ResetZoom returns to the fitted view.
func (ic *ImageCanvas) ResetZoom() {
	if ic.session.ResetZoom() {
		ic.viewChanged()
	}
}

// FitToWindow refits the base zoom to the current canvas size.
func (ic *ImageCanvas) FitToWindow() {
	ic.session.Fit()
	ic.viewChanged()
}

// PanBy pans by a delta in canvas units, for arrow keys.
func (ic *ImageCanvas) PanBy(dx, dy float64) {
	ic.session.PanBy(dx, dy)
	ic.viewChanged()
}

func (ic *ImageCanvas) viewChanged() {
	ic.Refresh()
	if ic.onViewChanged != nil {
		ic.onViewChanged()
	}
}

// centeringMargin returns the per-axis gap the renderer leaves when the
// bitmap is smaller than the canvas. Both the bitmap layout and pointer
// event translation go through it so the two can never disagree.
func centeringMargin(size fyne.Size, bmp geometry.Size) geometry.Point2D {
	var m geometry.Point2D
	if float32(bmp.Width) < size.Width {
		m.X = float64(size.Width-float32(bmp.Width)) / 2
	}
	if float32(bmp.Height) < size.Height {
		m.Y = float64(size.Height-float32(bmp.Height)) / 2
	}
	return m
}

// contentPoint translates a widget event position into bitmap space by
// removing the centering margin. The session only sees bitmap-space
// coordinates.
func (ic *ImageCanvas) contentPoint(pos fyne.Position) geometry.Point2D {
	m := centeringMargin(ic.Size(), ic.session.BitmapSize())
	return geometry.Point2D{X: float64(pos.X) - m.X, Y: float64(pos.Y) - m.Y}
}

// Scrolled zooms at the pointer with the mouse wheel.
func (ic *ImageCanvas) Scrolled(ev *fyne.ScrollEvent) {
	focus := ic.contentPoint(ev.Position)
	var changed bool
	if ev.Scrolled.DY > 0 {
		changed = ic.session.ZoomIn(&focus)
	} else if ev.Scrolled.DY < 0 {
		changed = ic.session.ZoomOut(&focus)
	}
	if changed {
		ic.viewChanged()
	}
}

// Dragged pans the image. The gesture origin is recovered from the
// first event so the offset tracks the total drag, not the increments.
func (ic *ImageCanvas) Dragged(ev *fyne.DragEvent) {
	pos := ic.contentPoint(ev.Position)
	if !ic.dragging {
		start := ic.contentPoint(fyne.NewPos(
			ev.Position.X-ev.Dragged.DX,
			ev.Position.Y-ev.Dragged.DY,
		))
		ic.dragging = ic.session.PanStart(start)
		if !ic.dragging {
			return
		}
	}
	ic.session.PanDrag(pos)
	ic.viewChanged()
}

// DragEnd finishes a pan gesture.
func (ic *ImageCanvas) DragEnd() {
	if ic.dragging {
		ic.session.PanEnd()
		ic.dragging = false
	}
}

// MouseIn implements desktop.Hoverable.
func (ic *ImageCanvas) MouseIn(ev *desktop.MouseEvent) {
	ic.MouseMoved(ev)
}

// MouseMoved tracks the pointer for the crosshair and pixel inspector.
// The crosshair follows the raw widget position; the session and the
// callbacks get bitmap-space coordinates.
func (ic *ImageCanvas) MouseMoved(ev *desktop.MouseEvent) {
	raw := ev.Position
	ic.cursor = &raw
	pos := ic.contentPoint(ev.Position)
	ic.session.PointerMoved(pos)
	ic.updateCrosshair()
	if ic.onPointerMoved != nil {
		ic.onPointerMoved(&pos)
	}
}

// MouseOut clears the pointer and ends any drag in progress.
func (ic *ImageCanvas) MouseOut() {
	ic.session.PointerLeft()
	ic.cursor = nil
	ic.dragging = false
	ic.hline.Hide()
	ic.vline.Hide()
	ic.Refresh()
	if ic.onPointerMoved != nil {
		ic.onPointerMoved(nil)
	}
}

// updateCrosshair moves the crosshair lines to the pointer.
func (ic *ImageCanvas) updateCrosshair() {
	if !ic.showCrosshair {
		return
	}
	if ic.cursor == nil {
		ic.hline.Hide()
		ic.vline.Hide()
		return
	}
	size := ic.Size()
	x := ic.cursor.X
	y := ic.cursor.Y

	ic.hline.Position1 = fyne.NewPos(0, y)
	ic.hline.Position2 = fyne.NewPos(size.Width, y)
	ic.vline.Position1 = fyne.NewPos(x, 0)
	ic.vline.Position2 = fyne.NewPos(x, size.Height)
	ic.hline.Show()
	ic.vline.Show()
	fynecanvas.Refresh(ic.hline)
	fynecanvas.Refresh(ic.vline)
}

// CreateRenderer implements fyne.Widget.
func (ic *ImageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &imageCanvasRenderer{canvas: ic}
}

type imageCanvasRenderer struct {
	canvas *ImageCanvas
}

func (r *imageCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.background.Resize(size)
	r.canvas.session.Resize(int(size.Width), int(size.Height))
	r.layoutBitmap(size)
	r.canvas.updateCrosshair()
}

// layoutBitmap positions the cached bitmap at the viewport offset.
// A bitmap smaller than the canvas is centered on that axis.
func (r *imageCanvasRenderer) layoutBitmap(size fyne.Size) {
	bitmap := r.currentBitmap()
	if bitmap == nil {
		return
	}

	session := r.canvas.session
	bmp := session.BitmapSize()
	offset := session.Viewport().Offset()
	margin := centeringMargin(size, bmp)

	// The offset is 0 on any centered axis, and the margin is 0 on any
	// panned axis, so the two terms never fight.
	x := float32(margin.X - offset.X)
	y := float32(margin.Y - offset.Y)

	img := bitmap.CanvasImage()
	img.Resize(fyne.NewSize(float32(bmp.Width), float32(bmp.Height)))
	img.Move(fyne.NewPos(x, y))
	img.Show()
}

func (r *imageCanvasRenderer) currentBitmap() *Bitmap {
	renderable := r.canvas.session.CurrentRenderable()
	if renderable == nil {
		return nil
	}
	bitmap, ok := renderable.(*Bitmap)
	if !ok {
		return nil
	}
	return bitmap
}

func (r *imageCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *imageCanvasRenderer) Refresh() {
	r.Layout(r.canvas.Size())
	fynecanvas.Refresh(r.canvas.background)
	if bitmap := r.currentBitmap(); bitmap != nil {
		fynecanvas.Refresh(bitmap.CanvasImage())
	}
}

func (r *imageCanvasRenderer) Objects() []fyne.CanvasObject {
	objects := []fyne.CanvasObject{r.canvas.background}
	if bitmap := r.currentBitmap(); bitmap != nil {
		objects = append(objects, bitmap.CanvasImage())
	}
	return append(objects, r.canvas.hline, r.canvas.vline)
}

func (r *imageCanvasRenderer) Destroy() {}
