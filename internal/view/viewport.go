package view

import (
	"pixelview/pkg/geometry"
)

// Viewport owns the visible offset into the rendered bitmap. The offset is
// the top-left corner, in bitmap space, of the canvas window; it is clamped
// to [0, max(0, bitmap-canvas)] on both axes after every operation, so
// panning and zooming never expose simulated content. When the bitmap is
// smaller than the canvas the offset clamps to 0 and the shell centers the
// bitmap at paint time.
type Viewport struct {
	offset geometry.Point2D
	canvas geometry.Size
	bitmap geometry.Size

	panning        bool
	panStartScreen geometry.Point2D
	panStartOffset geometry.Point2D
}

// NewViewport returns a viewport at origin with no canvas or bitmap yet.
func NewViewport() *Viewport {
	return &Viewport{}
}

// Offset returns the current clamped offset.
func (v *Viewport) Offset() geometry.Point2D { return v.offset }

// CanvasSize returns the host canvas dimensions.
func (v *Viewport) CanvasSize() geometry.Size { return v.canvas }

// BitmapSize returns the rendered bitmap dimensions.
func (v *Viewport) BitmapSize() geometry.Size { return v.bitmap }

// SetCanvasSize records a host canvas resize and re-clamps the offset. Zoom
// is unchanged.
func (v *Viewport) SetCanvasSize(width, height int) {
	v.canvas = geometry.Size{Width: width, Height: height}
	v.clampOffset()
}

// SetBitmapSize records the dimensions of the currently rendered bitmap and
// re-clamps the offset.
func (v *Viewport) SetBitmapSize(size geometry.Size) {
	v.bitmap = size
	v.clampOffset()
}

// Reset moves the offset back to the origin.
func (v *Viewport) Reset() {
	v.offset = geometry.Point2D{}
	v.panning = false
}

// Pannable reports whether the bitmap exceeds the canvas in at least one
// dimension. A fully-zoomed-out image cannot be panned.
func (v *Viewport) Pannable() bool {
	return v.bitmap.Width > v.canvas.Width || v.bitmap.Height > v.canvas.Height
}

// PanBy adds a delta to the offset and clamps.
func (v *Viewport) PanBy(dx, dy float64) {
	v.offset.X += dx
	v.offset.Y += dy
	v.clampOffset()
}

// PanStart begins a drag gesture at a screen point. Returns false when the
// bitmap fits the canvas and panning is refused.
func (v *Viewport) PanStart(screen geometry.Point2D) bool {
	if !v.Pannable() {
		return false
	}
	v.panning = true
	v.panStartScreen = screen
	v.panStartOffset = v.offset
	return true
}

// PanDrag moves the offset during a drag. The delta is computed from the
// gesture start point and start offset, not from incremental deltas, so
// rounding error never compounds. Dragging the pointer right moves the view
// origin left.
func (v *Viewport) PanDrag(screen geometry.Point2D) {
	if !v.panning {
		return
	}
	v.offset.X = v.panStartOffset.X - (screen.X - v.panStartScreen.X)
	v.offset.Y = v.panStartOffset.Y - (screen.Y - v.panStartScreen.Y)
	v.clampOffset()
}

// PanEnd finishes a drag gesture. Always returns the viewport to the idle
// state, including when the pointer left the canvas mid-drag.
func (v *Viewport) PanEnd() {
	v.panning = false
}

// Panning reports whether a drag gesture is in progress.
func (v *Viewport) Panning() bool { return v.panning }

// AnchorImagePoint converts a focus screen point to image space at the given
// effective zoom, for use before a zoom mutation.
func (v *Viewport) AnchorImagePoint(focus geometry.Point2D, zoom float64) geometry.Point2D {
	return geometry.Point2D{
		X: (v.offset.X + focus.X) / zoom,
		Y: (v.offset.Y + focus.Y) / zoom,
	}
}

// RestoreAnchor recomputes the offset so the image-space anchor maps back to
// the same focus screen point at the new effective zoom, then clamps. This
// is the focus-preserving half of a zoom change; callers must have set the
// new bitmap size first.
func (v *Viewport) RestoreAnchor(anchor, focus geometry.Point2D, zoom float64) {
	v.offset.X = anchor.X*zoom - focus.X
	v.offset.Y = anchor.Y*zoom - focus.Y
	v.clampOffset()
}

func (v *Viewport) clampOffset() {
	maxX := float64(v.bitmap.Width - v.canvas.Width)
	maxY := float64(v.bitmap.Height - v.canvas.Height)
	if maxX < 0 {
		maxX = 0
	}
	if maxY < 0 {
		maxY = 0
	}
	v.offset.X = geometry.Clamp(v.offset.X, 0, maxX)
	v.offset.Y = geometry.Clamp(v.offset.Y, 0, maxY)
}
