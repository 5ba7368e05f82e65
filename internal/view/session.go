package view

import (
	"errors"
	"image"
	"math"

	"pixelview/internal/imaging"
	"pixelview/pkg/colorutil"
	"pixelview/pkg/geometry"
)

// ErrInvalidImage is returned when a source with zero width or height is
// offered to a session.
var ErrInvalidImage = errors.New("image has zero width or height")

// Session owns all view state for one window: the source image, the zoom
// controller, the viewport, the resample cache, and the last known pointer
// position. Every component is reached through the session; there are no
// package-level singletons. All methods must be called from the UI thread.
type Session struct {
	source   *imaging.Source
	zoom     *ZoomController
	viewport *Viewport
	cache    *ResampleCache
	pointer  *geometry.Point2D
}

// NewSession creates an empty session. The factory may be nil for headless
// use; the renderable cache is then disabled.
func NewSession(factory RenderableFactory) *Session {
	return &Session{
		zoom:     NewZoomController(),
		viewport: NewViewport(),
		cache:    NewResampleCache(factory),
	}
}

// Loaded reports whether a valid source image is present. Zoom and pan
// operations are refused until one is.
func (s *Session) Loaded() bool {
	return s.source.Valid()
}

// Source returns the current source image, nil before the first load.
func (s *Session) Source() *imaging.Source { return s.source }

// Zoom returns the session's zoom controller.
func (s *Session) Zoom() *ZoomController { return s.zoom }

// Viewport returns the session's viewport.
func (s *Session) Viewport() *Viewport { return s.viewport }

// Cache returns the session's resample cache.
func (s *Session) Cache() *ResampleCache { return s.cache }

// SetSource replaces the source image wholesale: the cache is invalidated,
// the safe zoom ceiling recomputed, the base zoom refit to the canvas, and
// the offset reset. A source that fails validation leaves all prior state
// untouched.
func (s *Session) SetSource(src *imaging.Source) error {
	if !src.Valid() {
		return ErrInvalidImage
	}
	s.source = src
	s.cache.SetSource(src.Image)
	s.zoom.SetImageSize(src.Size())
	s.Fit()
	return nil
}

// Fit recomputes the base zoom so the image fits the canvas (never enlarging
// past 1:1), resets the user zoom, invalidates the cache, and returns the
// offset to the origin.
func (s *Session) Fit() {
	if !s.Loaded() {
		return
	}
	canvas := s.viewport.CanvasSize()
	fit := 1.0
	if !canvas.IsZero() {
		fit = math.Min(
			float64(canvas.Width)/float64(s.source.Width()),
			float64(canvas.Height)/float64(s.source.Height()),
		)
		fit = math.Min(fit, 1.0)
	}
	s.zoom.SetBaseZoom(fit)
	s.cache.Invalidate()
	s.viewport.Reset()
	s.viewport.SetBitmapSize(s.BitmapSize())
}

// Resize records a host canvas resize. The first real canvas size after a
// load refits the image, since a source set before the window is laid out
// was fitted against a zero canvas. Later resizes keep the zoom and only
// re-clamp the offset.
func (s *Session) Resize(width, height int) {
	wasZero := s.viewport.CanvasSize().IsZero()
	s.viewport.SetCanvasSize(width, height)
	if wasZero && !s.viewport.CanvasSize().IsZero() && s.Loaded() {
		s.Fit()
	}
}

// EffectiveZoom returns the scale currently applied to the source image.
func (s *Session) EffectiveZoom() float64 { return s.zoom.EffectiveZoom() }

// BitmapSize returns the dimensions the cache will produce for the current
// effective zoom.
func (s *Session) BitmapSize() geometry.Size {
	if !s.Loaded() {
		return geometry.Size{}
	}
	return BitmapSizeFor(s.source.Size(), s.zoom.EffectiveZoom())
}

// Bitmap returns the resized bitmap for the current effective zoom.
func (s *Session) Bitmap() image.Image {
	if !s.Loaded() {
		return nil
	}
	return s.cache.Bitmap(s.zoom.EffectiveZoom())
}

// CurrentRenderable returns the host paint handle for the current zoom.
func (s *Session) CurrentRenderable() Renderable {
	if !s.Loaded() {
		return nil
	}
	return s.cache.Renderable(s.zoom.EffectiveZoom())
}

// ZoomIn performs a focus-preserving zoom-in step at the given focus point,
// or at the last pointer position / canvas center when focus is nil.
func (s *Session) ZoomIn(focus *geometry.Point2D) bool {
	return s.applyZoom(s.zoom.ZoomIn, focus)
}

// ZoomOut performs a focus-preserving zoom-out step.
func (s *Session) ZoomOut(focus *geometry.Point2D) bool {
	return s.applyZoom(s.zoom.ZoomOut, focus)
}

// ResetZoom returns the user multiplier to 1.0 and the offset to the origin.
func (s *Session) ResetZoom() bool {
	if !s.Loaded() {
		return false
	}
	if !s.zoom.ResetZoom() {
		return false
	}
	s.viewport.Reset()
	s.viewport.SetBitmapSize(s.BitmapSize())
	return true
}

// applyZoom keeps the image content under the focus point anchored across a
// zoom mutation: convert the focus to image space at the old zoom, mutate,
// recompute the offset at the new zoom, clamp.
func (s *Session) applyZoom(mutate func() bool, focus *geometry.Point2D) bool {
	if !s.Loaded() {
		return false
	}
	focusPt := s.focusPoint(focus)
	anchor := s.viewport.AnchorImagePoint(focusPt, s.zoom.EffectiveZoom())

	if !mutate() {
		return false
	}

	s.viewport.SetBitmapSize(s.BitmapSize())
	s.viewport.RestoreAnchor(anchor, focusPt, s.zoom.EffectiveZoom())
	return true
}

// focusPoint returns the explicit focus, the last pointer position, or the
// canvas center, in that order.
func (s *Session) focusPoint(focus *geometry.Point2D) geometry.Point2D {
	if focus != nil {
		return *focus
	}
	if s.pointer != nil {
		return *s.pointer
	}
	canvas := s.viewport.CanvasSize()
	return geometry.Point2D{
		X: float64(canvas.Width) / 2,
		Y: float64(canvas.Height) / 2,
	}
}

// PanBy pans by a delta, refused until an image is loaded.
func (s *Session) PanBy(dx, dy float64) {
	if !s.Loaded() {
		return
	}
	s.viewport.PanBy(dx, dy)
}

// PanStart begins a drag gesture; see Viewport.PanStart.
func (s *Session) PanStart(screen geometry.Point2D) bool {
	if !s.Loaded() {
		return false
	}
	return s.viewport.PanStart(screen)
}

// PanDrag continues a drag gesture.
func (s *Session) PanDrag(screen geometry.Point2D) {
	s.viewport.PanDrag(screen)
}

// PanEnd finishes a drag gesture.
func (s *Session) PanEnd() {
	s.viewport.PanEnd()
}

// PointerMoved records the pointer position for focus defaults and the
// pixel inspector.
func (s *Session) PointerMoved(screen geometry.Point2D) {
	p := screen
	s.pointer = &p
}

// PointerLeft clears the pointer position and implicitly ends any drag.
func (s *Session) PointerLeft() {
	s.pointer = nil
	s.viewport.PanEnd()
}

// Pointer returns the last known pointer position, nil when the pointer has
// left the canvas.
func (s *Session) Pointer() *geometry.Point2D { return s.pointer }

// ImagePointAt maps a canvas point to original-image pixel coordinates.
func (s *Session) ImagePointAt(screen geometry.Point2D) (geometry.PointInt, bool) {
	if !s.Loaded() {
		return geometry.PointInt{}, false
	}
	pt := ScreenToImage(screen, s.viewport.Offset(), s.zoom.EffectiveZoom(), s.source.Size())
	return pt, true
}

// PixelHexAt returns the RRGGBB hex of the source pixel under a canvas
// point. Out-of-bounds coordinates are clamped, never an error.
func (s *Session) PixelHexAt(screen geometry.Point2D) string {
	pt, ok := s.ImagePointAt(screen)
	if !ok {
		return "--"
	}
	return colorutil.HexRGB(s.source.PixelAt(pt.X, pt.Y))
}
