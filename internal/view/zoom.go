// Package view implements the zoom/viewport/render engine: the mapping
// between a fixed-resolution source image and a scrollable, zoomable
// on-screen viewport.
package view

import (
	"math"

	"pixelview/pkg/geometry"
)

// Zoom limits. Resized bitmaps never exceed 4K on either axis.
const (
	MaxBitmapWidth  = 3840
	MaxBitmapHeight = 2160

	MinUserZoom = 1.0
	HardZoomCap = 10.0

	// ZoomStep is added to or subtracted from the user multiplier per step.
	ZoomStep = 0.1

	// zoomEpsilon filters out zoom changes too small to re-render for.
	zoomEpsilon = 0.01
)

// ZoomController owns the base (fit-to-window) zoom and the user zoom
// multiplier. The effective zoom, their product, is the actual scale applied
// to the source image.
type ZoomController struct {
	baseZoom     float64
	userZoom     float64
	maxEffective float64
}

// NewZoomController returns a controller at neutral zoom.
func NewZoomController() *ZoomController {
	return &ZoomController{
		baseZoom:     1.0,
		userZoom:     1.0,
		maxEffective: HardZoomCap,
	}
}

// SafeMaxEffectiveZoom returns the largest effective zoom that keeps the
// resized bitmap within the resolution ceiling, floored at 1.0 and capped at
// HardZoomCap. A zero-area image yields the neutral zoom 1.0.
func SafeMaxEffectiveZoom(size geometry.Size) float64 {
	if size.IsZero() {
		return 1.0
	}
	byWidth := float64(MaxBitmapWidth) / float64(size.Width)
	byHeight := float64(MaxBitmapHeight) / float64(size.Height)
	return math.Max(1.0, math.Min(byWidth, math.Min(byHeight, HardZoomCap)))
}

// SetImageSize recomputes the safe maximum effective zoom for a new source.
func (z *ZoomController) SetImageSize(size geometry.Size) {
	z.maxEffective = SafeMaxEffectiveZoom(size)
}

// SetBaseZoom sets the fit-to-window scale and resets the user multiplier.
// Callers must invalidate cached bitmaps afterwards.
func (z *ZoomController) SetBaseZoom(scale float64) {
	if scale < 1e-6 {
		scale = 1e-6
	}
	z.baseZoom = scale
	z.userZoom = 1.0
}

// BaseZoom returns the fit-to-window scale.
func (z *ZoomController) BaseZoom() float64 { return z.baseZoom }

// UserZoom returns the user-facing zoom multiplier.
func (z *ZoomController) UserZoom() float64 { return z.userZoom }

// EffectiveZoom returns baseZoom * userZoom, the scale every coordinate
// transform uses.
func (z *ZoomController) EffectiveZoom() float64 {
	return z.baseZoom * z.userZoom
}

// MaxUserZoom returns the largest user multiplier that keeps the effective
// zoom within the safe maximum.
func (z *ZoomController) MaxUserZoom() float64 {
	return math.Max(MinUserZoom, z.maxEffective/z.baseZoom)
}

// ZoomIn raises the user multiplier by one step, clamped to the safe
// maximum. Returns false when the change is below the noise threshold.
func (z *ZoomController) ZoomIn() bool {
	return z.setUserZoom(math.Min(z.userZoom+ZoomStep, z.MaxUserZoom()))
}

// ZoomOut lowers the user multiplier by one step, clamped to MinUserZoom.
// Returns false when the change is below the noise threshold.
func (z *ZoomController) ZoomOut() bool {
	return z.setUserZoom(math.Max(z.userZoom-ZoomStep, MinUserZoom))
}

// ResetZoom restores the user multiplier to 1.0.
func (z *ZoomController) ResetZoom() bool {
	return z.setUserZoom(1.0)
}

func (z *ZoomController) setUserZoom(next float64) bool {
	if math.Abs(next-z.userZoom) < zoomEpsilon {
		return false
	}
	z.userZoom = next
	return true
}
