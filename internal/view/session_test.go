package view

import (
	"image"
	"image/color"
	"math"
	"testing"

	"pixelview/internal/imaging"
	"pixelview/pkg/geometry"
)

func testSource(w, h int) *imaging.Source {
	return &imaging.Source{Image: testImage(w, h), Format: "png", Mode: imaging.ModeRGB}
}

func newTestSession(t *testing.T, imgW, imgH, canvasW, canvasH int) *Session {
	t.Helper()
	s := NewSession(nil)
	s.Resize(canvasW, canvasH)
	if err := s.SetSource(testSource(imgW, imgH)); err != nil {
		t.Fatalf("SetSource: %v", err)
	}
	return s
}

func TestSessionFitScenario(t *testing.T) {
	// 1000x800 image in a 500x400 canvas: fit zoom is 0.5.
	s := newTestSession(t, 1000, 800, 500, 400)

	if got := s.EffectiveZoom(); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("EffectiveZoom = %v, want 0.5", got)
	}
	if got := s.BitmapSize(); got.Width != 500 || got.Height != 400 {
		t.Errorf("bitmap = %v, want 500x400", got)
	}
	if got := s.Viewport().Offset(); got.X != 0 || got.Y != 0 {
		t.Errorf("offset = %v, want origin", got)
	}
	if s.Viewport().Pannable() {
		t.Error("fitted image must not be pannable")
	}

	for i := 0; i < 3; i++ {
		if !s.ZoomIn(nil) {
			t.Fatalf("ZoomIn step %d reported no change", i+1)
		}
	}
	if got := s.Zoom().UserZoom(); math.Abs(got-1.3) > 1e-9 {
		t.Errorf("UserZoom = %v, want 1.3", got)
	}
	if got := s.BitmapSize(); got.Width != 650 || got.Height != 520 {
		t.Errorf("bitmap = %v, want 650x520", got)
	}
	offset := s.Viewport().Offset()
	if offset.X < 0 || offset.X > 150 || offset.Y < 0 || offset.Y > 120 {
		t.Errorf("offset %v outside [0,150]x[0,120]", offset)
	}
}

func TestSessionFocusPreservingZoom(t *testing.T) {
	s := newTestSession(t, 1000, 800, 500, 400)
	focus := geometry.NewPoint2D(300, 250)

	before, _ := s.ImagePointAt(focus)
	if !s.ZoomIn(&focus) {
		t.Fatal("ZoomIn reported no change")
	}
	after, _ := s.ImagePointAt(focus)

	// The image content under the focus point stays put to within one
	// source pixel (the result is not edge-clamped in this setup).
	if math.Abs(float64(after.X-before.X)) > 1 || math.Abs(float64(after.Y-before.Y)) > 1 {
		t.Errorf("focus point drifted: %v -> %v", before, after)
	}
}

func TestSessionFocusDefaultsToCanvasCenter(t *testing.T) {
	s := newTestSession(t, 1000, 800, 500, 400)

	center := geometry.NewPoint2D(250, 200)
	before, _ := s.ImagePointAt(center)
	s.ZoomIn(nil) // no pointer known, center is the anchor
	after, _ := s.ImagePointAt(center)

	if math.Abs(float64(after.X-before.X)) > 1 || math.Abs(float64(after.Y-before.Y)) > 1 {
		t.Errorf("canvas center drifted: %v -> %v", before, after)
	}
}

func TestSessionRefusesWithoutImage(t *testing.T) {
	s := NewSession(nil)
	s.Resize(500, 400)

	if s.ZoomIn(nil) {
		t.Error("ZoomIn without an image should be refused")
	}
	if s.PanStart(geometry.NewPoint2D(10, 10)) {
		t.Error("PanStart without an image should be refused")
	}
	if s.Bitmap() != nil {
		t.Error("Bitmap without an image should be nil")
	}
	if got := s.PixelHexAt(geometry.NewPoint2D(0, 0)); got != "--" {
		t.Errorf("PixelHexAt = %q, want --", got)
	}
}

func TestSessionRejectsZeroAreaImage(t *testing.T) {
	s := newTestSession(t, 1000, 800, 500, 400)
	s.ZoomIn(nil)
	offsetBefore := s.Viewport().Offset()
	zoomBefore := s.EffectiveZoom()

	if err := s.SetSource(&imaging.Source{}); err == nil {
		t.Fatal("SetSource with an invalid image should fail")
	}

	// A failed swap leaves all prior state unchanged.
	if got := s.EffectiveZoom(); got != zoomBefore {
		t.Errorf("zoom changed after failed swap: %v -> %v", zoomBefore, got)
	}
	if got := s.Viewport().Offset(); got != offsetBefore {
		t.Errorf("offset changed after failed swap: %v -> %v", offsetBefore, got)
	}
	if !s.Loaded() {
		t.Error("session lost its image after a failed swap")
	}
}

func TestSessionResetZoom(t *testing.T) {
	s := newTestSession(t, 1000, 800, 500, 400)
	s.ZoomIn(nil)
	s.ZoomIn(nil)
	s.PanBy(40, 30)

	if !s.ResetZoom() {
		t.Fatal("ResetZoom reported no change")
	}
	if got := s.Zoom().UserZoom(); got != 1.0 {
		t.Errorf("UserZoom = %v, want 1.0", got)
	}
	if got := s.Viewport().Offset(); got.X != 0 || got.Y != 0 {
		t.Errorf("offset = %v, want origin", got)
	}
}

func TestSessionPointerLeftEndsPan(t *testing.T) {
	s := newTestSession(t, 1000, 800, 500, 400)
	s.ZoomIn(nil)
	s.ZoomIn(nil)

	if !s.PanStart(geometry.NewPoint2D(100, 100)) {
		t.Fatal("PanStart refused on a zoomed-in image")
	}
	s.PointerLeft()
	if s.Viewport().Panning() {
		t.Error("pointer leaving the canvas must end the pan gesture")
	}
}

func TestSessionPixelHex(t *testing.T) {
	src := testSource(100, 80)
	s := NewSession(nil)
	s.Resize(100, 80)
	if err := s.SetSource(src); err != nil {
		t.Fatalf("SetSource: %v", err)
	}

	// testImage sets pixel (10, 20) to R=10 G=20 B=128.
	got := s.PixelHexAt(geometry.NewPoint2D(10, 20))
	if got != "#0A1480" {
		t.Errorf("PixelHexAt = %q, want #0A1480", got)
	}
}

func TestSessionGrayscalePixelHex(t *testing.T) {
	// Grayscale pixels replicate the single channel across RGB.
	gray := image.NewGray(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			gray.SetGray(x, y, color.Gray{Y: uint8(40 + x)})
		}
	}
	s := NewSession(nil)
	s.Resize(10, 10)
	src := &imaging.Source{Image: gray, Format: "png", Mode: imaging.ModeGray}
	if err := s.SetSource(src); err != nil {
		t.Fatalf("SetSource: %v", err)
	}

	hex := s.PixelHexAt(geometry.NewPoint2D(5, 5))
	if len(hex) != 7 || hex[1:3] != hex[3:5] || hex[3:5] != hex[5:7] {
		t.Errorf("grayscale hex %q should have identical channels", hex)
	}
}

func TestSessionFitsOnFirstCanvasSize(t *testing.T) {
	// An image loaded from the command line arrives before the window has
	// been laid out, so the first fit runs against a zero canvas.
	s := NewSession(nil)
	if err := s.SetSource(testSource(1000, 800)); err != nil {
		t.Fatalf("SetSource: %v", err)
	}
	if got := s.EffectiveZoom(); got != 1.0 {
		t.Fatalf("EffectiveZoom before layout = %v, want 1.0", got)
	}

	s.Resize(500, 400)
	if got := s.EffectiveZoom(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("EffectiveZoom after first layout = %v, want refit 0.5", got)
	}

	// Later resizes keep the zoom.
	s.Resize(250, 200)
	if got := s.EffectiveZoom(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("EffectiveZoom after second resize = %v, want 0.5 unchanged", got)
	}
}
