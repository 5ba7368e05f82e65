package view

import (
	"math"
	"math/rand"
	"testing"

	"pixelview/pkg/geometry"
)

func TestViewportClampsOffset(t *testing.T) {
	v := NewViewport()
	v.SetCanvasSize(500, 400)
	v.SetBitmapSize(geometry.Size{Width: 650, Height: 520})

	v.PanBy(10000, 10000)
	if got := v.Offset(); got.X != 150 || got.Y != 120 {
		t.Errorf("offset = %v, want clamp at (150, 120)", got)
	}

	v.PanBy(-10000, -10000)
	if got := v.Offset(); got.X != 0 || got.Y != 0 {
		t.Errorf("offset = %v, want clamp at origin", got)
	}
}

func TestViewportPanNoEffectWhenBitmapFits(t *testing.T) {
	v := NewViewport()
	v.SetCanvasSize(500, 400)
	v.SetBitmapSize(geometry.Size{Width: 500, Height: 400})

	if v.Pannable() {
		t.Error("bitmap matching the canvas must not be pannable")
	}
	v.PanBy(30, 40)
	if got := v.Offset(); got.X != 0 || got.Y != 0 {
		t.Errorf("offset = %v, want (0, 0)", got)
	}
	if v.PanStart(geometry.NewPoint2D(10, 10)) {
		t.Error("PanStart should refuse when the bitmap fits the canvas")
	}
}

func TestViewportDragFromGestureStart(t *testing.T) {
	v := NewViewport()
	v.SetCanvasSize(500, 400)
	v.SetBitmapSize(geometry.Size{Width: 1000, Height: 800})
	v.PanBy(100, 100)

	if !v.PanStart(geometry.NewPoint2D(200, 200)) {
		t.Fatal("PanStart refused on a pannable bitmap")
	}

	// Deltas are measured from the gesture start, so intermediate drags
	// never accumulate error.
	v.PanDrag(geometry.NewPoint2D(210, 205))
	v.PanDrag(geometry.NewPoint2D(230, 220))
	if got := v.Offset(); got.X != 70 || got.Y != 80 {
		t.Errorf("offset = %v, want (70, 80)", got)
	}

	v.PanEnd()
	if v.Panning() {
		t.Error("PanEnd must always return to idle")
	}

	// Drag events after the gesture ended are ignored.
	v.PanDrag(geometry.NewPoint2D(0, 0))
	if got := v.Offset(); got.X != 70 || got.Y != 80 {
		t.Errorf("offset moved after PanEnd: %v", got)
	}
}

func TestViewportResizeReclamps(t *testing.T) {
	v := NewViewport()
	v.SetCanvasSize(500, 400)
	v.SetBitmapSize(geometry.Size{Width: 1000, Height: 800})
	v.PanBy(500, 400) // max offset for this canvas

	v.SetCanvasSize(800, 700)
	if got := v.Offset(); got.X != 200 || got.Y != 100 {
		t.Errorf("offset after resize = %v, want (200, 100)", got)
	}
}

func TestViewportOffsetAlwaysInRange(t *testing.T) {
	v := NewViewport()
	v.SetCanvasSize(500, 400)
	v.SetBitmapSize(geometry.Size{Width: 1300, Height: 900})

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		switch rng.Intn(3) {
		case 0:
			v.PanBy(rng.Float64()*800-400, rng.Float64()*800-400)
		case 1:
			v.SetCanvasSize(100+rng.Intn(900), 100+rng.Intn(900))
		case 2:
			v.SetBitmapSize(geometry.Size{
				Width:  50 + rng.Intn(2000),
				Height: 50 + rng.Intn(2000),
			})
		}

		offset := v.Offset()
		maxX := math.Max(0, float64(v.BitmapSize().Width-v.CanvasSize().Width))
		maxY := math.Max(0, float64(v.BitmapSize().Height-v.CanvasSize().Height))
		if offset.X < 0 || offset.X > maxX || offset.Y < 0 || offset.Y > maxY {
			t.Fatalf("step %d: offset %v outside [0,%v]x[0,%v]", i, offset, maxX, maxY)
		}
	}
}

func TestScreenToImageMapping(t *testing.T) {
	imageSize := geometry.Size{Width: 1000, Height: 800}

	// Spec scenario: zoom 0.65, offset (10,10), screen (0,0) -> pixel (15,15).
	pt := ScreenToImage(
		geometry.NewPoint2D(0, 0),
		geometry.NewPoint2D(10, 10),
		0.65, imageSize,
	)
	if pt.X != 15 || pt.Y != 15 {
		t.Errorf("ScreenToImage = %v, want (15, 15)", pt)
	}
}

func TestScreenToImageClampsOutOfRange(t *testing.T) {
	imageSize := geometry.Size{Width: 100, Height: 80}

	pt := ScreenToImage(geometry.NewPoint2D(-500, -500), geometry.Point2D{}, 1.0, imageSize)
	if pt.X != 0 || pt.Y != 0 {
		t.Errorf("negative coordinates should clamp to origin, got %v", pt)
	}

	pt = ScreenToImage(geometry.NewPoint2D(5000, 5000), geometry.Point2D{}, 1.0, imageSize)
	if pt.X != 99 || pt.Y != 79 {
		t.Errorf("overflow should clamp to (99, 79), got %v", pt)
	}
}

func TestScreenImageRoundTrip(t *testing.T) {
	imageSize := geometry.Size{Width: 1000, Height: 800}
	offset := geometry.NewPoint2D(37, 12)
	zoom := 1.6

	for _, screen := range []geometry.Point2D{
		{X: 0, Y: 0}, {X: 13, Y: 250}, {X: 400, Y: 299},
	} {
		pixel := ScreenToImage(screen, offset, zoom, imageSize)
		back := ImageToScreen(pixel, offset, zoom)
		if math.Abs(back.X-screen.X) > zoom || math.Abs(back.Y-screen.Y) > zoom {
			t.Errorf("round trip %v -> %v -> %v drifted more than one pixel step",
				screen, pixel, back)
		}
	}
}
