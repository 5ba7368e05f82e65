package view

import (
	"image"
	"math"

	"pixelview/internal/imaging"
	"pixelview/pkg/geometry"
)

// Cache capacities. Bitmaps are cheap to rebuild; renderables hold host
// paint resources, so fewer are kept.
const (
	maxCachedBitmaps     = 5
	maxCachedRenderables = 3

	// unityTolerance decides when the unmodified source is returned
	// instead of resampling.
	unityTolerance = 1e-6
)

// Renderable is a host-paintable wrapper around a bitmap. The cache is the
// exclusive owner of every renderable it hands out; Release must free host
// resources and is called deterministically on eviction and invalidation.
type Renderable interface {
	Release()
}

// RenderableFactory produces a host renderable for a bitmap. A nil factory
// disables the renderable cache (headless use).
type RenderableFactory func(image.Image) Renderable

// ResampleCache produces and caches resized bitmaps keyed by effective zoom
// rounded to three decimals.
type ResampleCache struct {
	source      image.Image
	srcSize     geometry.Size
	bitmaps     map[float64]image.Image
	renderables map[float64]Renderable
	factory     RenderableFactory
}

// NewResampleCache creates an empty cache.
func NewResampleCache(factory RenderableFactory) *ResampleCache {
	return &ResampleCache{
		bitmaps:     make(map[float64]image.Image),
		renderables: make(map[float64]Renderable),
		factory:     factory,
	}
}

// CacheKey collapses floating-point noise in an effective zoom into a single
// cache entry.
func CacheKey(zoom float64) float64 {
	return math.Round(zoom*1000) / 1000
}

// BitmapSizeFor returns the pixel dimensions of the bitmap for a source size
// and effective zoom: round(W*z) x round(H*z), rescaled proportionally when
// either axis would exceed the resolution ceiling.
func BitmapSizeFor(src geometry.Size, zoom float64) geometry.Size {
	size := src.ScaledBy(zoom)
	if size.Width > MaxBitmapWidth || size.Height > MaxBitmapHeight {
		ratio := math.Min(
			float64(MaxBitmapWidth)/float64(size.Width),
			float64(MaxBitmapHeight)/float64(size.Height),
		)
		size = size.ScaledBy(ratio)
	}
	if size.Width < 1 {
		size.Width = 1
	}
	if size.Height < 1 {
		size.Height = 1
	}
	return size
}

// SetSource replaces the source image and drops every cached entry.
func (c *ResampleCache) SetSource(img image.Image) {
	c.Invalidate()
	c.source = img
	if img != nil {
		c.srcSize = geometry.Size{
			Width:  img.Bounds().Dx(),
			Height: img.Bounds().Dy(),
		}
	} else {
		c.srcSize = geometry.Size{}
	}
}

// Bitmap returns the source resized by the effective zoom, producing it on
// first request and caching it. An effective zoom within tolerance of 1.0
// returns the unmodified source.
func (c *ResampleCache) Bitmap(zoom float64) image.Image {
	if c.source == nil {
		return nil
	}

	key := CacheKey(zoom)
	if bitmap, ok := c.bitmaps[key]; ok {
		return bitmap
	}

	var bitmap image.Image
	if math.Abs(zoom-1.0) < unityTolerance {
		bitmap = c.source
	} else {
		size := BitmapSizeFor(c.srcSize, zoom)
		bitmap = imaging.Resample(c.source, size.Width, size.Height)
	}

	if len(c.bitmaps) >= maxCachedBitmaps {
		delete(c.bitmaps, smallestKey(c.bitmaps))
	}
	c.bitmaps[key] = bitmap
	return bitmap
}

// Renderable returns the host paint handle for the effective zoom, creating
// and caching it on first request. Returns nil without a factory.
func (c *ResampleCache) Renderable(zoom float64) Renderable {
	if c.factory == nil || c.source == nil {
		return nil
	}

	key := CacheKey(zoom)
	if r, ok := c.renderables[key]; ok {
		return r
	}

	r := c.factory(c.Bitmap(zoom))
	if len(c.renderables) >= maxCachedRenderables {
		evict := smallestKey(c.renderables)
		c.renderables[evict].Release()
		delete(c.renderables, evict)
	}
	c.renderables[key] = r
	return r
}

// Invalidate drops every cached entry, releasing renderables immediately.
// Called when the base zoom changes or a new image is loaded.
func (c *ResampleCache) Invalidate() {
	for key, r := range c.renderables {
		r.Release()
		delete(c.renderables, key)
	}
	for key := range c.bitmaps {
		delete(c.bitmaps, key)
	}
}

// BitmapCount returns the number of cached bitmaps.
func (c *ResampleCache) BitmapCount() int { return len(c.bitmaps) }

// RenderableCount returns the number of cached renderables.
func (c *ResampleCache) RenderableCount() int { return len(c.renderables) }

// smallestKey returns the numerically smallest cache key: the most
// zoomed-out entry is the cheapest to rebuild.
func smallestKey[V any](m map[float64]V) float64 {
	smallest := math.Inf(1)
	for key := range m {
		if key < smallest {
			smallest = key
		}
	}
	return smallest
}
