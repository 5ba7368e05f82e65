package metadata

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"

	"pixelview/pkg/colorutil"
)

// maxStatSamples caps how many pixels the luminance statistics read so
// the metadata panel stays responsive on very large images.
const maxStatSamples = 100000

// LuminanceStats summarizes the brightness distribution of an image.
// Values are Rec. 601 luma in the range [0, 255].
type LuminanceStats struct {
	Min     float64
	Max     float64
	Mean    float64
	StdDev  float64
	Samples int
}

// ComputeLuminanceStats samples the image on a uniform grid and returns
// luminance statistics. Returns nil for a nil or empty image.
func ComputeLuminanceStats(img image.Image) *LuminanceStats {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	total := b.Dx() * b.Dy()
	if total <= 0 {
		return nil
	}

	// Pick a stride so both axes contribute roughly sqrt(maxStatSamples)
	// samples each.
	stride := 1
	if total > maxStatSamples {
		stride = int(math.Ceil(math.Sqrt(float64(total) / float64(maxStatSamples))))
	}

	samples := make([]float64, 0, total/(stride*stride)+1)
	minL, maxL := math.MaxFloat64, -math.MaxFloat64
	for y := b.Min.Y; y < b.Max.Y; y += stride {
		for x := b.Min.X; x < b.Max.X; x += stride {
			l := colorutil.Luminance(img.At(x, y))
			samples = append(samples, l)
			if l < minL {
				minL = l
			}
			if l > maxL {
				maxL = l
			}
		}
	}
	if len(samples) == 0 {
		return nil
	}

	return &LuminanceStats{
		Min:     minL,
		Max:     maxL,
		Mean:    stat.Mean(samples, nil),
		StdDev:  stat.StdDev(samples, nil),
		Samples: len(samples),
	}
}
