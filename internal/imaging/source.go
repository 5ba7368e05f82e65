// Package imaging provides image loading, color-mode classification, and
// high-quality resampling for the viewer.
package imaging

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"pixelview/pkg/geometry"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Mode describes the color mode of a source image.
type Mode int

const (
	ModeUnknown Mode = iota
	ModeGray
	ModeRGB
	ModeRGBA
	ModePaletted
)

func (m Mode) String() string {
	switch m {
	case ModeGray:
		return "Grayscale"
	case ModeRGB:
		return "RGB"
	case ModeRGBA:
		return "RGBA"
	case ModePaletted:
		return "Paletted"
	default:
		return "Unknown"
	}
}

// Source is an immutable decoded image plus its provenance. It is replaced
// wholesale when a new image is loaded or a generation succeeds, never
// mutated in place.
type Source struct {
	Image  image.Image
	Format string // decoder name: "png", "jpeg", "tiff", ...
	Mode   Mode

	// Raw holds the encoded bytes the image was decoded from; metadata
	// parsing and generation requests read from it.
	Raw []byte

	// Provenance. Path is set for local files, URL for downloads.
	Path string
	URL  string

	// Raw byte size and MD5 of the encoded data, for the metadata panel.
	ByteSize int64
	MD5      string

	// DPI from TIFF resolution tags, 0 if unknown.
	DPI float64
}

// Load reads and decodes an image file from disk.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	src, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	src.Path = path

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".tiff" || ext == ".tif" {
		if dpi, err := tiffDPI(bytes.NewReader(data)); err == nil {
			src.DPI = dpi
		}
	}

	return src, nil
}

// Decode decodes raw image bytes into a Source. The bytes may come from a
// file, a download, or a generation response.
func Decode(data []byte) (*Source, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return &Source{
		Image:    img,
		Format:   format,
		Mode:     classifyMode(img),
		Raw:      data,
		ByteSize: int64(len(data)),
		MD5:      fmt.Sprintf("%x", md5.Sum(data)),
	}, nil
}

// Width returns the image width in pixels, 0 if no image is loaded.
func (s *Source) Width() int {
	if s == nil || s.Image == nil {
		return 0
	}
	return s.Image.Bounds().Dx()
}

// Height returns the image height in pixels, 0 if no image is loaded.
func (s *Source) Height() int {
	if s == nil || s.Image == nil {
		return 0
	}
	return s.Image.Bounds().Dy()
}

// Size returns the image dimensions.
func (s *Source) Size() geometry.Size {
	return geometry.Size{Width: s.Width(), Height: s.Height()}
}

// Valid reports whether the source holds a decodable, non-empty image.
func (s *Source) Valid() bool {
	return s != nil && s.Image != nil && s.Width() > 0 && s.Height() > 0
}

// DisplayName returns the URL for downloaded images, otherwise the path.
func (s *Source) DisplayName() string {
	if s == nil {
		return ""
	}
	if s.URL != "" {
		return s.URL
	}
	return s.Path
}

// PixelAt returns the color at the given pixel coordinates. Coordinates are
// clamped to the image bounds; they routinely fall outside during normal
// mouse movement.
func (s *Source) PixelAt(x, y int) color.Color {
	if !s.Valid() {
		return color.Black
	}
	bounds := s.Image.Bounds()
	x = geometry.ClampInt(x+bounds.Min.X, bounds.Min.X, bounds.Max.X-1)
	y = geometry.ClampInt(y+bounds.Min.Y, bounds.Min.Y, bounds.Max.Y-1)
	return s.Image.At(x, y)
}

// classifyMode maps a decoded image's color model to a viewer Mode.
func classifyMode(img image.Image) Mode {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return ModeGray
	case *image.Paletted:
		return ModePaletted
	case *image.CMYK, *image.YCbCr:
		return ModeRGB
	case *image.NRGBA, *image.NRGBA64, *image.RGBA, *image.RGBA64:
		if opaque, ok := img.(interface{ Opaque() bool }); ok && opaque.Opaque() {
			return ModeRGB
		}
		return ModeRGBA
	default:
		return ModeUnknown
	}
}

// SupportedFormats returns the list of supported image file extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".tiff", ".tif", ".bmp", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
