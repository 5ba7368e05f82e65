package metadata

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"pixelview/internal/imaging"
)

const sampleXMP = `<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description rdf:about=""
    xmlns:dc="http://purl.org/dc/elements/1.1/"
    xmlns:xmp="http://ns.adobe.com/xap/1.0/"
    xmp:CreatorTool="TestTool 1.0">
   <dc:title>
    <rdf:Alt>
     <rdf:li xml:lang="x-default">Harbor at Dusk</rdf:li>
    </rdf:Alt>
   </dc:title>
   <dc:rights>
    <rdf:Alt>
     <rdf:li xml:lang="x-default">© 2024 Example Studio</rdf:li>
    </rdf:Alt>
   </dc:rights>
  </rdf:Description>
 </rdf:RDF>
</x:xmpmeta>`

func TestExtractXMPPacket(t *testing.T) {
	raw := append([]byte("JFIF junk before "), []byte(sampleXMP)...)
	raw = append(raw, []byte(" trailing bytes")...)

	packet := ExtractXMPPacket(raw)
	if packet == nil {
		t.Fatal("expected a packet")
	}
	if !bytes.HasPrefix(packet, []byte("<x:xmpmeta")) || !bytes.HasSuffix(packet, []byte("</x:xmpmeta>")) {
		t.Errorf("packet boundaries wrong: %q", packet)
	}

	if ExtractXMPPacket([]byte("no xml here")) != nil {
		t.Error("expected nil for data without a packet")
	}
	if ExtractXMPPacket([]byte("<x:xmpmeta unterminated")) != nil {
		t.Error("expected nil for an unterminated packet")
	}
}

func TestParseXMP(t *testing.T) {
	lines := ParseXMP([]byte(sampleXMP))
	joined := strings.Join(lines, "\n")

	for _, want := range []string{
		"Title: Harbor at Dusk",
		"Rights: © 2024 Example Studio",
		"Creator Tool: TestTool 1.0",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing %q in:\n%s", want, joined)
		}
	}
}

func TestParseXMPEmpty(t *testing.T) {
	lines := ParseXMP([]byte(`<x:xmpmeta xmlns:x="adobe:ns:meta/"></x:xmpmeta>`))
	if len(lines) != 0 {
		t.Errorf("expected no lines, got %v", lines)
	}
}

func TestComputeLuminanceStats(t *testing.T) {
	// Half black, half white: mean 127.5, min 0, max 255.
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if x >= 5 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	stats := ComputeLuminanceStats(img)
	if stats == nil {
		t.Fatal("expected stats")
	}
	if stats.Samples != 100 {
		t.Errorf("Samples = %d, want 100", stats.Samples)
	}
	if stats.Min != 0 || stats.Max != 255 {
		t.Errorf("Min/Max = %v/%v, want 0/255", stats.Min, stats.Max)
	}
	if math.Abs(stats.Mean-127.5) > 0.01 {
		t.Errorf("Mean = %v, want 127.5", stats.Mean)
	}
	if stats.StdDev <= 0 {
		t.Errorf("StdDev = %v, want > 0", stats.StdDev)
	}
}

func TestComputeLuminanceStatsNil(t *testing.T) {
	if ComputeLuminanceStats(nil) != nil {
		t.Error("expected nil stats for nil image")
	}
	if ComputeLuminanceStats(image.NewRGBA(image.Rect(0, 0, 0, 0))) != nil {
		t.Error("expected nil stats for empty image")
	}
}

func encodeTestPNG(t *testing.T, w, h int) *imaging.Source {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	src, err := imaging.Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return src
}

func TestDescribe(t *testing.T) {
	src := encodeTestPNG(t, 32, 24)
	src.Path = "sample.png"

	text := Describe(src)
	for _, want := range []string{
		"=== Basic Image Info ===",
		"Format: PNG",
		"Size: 32x24",
		"=== Image Structure ===",
		"Luminance:",
		"No XMP metadata found",
		"=== File Hash ===",
		"MD5: " + src.MD5,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in report:\n%s", want, text)
		}
	}
}

func TestDescribeNoImage(t *testing.T) {
	if got := Describe(nil); got != "No image loaded" {
		t.Errorf("Describe(nil) = %q", got)
	}
	if got := Describe(&imaging.Source{}); got != "No image loaded" {
		t.Errorf("Describe(empty) = %q", got)
	}
}

func TestDetectWatermark(t *testing.T) {
	src := encodeTestPNG(t, 4, 4)
	if got := DetectWatermark(src); got != "None detected" {
		t.Errorf("clean image: got %q", got)
	}

	// A packet carrying dc:rights marks the image.
	src.Raw = append(src.Raw, []byte(sampleXMP)...)
	if got := DetectWatermark(src); !strings.Contains(got, "Copyright marked in XMP") {
		t.Errorf("rights packet: got %q", got)
	}
}
