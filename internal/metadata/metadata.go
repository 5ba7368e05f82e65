// Package metadata extracts and formats image metadata: file details,
// structure, luminance statistics, EXIF, XMP and watermark hints.
package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"pixelview/internal/imaging"
)

// Describe renders the full metadata report for a loaded image as the
// text shown in the metadata panel.
func Describe(src *imaging.Source) string {
	if src == nil || !src.Valid() {
		return "No image loaded"
	}

	var lines []string

	lines = append(lines, "=== Basic Image Info ===")
	format := src.Format
	if format == "" {
		format = "Unknown"
	}
	lines = append(lines, "Format: "+strings.ToUpper(format))
	lines = append(lines, "Mode: "+src.Mode.String())
	lines = append(lines, fmt.Sprintf("Size: %dx%d", src.Width(), src.Height()))
	lines = append(lines, "File: "+src.DisplayName())

	if src.URL != "" {
		lines = append(lines, "Source: Internet URL")
		lines = append(lines, fmt.Sprintf("Downloaded Size: %d bytes (%.2f KB)",
			src.ByteSize, float64(src.ByteSize)/1024))
	} else if src.Path != "" {
		if info, err := os.Stat(src.Path); err == nil {
			lines = append(lines, fmt.Sprintf("File Size: %d bytes (%.2f KB)",
				info.Size(), float64(info.Size())/1024))
			lines = append(lines, "Modified: "+info.ModTime().Format("2006-01-02 15:04:05"))
		}
		if abs, err := filepath.Abs(src.Path); err == nil {
			lines = append(lines, "Path: "+abs)
		}
	}

	lines = append(lines, "", "=== Image Structure ===")
	if src.DPI > 0 {
		lines = append(lines, fmt.Sprintf("DPI: %.0fx%.0f", src.DPI, src.DPI))
	} else {
		lines = append(lines, "DPI: unknown")
	}
	if stats := ComputeLuminanceStats(src.Image); stats != nil {
		lines = append(lines, fmt.Sprintf("Luminance: min %.1f, max %.1f, mean %.1f, stddev %.1f (%d samples)",
			stats.Min, stats.Max, stats.Mean, stats.StdDev, stats.Samples))
	}

	x := DecodeEXIF(src.Raw)
	if x != nil {
		lines = append(lines, "", "=== EXIF Data ===")
		lines = append(lines, formatEXIF(x)...)
	}

	lines = append(lines, "", "=== XMP Metadata ===")
	if packet := ExtractXMPPacket(src.Raw); packet != nil {
		parsed := ParseXMP(packet)
		if len(parsed) == 0 {
			lines = append(lines, "XMP data present but structure unclear")
			lines = append(lines, fmt.Sprintf("Total XML size: %d characters", len(packet)))
		}
		for _, l := range parsed {
			lines = append(lines, "  "+l)
		}
	} else {
		lines = append(lines, "No XMP metadata found")
	}

	if src.MD5 != "" {
		lines = append(lines, "", "=== File Hash ===")
		lines = append(lines, "MD5: "+src.MD5)
	}

	return strings.Join(lines, "\n")
}

// DetectWatermark inspects EXIF and XMP for copyright or authorship
// markers. Returns "None detected" when nothing is found.
func DetectWatermark(src *imaging.Source) string {
	if src == nil || !src.Valid() {
		return "None detected"
	}

	var found []string
	if x := DecodeEXIF(src.Raw); x != nil {
		if c := fieldValue(x, exif.Copyright); c != "" {
			found = append(found, "Copyright: "+c)
		}
		if a := fieldValue(x, exif.Artist); a != "" {
			found = append(found, "Artist: "+a)
		}
	}

	if packet := ExtractXMPPacket(src.Raw); packet != nil {
		text := strings.ToLower(string(packet))
		if strings.Contains(text, "xmprights:marked") || strings.Contains(text, "dc:rights") {
			found = append(found, "Copyright marked in XMP")
		} else if strings.Contains(text, "watermark") {
			found = append(found, "Watermark metadata detected")
		}
	}

	if len(found) == 0 {
		return "None detected"
	}
	if len(found) > 2 {
		found = found[:2]
	}
	return strings.Join(found, " | ")
}
