package metadata

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// orientationNames maps EXIF orientation values to readable text.
var orientationNames = map[int]string{
	1: "Normal",
	2: "Mirrored horizontal",
	3: "Rotated 180°",
	4: "Mirrored vertical",
	5: "Mirrored horizontal, rotated 270°",
	6: "Rotated 90°",
	7: "Mirrored horizontal, rotated 90°",
	8: "Rotated 270°",
}

// cameraSettings are the exposure-related fields shown in their own
// subsection, in display order.
var cameraSettings = []exif.FieldName{
	exif.ExposureTime,
	exif.FNumber,
	exif.ISOSpeedRatings,
	exif.ShutterSpeedValue,
	exif.ApertureValue,
	exif.FocalLength,
	exif.SubjectDistance,
	exif.ExposureMode,
	exif.WhiteBalance,
}

// maxOtherTags limits how many uncategorized EXIF tags are listed.
const maxOtherTags = 20

// DecodeEXIF parses the EXIF block from encoded image bytes. Returns
// nil without error when the image carries no EXIF data.
func DecodeEXIF(raw []byte) *exif.Exif {
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil
	}
	return x
}

// tagValue renders a tag value without the quoting tiff.Tag.String adds
// to ASCII values, truncated for display.
func tagValue(tag *tiff.Tag) string {
	if tag == nil {
		return ""
	}
	if s, err := tag.StringVal(); err == nil {
		return strings.TrimSpace(s)
	}
	s := strings.Trim(tag.String(), `"`)
	if len(s) > 50 {
		s = s[:47] + "..."
	}
	return s
}

func fieldValue(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	return tagValue(tag)
}

// otherTagWalker collects tags not covered by the named sections.
type otherTagWalker struct {
	skip  map[exif.FieldName]bool
	lines []string
}

func (w *otherTagWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if w.skip[name] {
		return nil
	}
	if v := tagValue(tag); v != "" {
		w.lines = append(w.lines, fmt.Sprintf("  %s: %s", name, v))
	}
	return nil
}

// formatEXIF renders the EXIF section lines for the metadata panel.
func formatEXIF(x *exif.Exif) []string {
	var lines []string

	maker := fieldValue(x, exif.Make)
	model := fieldValue(x, exif.Model)
	if maker != "" || model != "" {
		lines = append(lines, "Camera: "+strings.TrimSpace(maker+" "+model))
	}
	if dt := fieldValue(x, exif.DateTime); dt != "" {
		lines = append(lines, "Date/Time: "+dt)
	}

	if lat, long, err := x.LatLong(); err == nil {
		lines = append(lines, "", "--- GPS Info ---")
		lines = append(lines, fmt.Sprintf("  Latitude: %.6f", lat))
		lines = append(lines, fmt.Sprintf("  Longitude: %.6f", long))
	}

	var settings []string
	for _, name := range cameraSettings {
		if v := fieldValue(x, name); v != "" {
			settings = append(settings, fmt.Sprintf("  %s: %s", name, v))
		}
	}
	if len(settings) > 0 {
		lines = append(lines, "", "--- Camera Settings ---")
		lines = append(lines, settings...)
	}

	if tag, err := x.Get(exif.Orientation); err == nil {
		if o, err := tag.Int(0); err == nil {
			name, ok := orientationNames[o]
			if !ok {
				name = fmt.Sprintf("%d", o)
			}
			lines = append(lines, "  Orientation: "+name)
		}
	}
	if sw := fieldValue(x, exif.Software); sw != "" {
		lines = append(lines, "Software: "+sw)
	}

	skip := map[exif.FieldName]bool{
		exif.Make:        true,
		exif.Model:       true,
		exif.DateTime:    true,
		exif.Orientation: true,
		exif.Software:    true,
	}
	for _, name := range cameraSettings {
		skip[name] = true
	}
	walker := &otherTagWalker{skip: skip}
	_ = x.Walk(walker)
	if len(walker.lines) > 0 {
		lines = append(lines, "", "--- Other EXIF Tags ---")
		if len(walker.lines) > maxOtherTags {
			lines = append(lines, walker.lines[:maxOtherTags]...)
			lines = append(lines, fmt.Sprintf("  ... and %d more tags", len(walker.lines)-maxOtherTags))
		} else {
			lines = append(lines, walker.lines...)
		}
	}

	return lines
}
