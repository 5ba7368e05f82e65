package metadata

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// XMP namespaces commonly seen in embedded packets.
const (
	nsRDF        = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	nsDC         = "http://purl.org/dc/elements/1.1/"
	nsXMP        = "http://ns.adobe.com/xap/1.0/"
	nsXMPRights  = "http://ns.adobe.com/xap/1.0/rights/"
	nsPhotoshop  = "http://ns.adobe.com/photoshop/1.0/"
	nsTIFF       = "http://ns.adobe.com/tiff/1.0/"
	nsEXIF       = "http://ns.adobe.com/exif/1.0/"
)

// xmpField maps a namespaced XMP property to its display label.
type xmpField struct {
	space, local string
}

// Labels follow the conventional Adobe property names.
var xmpLabels = map[xmpField]string{
	{nsDC, "title"}:            "Title",
	{nsDC, "description"}:      "Description",
	{nsDC, "creator"}:          "Creator",
	{nsDC, "subject"}:          "Subject",
	{nsDC, "rights"}:           "Rights",
	{nsXMP, "CreateDate"}:      "Create Date",
	{nsXMP, "ModifyDate"}:      "Modify Date",
	{nsXMP, "MetadataDate"}:    "Metadata Date",
	{nsXMP, "CreatorTool"}:     "Creator Tool",
	{nsXMP, "Rating"}:          "Rating",
	{nsXMPRights, "Marked"}:    "Copyrighted",
	{nsXMPRights, "WebStatement"}: "Copyright URL",
	{nsPhotoshop, "AuthorsPosition"}: "Author Position",
	{nsPhotoshop, "CaptionWriter"}:   "Caption Writer",
	{nsPhotoshop, "Category"}:        "Category",
	{nsPhotoshop, "City"}:            "City",
	{nsPhotoshop, "Country"}:         "Country",
	{nsPhotoshop, "Credit"}:          "Credit",
	{nsPhotoshop, "DateCreated"}:     "Date Created",
	{nsPhotoshop, "Headline"}:        "Headline",
	{nsPhotoshop, "Instructions"}:    "Instructions",
	{nsPhotoshop, "Source"}:          "Source",
	{nsPhotoshop, "State"}:           "State",
	{nsPhotoshop, "TransmissionReference"}: "Transmission Reference",
	{nsTIFF, "Make"}:     "Camera Make",
	{nsTIFF, "Model"}:    "Camera Model",
	{nsTIFF, "Software"}: "Software",
	{nsEXIF, "DateTimeOriginal"}: "Date Time Original",
	{nsEXIF, "ExposureTime"}:     "Exposure Time",
	{nsEXIF, "FNumber"}:          "F-Number",
	{nsEXIF, "ISOSpeedRatings"}:  "ISO Speed",
	{nsEXIF, "FocalLength"}:      "Focal Length",
}

// ExtractXMPPacket scans encoded image bytes for an embedded XMP packet
// and returns it, or nil if none is present. Works for JPEG, PNG and
// TIFF containers since the packet is stored as literal XML text.
func ExtractXMPPacket(raw []byte) []byte {
	start := bytes.Index(raw, []byte("<x:xmpmeta"))
	if start < 0 {
		return nil
	}
	end := bytes.Index(raw[start:], []byte("</x:xmpmeta>"))
	if end < 0 {
		return nil
	}
	return raw[start : start+end+len("</x:xmpmeta>")]
}

// ParseXMP extracts the known XMP properties from a packet and returns
// "Label: value" lines in document order. Unknown properties found as
// rdf:Description attributes are included when no known field matched.
func ParseXMP(packet []byte) []string {
	var lines []string
	seen := make(map[string]bool)
	add := func(label, value string) {
		value = strings.TrimSpace(value)
		if value == "" || seen[label] {
			return
		}
		seen[label] = true
		lines = append(lines, fmt.Sprintf("%s: %s", label, value))
	}

	var fallback []string
	dec := xml.NewDecoder(bytes.NewReader(packet))
	pending := ""
	pendingName := xml.Name{}
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Space == nsRDF && el.Name.Local == "Description" {
				for _, attr := range el.Attr {
					key := xmpField{attr.Name.Space, attr.Name.Local}
					if label, ok := xmpLabels[key]; ok {
						add(label, attr.Value)
					} else if attr.Name.Space != "xmlns" && len(attr.Value) < 100 {
						fallback = append(fallback, fmt.Sprintf("%s: %s", attr.Name.Local, attr.Value))
					}
				}
				continue
			}
			key := xmpField{el.Name.Space, el.Name.Local}
			if label, ok := xmpLabels[key]; ok {
				pending = label
				pendingName = el.Name
			}
		case xml.CharData:
			if pending != "" {
				if text := strings.TrimSpace(string(el)); text != "" {
					add(pending, text)
					pending = ""
				}
			}
		case xml.EndElement:
			if pending != "" && el.Name == pendingName {
				pending = ""
			}
		}
	}

	if len(lines) == 0 {
		lines = fallback
	}
	return lines
}
