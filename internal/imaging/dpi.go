package imaging

import (
	"encoding/binary"
	"fmt"
	"io"
)

// TIFF tag IDs for resolution metadata.
const (
	tagXResolution    = 282
	tagYResolution    = 283
	tagResolutionUnit = 296
)

// tiffDPI reads the resolution tags from a TIFF stream. The stdlib decoder
// discards them, so the IFD is walked directly.
func tiffDPI(r io.ReadSeeker) (float64, error) {
	header := make([]byte, 8)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, err
	}

	var order binary.ByteOrder
	switch {
	case header[0] == 'I' && header[1] == 'I':
		order = binary.LittleEndian
	case header[0] == 'M' && header[1] == 'M':
		order = binary.BigEndian
	default:
		return 0, fmt.Errorf("not a valid TIFF file")
	}

	ifdOffset := order.Uint32(header[4:8])
	if _, err := r.Seek(int64(ifdOffset), io.SeekStart); err != nil {
		return 0, err
	}

	var numEntries uint16
	if err := binary.Read(r, order, &numEntries); err != nil {
		return 0, err
	}

	var xRes, yRes float64
	resUnit := uint16(2) // inches unless the file says otherwise

	entry := make([]byte, 12)
	for i := uint16(0); i < numEntries; i++ {
		if _, err := io.ReadFull(r, entry); err != nil {
			return 0, err
		}

		tag := order.Uint16(entry[0:2])
		fieldType := order.Uint16(entry[2:4])
		valueOffset := order.Uint32(entry[8:12])

		switch tag {
		case tagXResolution:
			if fieldType == 5 { // RATIONAL
				xRes = readRational(r, int64(valueOffset), order)
			}
		case tagYResolution:
			if fieldType == 5 {
				yRes = readRational(r, int64(valueOffset), order)
			}
		case tagResolutionUnit:
			if fieldType == 3 { // SHORT
				resUnit = uint16(valueOffset)
			}
		}
	}

	dpi := xRes
	if dpi == 0 {
		dpi = yRes
	}
	if resUnit == 3 { // centimeters
		dpi *= 2.54
	}
	if dpi == 0 {
		return 0, fmt.Errorf("no resolution tags found")
	}
	return dpi, nil
}

// readRational reads a RATIONAL value (two uint32s) at offset, preserving
// the current stream position.
func readRational(r io.ReadSeeker, offset int64, order binary.ByteOrder) float64 {
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0
	}
	defer r.Seek(pos, io.SeekStart)

	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return 0
	}
	var num, denom uint32
	if err := binary.Read(r, order, &num); err != nil {
		return 0
	}
	if err := binary.Read(r, order, &denom); err != nil {
		return 0
	}
	if denom == 0 {
		return 0
	}
	return float64(num) / float64(denom)
}
