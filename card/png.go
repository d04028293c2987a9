package card

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/png"
	"io"
	"math"
)

// ihdrEnd is the offset just past the PNG signature and the IHDR chunk.
const ihdrEnd = 8 + 4 + 4 + 13 + 4

var errShortPNG = errors.New("png: encoded image too short")

// EncodePNG writes img as PNG and records the resolution in a pHYs chunk.
// A zero DPI leaves the chunk out.
func EncodePNG(w io.Writer, img image.Image, dpi Size) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	data := buf.Bytes()
	if dpi.Width <= 0 || dpi.Height <= 0 {
		_, err := w.Write(data)
		return err
	}
	if len(data) < ihdrEnd {
		return errShortPNG
	}

	if _, err := w.Write(data[:ihdrEnd]); err != nil {
		return err
	}
	if _, err := w.Write(physChunk(dpi)); err != nil {
		return err
	}
	_, err := w.Write(data[ihdrEnd:])
	return err
}

// physChunk encodes the resolution in pixels per meter.
func physChunk(dpi Size) []byte {
	body := make([]byte, 4+9)
	copy(body, "pHYs")
	binary.BigEndian.PutUint32(body[4:], pixelsPerMeter(dpi.Width))
	binary.BigEndian.PutUint32(body[8:], pixelsPerMeter(dpi.Height))
	body[12] = 1 // unit: meter

	chunk := make([]byte, 4, 4+len(body)+4)
	binary.BigEndian.PutUint32(chunk, 9)
	chunk = append(chunk, body...)
	return binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(body))
}

func pixelsPerMeter(dpi float64) uint32 {
	return uint32(math.Round(dpi / 0.0254))
}

// PNGResolution reads the pHYs chunk of an encoded PNG and returns the
// resolution in dots per inch. ok is false when the chunk is missing.
func PNGResolution(data []byte) (dpi Size, ok bool) {
	for i := 8; i+8 <= len(data); {
		n := int(binary.BigEndian.Uint32(data[i:]))
		typ := string(data[i+4 : i+8])
		if typ == "pHYs" && n == 9 && i+8+9 <= len(data) && data[i+16] == 1 {
			x := binary.BigEndian.Uint32(data[i+8:])
			y := binary.BigEndian.Uint32(data[i+12:])
			return Size{
				Width:  math.Round(float64(x) * 0.0254),
				Height: math.Round(float64(y) * 0.0254),
			}, true
		}
		if typ == "IDAT" {
			break
		}
		i += 12 + n
	}
	return Size{}, false
}
