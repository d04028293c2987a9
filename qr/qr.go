// Package qr renders QR codes as images with configurable module size,
// quiet zone and colors.
package qr

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/colornames"
)

// MaxVersion is the largest QR version.
const MaxVersion = 40

// DefaultBoxSize is the module size in pixels when none is given.
const DefaultBoxSize = 20

var (
	// ErrEmptyText is returned when there is nothing to encode.
	ErrEmptyText = errors.New("qr: empty text")
	// ErrVersion is returned for versions outside 0..40.
	ErrVersion = errors.New("qr: version must be between 0 and 40")
)

// Options controls the rendered image. Zero values select the defaults:
// automatic version, 20px modules, no quiet zone, black on white.
type Options struct {
	Version         int    `json:"version"`
	BoxSize         int    `json:"boxSize"`
	Border          int    `json:"border"`
	Fill            string `json:"fill"`
	Back            string `json:"back"`
	FillTransparent bool   `json:"fillTransparent"`
	BackTransparent bool   `json:"backTransparent"`
}

func (o Options) boxSize() int {
	if o.BoxSize <= 0 {
		return DefaultBoxSize
	}
	return o.BoxSize
}

func (o Options) border() int {
	if o.Border <= 0 {
		return 0
	}
	return o.Border
}

func (o Options) colors() (fill, back color.Color, err error) {
	fill, back = color.Transparent, color.Transparent
	if !o.FillTransparent {
		if fill, err = parseColor(o.Fill, color.Black); err != nil {
			return nil, nil, err
		}
	}
	if !o.BackTransparent {
		if back, err = parseColor(o.Back, color.White); err != nil {
			return nil, nil, err
		}
	}
	return fill, back, nil
}

func parseColor(s string, def color.Color) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("qr: invalid color %q", s)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// Matrix returns the module grid for text at error correction level H. A
// forced version too small for the text is grown until it fits.
func Matrix(text string, version int) ([][]bool, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if version < 0 || version > MaxVersion {
		return nil, ErrVersion
	}

	var (
		code *qrcode.QRCode
		err  error
	)
	if version > 0 {
		code, err = qrcode.NewWithForcedVersion(text, version, qrcode.Highest)
	}
	if version == 0 || err != nil {
		code, err = qrcode.New(text, qrcode.Highest)
	}
	if err != nil {
		return nil, fmt.Errorf("qr: %w", err)
	}
	code.DisableBorder = true
	return code.Bitmap(), nil
}

// Encode draws the QR code for text.
func Encode(text string, opts Options) (image.Image, error) {
	modules, err := Matrix(text, opts.Version)
	if err != nil {
		return nil, err
	}
	fill, back, err := opts.colors()
	if err != nil {
		return nil, err
	}

	box, border := opts.boxSize(), opts.border()
	side := (len(modules) + 2*border) * box
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	for y := 0; y < side; y++ {
		my := y/box - border
		for x := 0; x < side; x++ {
			mx := x/box - border
			c := back
			if my >= 0 && my < len(modules) && mx >= 0 && mx < len(modules) && modules[my][mx] {
				c = fill
			}
			img.Set(x, y, c)
		}
	}
	return img, nil
}

// PNG writes the QR code for text as PNG.
func PNG(w io.Writer, text string, opts Options) error {
	img, err := Encode(text, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// DataURI returns the PNG as a data: URI.
func DataURI(text string, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := PNG(&buf, text, opts); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
