package card

import (
	"fmt"
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// hexColor finds the first hex color in a string.
var hexColor = regexp.MustCompile(`#(?:[A-Fa-f0-9]{8}|[A-Fa-f0-9]{6}|[A-Fa-f0-9]{4}|[A-Fa-f0-9]{3})\b`)

// ParseColor accepts #rgb, #rgba, #rrggbb, #rrggbbaa and SVG color names.
func ParseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		return nil, fmt.Errorf("invalid color %q", s)
	}

	rgb, alpha := s, "ff"
	switch len(s) {
	case 5:
		rgb, alpha = s[:4], strings.Repeat(s[4:], 2)
	case 9:
		rgb, alpha = s[:7], s[7:]
	}
	c, err := colorful.Hex(rgb)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", s, err)
	}
	a, err := strconv.ParseUint(alpha, 16, 8)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(a)}, nil
}

// colorOr parses s and returns def when it is not a color.
func colorOr(s string, def color.Color) color.Color {
	c, err := ParseColor(s)
	if err != nil {
		return def
	}
	return c
}

// previewColor is the first hex color found in s as an opaque color, or black.
func previewColor(s string) color.NRGBA {
	m := hexColor.FindString(s)
	if m == "" {
		return black
	}
	c, err := ParseColor(m)
	if err != nil {
		return black
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 255
	return n
}
