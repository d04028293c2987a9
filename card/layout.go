package card

import (
	"errors"
	"fmt"
	"math"
)

// ErrAnchor reports an anchor that is not two valid letters.
var ErrAnchor = errors.New("invalid anchor")

// Anchor positions text relative to its point: Horizontal is one of l, m, r
// (left, middle, right) and Vertical one of a, t, m, s, b, d (ascender, top,
// middle, baseline, bottom, descender).
type Anchor struct {
	Horizontal byte
	Vertical   byte
}

// ParseAnchor parses anchors such as "mm", "la" or "rs".
func ParseAnchor(s string) (Anchor, error) {
	if len(s) != 2 {
		return Anchor{}, fmt.Errorf("%w %q", ErrAnchor, s)
	}
	a := Anchor{Horizontal: s[0], Vertical: s[1]}
	switch a.Horizontal {
	case 'l', 'm', 'r':
	default:
		return Anchor{}, fmt.Errorf("%w %q: horizontal must be l, m or r", ErrAnchor, s)
	}
	switch a.Vertical {
	case 'a', 't', 'm', 's', 'b', 'd':
	default:
		return Anchor{}, fmt.Errorf("%w %q: vertical must be a, t, m, s, b or d", ErrAnchor, s)
	}
	return a, nil
}

// Metrics describes a piece of text set at one size. Distances are positive
// and measured from the baseline.
type Metrics struct {
	Width     float64 // advance width
	Ascent    float64 // baseline to ascender line
	Descent   float64 // baseline to descender line
	InkTop    float64 // baseline to top of the drawn glyphs
	InkBottom float64 // baseline to bottom of the drawn glyphs
}

// Measurer sets text at a font size.
type Measurer interface {
	Measure(text string, size float64) (Metrics, error)
}

// Rect is an axis-aligned box, X0/Y0 top-left.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Width of the rect.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height of the rect.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Union returns the smallest rect covering r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		X0: math.Min(r.X0, o.X0),
		Y0: math.Min(r.Y0, o.Y0),
		X1: math.Max(r.X1, o.X1),
		Y1: math.Max(r.Y1, o.Y1),
	}
}

// Fitted is the outcome of shrinking a block's text to its width.
type Fitted struct {
	Size    float64
	OffsetX float64
	OffsetY float64
	Metrics Metrics
}

// Fit starts at the block's maximum font size and steps down one point at
// a time while the text is at least as wide as the allowed width. Every
// step also scales the allowed width and the offsets by the block's
// compensation factors. The size never drops below 1.
func Fit(text string, b Block, m Measurer) (Fitted, error) {
	f := Fitted{Size: b.MaxFontSize, OffsetX: b.OffsetX, OffsetY: b.OffsetY}
	if f.Size < 1 {
		f.Size = 1
	}
	maxWidth := b.MaxWidth

	met, err := m.Measure(text, f.Size)
	if err != nil {
		return Fitted{}, err
	}
	for met.Width >= maxWidth && f.Size > 1 {
		f.Size--
		maxWidth *= compensate(b.MaxWidthCompensate)
		f.OffsetX *= compensate(b.OffsetXCompensate)
		f.OffsetY *= compensate(b.OffsetYCompensate)
		if met, err = m.Measure(text, f.Size); err != nil {
			return Fitted{}, err
		}
	}
	f.Metrics = met
	return f, nil
}

// compensate treats an unset factor as 1.
func compensate(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// Center is the anchor point of a block on a w×h image.
func Center(w, h int, offsetX, offsetY float64) (float64, float64) {
	return float64(w/2) + offsetX, float64(h/2) + offsetY
}

// Place returns the drawing origin (left edge, baseline) and the bounding
// box of text anchored at (x, y).
func Place(x, y float64, a Anchor, m Metrics) (left, baseline float64, box Rect) {
	switch a.Horizontal {
	case 'l':
		left = x
	case 'r':
		left = x - m.Width
	default:
		left = x - m.Width/2
	}
	switch a.Vertical {
	case 'a':
		baseline = y + m.Ascent
	case 't':
		baseline = y + m.InkTop
	case 's':
		baseline = y
	case 'b':
		baseline = y - m.InkBottom
	case 'd':
		baseline = y - m.Descent
	default:
		baseline = y + (m.Ascent-m.Descent)/2
	}
	box = Rect{X0: left, Y0: baseline - m.InkTop, X1: left + m.Width, Y1: baseline + m.InkBottom}
	return left, baseline, box
}

// BorderBox grows a text box by the border padding, then to the minimum
// size. Extra width goes right for left anchors, left for right anchors and
// to both sides otherwise; extra height goes down for top anchors, up for
// bottom anchors and to both sides otherwise.
func BorderBox(text Rect, a Anchor, b Border) Rect {
	box := Rect{
		X0: text.X0 - b.Padding.Left,
		Y0: text.Y0 - b.Padding.Top,
		X1: text.X1 + b.Padding.Right,
		Y1: text.Y1 + b.Padding.Bottom,
	}

	if b.MinWidth > 0 && box.Width() < b.MinWidth {
		grow := b.MinWidth - box.Width()
		switch a.Horizontal {
		case 'l':
			box.X1 += grow
		case 'r':
			box.X0 -= grow
		default:
			cx := math.Floor((box.X0 + box.X1) / 2)
			half := math.Floor(b.MinWidth / 2)
			box.X0 = cx - half
			box.X1 = cx + (b.MinWidth - half)
		}
	}
	if b.MinHeight > 0 && box.Height() < b.MinHeight {
		grow := b.MinHeight - box.Height()
		switch a.Vertical {
		case 't':
			box.Y1 += grow
		case 'b':
			box.Y0 -= grow
		default:
			cy := math.Floor((box.Y0 + box.Y1) / 2)
			half := math.Floor(b.MinHeight / 2)
			box.Y0 = cy - half
			box.Y1 = cy + (b.MinHeight - half)
		}
	}
	return box
}
