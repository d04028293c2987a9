package card

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"runtime"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/javajack/swisskit"
)

const (
	// PreviewMaxSide bounds both sides of a preview image.
	PreviewMaxSide = 1200
	// ZipFileName is the suggested name of a RenderAll archive.
	ZipFileName = "player_cards.zip"
)

var (
	// ErrNoTemplate is returned when no template image was given.
	ErrNoTemplate = errors.New("no card template image")

	guideColor = color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	groupColor = color.NRGBA{R: 255, A: 255}
	black      = color.NRGBA{A: 255}
)

// FileName is the archive entry name of a player's card.
func FileName(playerID string) string {
	return fmt.Sprintf("player_card_#%s.png", playerID)
}

// LoadTemplate decodes a template image (PNG, JPEG, GIF, BMP or TIFF).
func LoadTemplate(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode card template: %w", err)
	}
	return img, nil
}

// Scale resizes the template. With both sides set the image is resized
// exactly; with one side set it is only shrunk, keeping its aspect ratio.
func Scale(img image.Image, s Size) image.Image {
	w, h := int(s.Width), int(s.Height)
	b := img.Bounds()
	switch {
	case w > 0 && h > 0:
		return imaging.Resize(img, w, h, imaging.Lanczos)
	case w > 0:
		return imaging.Fit(img, w, b.Dy(), imaging.Lanczos)
	case h > 0:
		return imaging.Fit(img, b.Dx(), h, imaging.Lanczos)
	}
	return img
}

// Renderer draws cards for one template image and config. It is immutable
// and safe for concurrent use.
type Renderer struct {
	template image.Image
	config   Config
	anchors  map[string]Anchor
	font     *Font
	tmpl     *swisskit.Context
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithFont overrides the font named in the config.
func WithFont(f *Font) RendererOption {
	return func(r *Renderer) { r.font = f }
}

// WithTemplateContext sets the context used to render block templates.
func WithTemplateContext(c *swisskit.Context) RendererOption {
	return func(r *Renderer) { r.tmpl = c }
}

// NewRenderer validates cfg and scales the template. When the configured
// font cannot be loaded the embedded font is used.
func NewRenderer(template image.Image, cfg Config, opts ...RendererOption) (*Renderer, error) {
	if template == nil {
		return nil, ErrNoTemplate
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Renderer{
		template: Scale(template, cfg.Settings.Scale),
		config:   cfg,
		anchors:  make(map[string]Anchor, len(cfg.Blocks)),
		tmpl:     swisskit.NewContext(),
	}
	for name, b := range cfg.Blocks {
		a, _ := ParseAnchor(b.Anchor)
		r.anchors[name] = a
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.font == nil {
		f, err := OpenFont(cfg.Settings.Font)
		if err != nil {
			f = DefaultFont()
		}
		r.font = f
	}
	return r, nil
}

// Bounds of the scaled template.
func (r *Renderer) Bounds() image.Rectangle {
	return r.template.Bounds()
}

// Render draws every block for row onto a copy of the template.
func (r *Renderer) Render(row swisskit.Row) (image.Image, error) {
	dc := gg.NewContextForImage(r.template)
	fs := newFaces(r.font)
	defer fs.Close()

	for _, name := range r.config.BlockNames() {
		if err := r.drawBlock(dc, fs, row, name); err != nil {
			return nil, fmt.Errorf("block %q: %w", name, err)
		}
	}
	return dc.Image(), nil
}

// RenderPNG renders row as PNG carrying the configured DPI.
func (r *Renderer) RenderPNG(w io.Writer, row swisskit.Row) error {
	img, err := r.Render(row)
	if err != nil {
		return err
	}
	return EncodePNG(w, img, r.config.Settings.DPI)
}

// RenderAll renders a card per row concurrently and writes them to w as a
// zip archive, in roster order.
func (r *Renderer) RenderAll(ctx context.Context, w io.Writer, rows swisskit.Roster) error {
	cards := make([][]byte, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := r.RenderPNG(&buf, row); err != nil {
				return fmt.Errorf("card for player %s: %w", row.Get(swisskit.FieldPlayerID), err)
			}
			cards[i] = buf.Bytes()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for i, row := range rows {
		f, err := zw.Create(FileName(row.Get(swisskit.FieldPlayerID)))
		if err != nil {
			return err
		}
		if _, err := f.Write(cards[i]); err != nil {
			return err
		}
	}
	return zw.Close()
}

// Preview draws the card for row, or the layout guides when row is nil, and
// returns it as JPEG no larger than PreviewMaxSide on either side.
func (r *Renderer) Preview(w io.Writer, row swisskit.Row) error {
	img, err := r.PreviewImage(row)
	if err != nil {
		return err
	}
	return imaging.Encode(w, img, imaging.JPEG)
}

// PreviewImage is Preview before JPEG encoding.
func (r *Renderer) PreviewImage(row swisskit.Row) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	if row == nil {
		img, err = r.guides()
	} else {
		img, err = r.Render(row)
	}
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	flat := imaging.New(b.Dx(), b.Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1)
	return imaging.Fit(flat, PreviewMaxSide, PreviewMaxSide, imaging.Lanczos), nil
}

func (r *Renderer) drawBlock(dc *gg.Context, fs *faces, row swisskit.Row, name string) error {
	b := r.config.Blocks[name]
	anchor := r.anchors[name]

	text, err := r.render(b.Template, row)
	if err != nil {
		return err
	}
	text = norm.NFC.String(text)
	if text == "" {
		return nil
	}

	fit, err := Fit(text, b, fs)
	if err != nil {
		return err
	}
	x, y := Center(dc.Width(), dc.Height(), fit.OffsetX, fit.OffsetY)
	left, baseline, box := Place(x, y, anchor, fit.Metrics)

	if b.Border.StrokeWeight > 0 {
		bb := BorderBox(box, anchor, b.Border)
		if b.Border.Fill != "" {
			if fill, err := ParseColor(r.renderOr(b.Border.Fill, row)); err == nil {
				dc.DrawRoundedRectangle(bb.X0, bb.Y0, bb.Width(), bb.Height(), b.Border.Radius)
				dc.SetColor(fill)
				dc.Fill()
			}
		}
		dc.DrawRoundedRectangle(bb.X0, bb.Y0, bb.Width(), bb.Height(), b.Border.Radius)
		dc.SetColor(colorOr(r.renderOr(b.Border.Color, row), black))
		dc.SetLineWidth(b.Border.StrokeWeight)
		dc.Stroke()
	}

	face, err := fs.face(fit.Size)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.SetColor(colorOr(r.renderOr(b.Color, row), black))
	dc.DrawString(text, left, baseline)
	return nil
}

// guides draws the center lines and one half-transparent box per block,
// sized to its maximum width at its maximum font size. Blocks sharing a
// group id are outlined together.
func (r *Renderer) guides() (image.Image, error) {
	dc := gg.NewContextForImage(r.template)
	w, h := float64(dc.Width()), float64(dc.Height())
	cx, cy := float64(dc.Width()/2), float64(dc.Height()/2)

	dc.SetColor(guideColor)
	dc.SetLineWidth(1)
	dc.DrawLine(0, cy, w, cy)
	dc.DrawLine(cx, 0, cx, h)
	dc.Stroke()

	fs := newFaces(r.font)
	defer fs.Close()

	type group struct {
		box   Rect
		count int
	}
	groups := make(map[string]*group)
	for _, name := range r.config.BlockNames() {
		b := r.config.Blocks[name]
		m, err := placeholder(fs, b, w)
		if err != nil {
			return nil, fmt.Errorf("block %q: %w", name, err)
		}
		x, y := Center(dc.Width(), dc.Height(), b.OffsetX, b.OffsetY)
		_, _, box := Place(x, y, r.anchors[name], m)

		c := previewColor(b.Color)
		dc.DrawRectangle(box.X0, box.Y0, box.Width(), box.Height())
		dc.SetColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 128})
		dc.FillPreserve()
		dc.SetColor(c)
		dc.SetLineWidth(1)
		dc.Stroke()

		if b.GroupID == "" {
			continue
		}
		if g, ok := groups[b.GroupID]; ok {
			g.box = g.box.Union(box)
			g.count++
		} else {
			groups[b.GroupID] = &group{box: box, count: 1}
		}
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		g := groups[id]
		if g.count < 2 {
			continue
		}
		dc.DrawRectangle(g.box.X0, g.box.Y0, g.box.Width(), g.box.Height())
		dc.SetColor(groupColor)
		dc.SetLineWidth(3)
		dc.Stroke()
	}
	return dc.Image(), nil
}

// placeholder measures a run of "A" just reaching the block's maximum width,
// never wider than limit.
func placeholder(m Measurer, b Block, limit float64) (Metrics, error) {
	width := min(b.MaxWidth, limit)
	var text strings.Builder
	for {
		met, err := m.Measure(text.String(), b.MaxFontSize)
		if err != nil || met.Width >= width {
			return met, err
		}
		text.WriteByte('A')
	}
}

// render fills a block template. A template that does not compile is drawn
// as written.
func (r *Renderer) render(tmpl string, row swisskit.Row) (string, error) {
	out, err := r.tmpl.Render(tmpl, row)
	if errors.Is(err, swisskit.ErrTemplateSyntax) {
		return tmpl, nil
	}
	return out, err
}

// renderOr renders tmpl and falls back to the literal on any error.
func (r *Renderer) renderOr(tmpl string, row swisskit.Row) string {
	out, err := r.render(tmpl, row)
	if err != nil {
		return tmpl
	}
	return out
}
