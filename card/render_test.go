package card

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajack/swisskit"
)

func whiteTemplate(w, h int) image.Image {
	return imaging.New(w, h, color.White)
}

func testRow(id string) swisskit.Row {
	return swisskit.Row{
		"PlayerUniqueId": id,
		"Lastname":       "Novak",
		"Firstname":      "Jana",
		"Club":           "ŠK Dukla",
		"Group":          "A",
	}
}

func countNonWhite(img image.Image) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r != 0xffff || g != 0xffff || bl != 0xffff {
				n++
			}
		}
	}
	return n
}

func singleBlock(b Block) Config {
	return Config{
		Settings: Settings{DPI: Size{Width: 300, Height: 300}},
		Blocks:   map[string]Block{"only": b},
	}
}

func TestScale(t *testing.T) {
	img := whiteTemplate(400, 200)

	tests := []struct {
		size Size
		w, h int
	}{
		{Size{}, 400, 200},
		{Size{Width: 50, Height: 60}, 50, 60},
		{Size{Width: 200}, 200, 100},
		{Size{Height: 100}, 200, 100},
		{Size{Width: 800}, 400, 200},
		{Size{Height: 400}, 400, 200},
	}
	for _, tt := range tests {
		b := Scale(img, tt.size).Bounds()
		assert.Equal(t, tt.w, b.Dx(), "%+v", tt.size)
		assert.Equal(t, tt.h, b.Dy(), "%+v", tt.size)
	}
}

func TestNewRenderer(t *testing.T) {
	_, err := NewRenderer(nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrNoTemplate)

	cfg := DefaultConfig()
	b := cfg.Blocks["name"]
	b.Anchor = "q"
	cfg.Blocks["name"] = b
	_, err = NewRenderer(whiteTemplate(10, 10), cfg)
	assert.ErrorIs(t, err, ErrAnchor)

	cfg = DefaultConfig()
	cfg.Settings.Font = "/does/not/exist.ttf"
	cfg.Settings.Scale = Size{Width: 100, Height: 50}
	r, err := NewRenderer(whiteTemplate(400, 200), cfg)
	require.NoError(t, err)
	assert.NotNil(t, r.font)
	assert.Equal(t, image.Rect(0, 0, 100, 50), r.Bounds())
}

func TestRender_DrawsBlocks(t *testing.T) {
	r, err := NewRenderer(whiteTemplate(600, 300), DefaultConfig())
	require.NoError(t, err)

	img, err := r.Render(testRow("1"))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 600, 300), img.Bounds())
	assert.Positive(t, countNonWhite(img))
}

func TestRender_EmptyTextDrawsNothing(t *testing.T) {
	cfg := singleBlock(Block{
		Anchor: "mm", MaxWidth: 100, MaxFontSize: 20, Color: "#000",
		Template: "${Title}",
		Border:   Border{StrokeWeight: 2, Color: "#000"},
	})
	r, err := NewRenderer(whiteTemplate(200, 100), cfg)
	require.NoError(t, err)

	img, err := r.Render(testRow("1"))
	require.NoError(t, err)
	assert.Zero(t, countNonWhite(img))
}

func TestRender_BorderAndFill(t *testing.T) {
	cfg := singleBlock(Block{
		Anchor: "mm", MaxWidth: 180, MaxFontSize: 20, Color: "#ffffff",
		Template: "${Group}",
		Border: Border{
			StrokeWeight: 1,
			Color:        "#000000",
			Fill:         "${Group == 'A' ? '#0000ff' : '#00ff00'}",
			MinWidth:     80,
			MinHeight:    40,
		},
	})
	r, err := NewRenderer(whiteTemplate(200, 100), cfg)
	require.NoError(t, err)

	img, err := r.Render(testRow("1"))
	require.NoError(t, err)

	// the fill covers the middle of the 80×40 box around the center
	cr, cg, cb, _ := img.At(70, 50).RGBA()
	assert.Equal(t, uint32(0), cr)
	assert.Equal(t, uint32(0), cg)
	assert.Equal(t, uint32(0xffff), cb)

	corner := color.RGBAModel.Convert(img.At(5, 5)).(color.RGBA)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, corner)
}

func TestRender_TemplateErrors(t *testing.T) {
	r, err := NewRenderer(whiteTemplate(100, 100), DefaultConfig())
	require.NoError(t, err)

	out, err := r.render("${1 +}", testRow("1"))
	require.NoError(t, err)
	assert.Equal(t, "${1 +}", out)

	assert.Equal(t, "#123", r.renderOr("#123", testRow("1")))
	assert.Equal(t, "Novak", r.renderOr("${Lastname}", testRow("1")))
}

func TestRenderPNG_StoresDPI(t *testing.T) {
	r, err := NewRenderer(whiteTemplate(120, 80), singleBlock(Block{
		Anchor: "la", MaxWidth: 100, MaxFontSize: 12, Template: "${PlayerUniqueId}",
	}))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderPNG(&buf, testRow("7")))

	dpi, ok := PNGResolution(buf.Bytes())
	require.True(t, ok)
	assert.Equal(t, Size{Width: 300, Height: 300}, dpi)

	img, err := png.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 120, 80), img.Bounds())
}

func TestRenderAll_ZipInRosterOrder(t *testing.T) {
	r, err := NewRenderer(whiteTemplate(300, 150), DefaultConfig())
	require.NoError(t, err)

	rows := swisskit.Roster{testRow("2"), testRow("1"), testRow("3")}
	var buf bytes.Buffer
	require.NoError(t, r.RenderAll(context.Background(), &buf, rows))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 3)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		_, err = png.Decode(bytes.NewReader(data))
		assert.NoError(t, err, f.Name)
	}
	assert.Equal(t, []string{"player_card_#2.png", "player_card_#1.png", "player_card_#3.png"}, names)
}

func TestRenderAll_CancelledContext(t *testing.T) {
	r, err := NewRenderer(whiteTemplate(50, 50), DefaultConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = r.RenderAll(ctx, io.Discard, swisskit.Roster{testRow("1")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPreview_GuidesAndLimit(t *testing.T) {
	cfg := DefaultConfig()
	for _, name := range []string{"group", "id"} {
		b := cfg.Blocks[name]
		b.GroupID = "meta"
		cfg.Blocks[name] = b
	}
	r, err := NewRenderer(whiteTemplate(2400, 1000), cfg)
	require.NoError(t, err)

	img, err := r.PreviewImage(nil)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1200, 500), img.Bounds())
	assert.Positive(t, countNonWhite(img))

	var buf bytes.Buffer
	require.NoError(t, r.Preview(&buf, testRow("1")))
	decoded, err := jpeg.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1200, 500), decoded.Bounds())
}

func TestPreview_SmallTemplateKeepsSize(t *testing.T) {
	r, err := NewRenderer(whiteTemplate(300, 200), DefaultConfig())
	require.NoError(t, err)
	img, err := r.PreviewImage(testRow("1"))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 300, 200), img.Bounds())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "player_card_#12.png", FileName("12"))
}

func TestFaces_MeasureWithEmbeddedFont(t *testing.T) {
	fs := newFaces(DefaultFont())
	defer fs.Close()

	small, err := fs.Measure("Novak", 10)
	require.NoError(t, err)
	large, err := fs.Measure("Novak", 40)
	require.NoError(t, err)

	assert.Positive(t, small.Width)
	assert.Greater(t, large.Width, small.Width)
	assert.Greater(t, large.Ascent, 0.0)
	assert.Greater(t, large.InkTop, 0.0)
	assert.LessOrEqual(t, large.InkTop, large.Ascent+1)
}

func TestOpenFont(t *testing.T) {
	f, err := OpenFont("")
	require.NoError(t, err)
	assert.NotNil(t, f)

	_, err = OpenFont("/does/not/exist.ttf")
	assert.Error(t, err)

	_, err = ParseFont([]byte("not a font"))
	assert.Error(t, err)
}
