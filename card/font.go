package card

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Font is a parsed TrueType or OpenType font. It is safe to share between
// goroutines; the faces built from it are not.
type Font struct {
	otf *opentype.Font
}

// ParseFont parses font file contents.
func ParseFont(data []byte) (*Font, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Font{otf: f}, nil
}

// DefaultFont is the embedded Go Regular font.
func DefaultFont() *Font {
	f, err := ParseFont(goregular.TTF)
	if err != nil {
		panic(err)
	}
	return f
}

// OpenFont reads a font file. An empty path selects DefaultFont.
func OpenFont(path string) (*Font, error) {
	if path == "" {
		return DefaultFont(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return ParseFont(data)
}

// faces caches one face per size for a single render.
type faces struct {
	font  *Font
	sizes map[float64]font.Face
}

func newFaces(f *Font) *faces {
	return &faces{font: f, sizes: make(map[float64]font.Face)}
}

func (fs *faces) face(size float64) (font.Face, error) {
	if face, ok := fs.sizes[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(fs.font.otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("font face %v: %w", size, err)
	}
	fs.sizes[size] = face
	return face, nil
}

// Measure implements Measurer.
func (fs *faces) Measure(text string, size float64) (Metrics, error) {
	face, err := fs.face(size)
	if err != nil {
		return Metrics{}, err
	}
	bounds, advance := font.BoundString(face, text)
	m := face.Metrics()
	return Metrics{
		Width:     fixedFloat(advance),
		Ascent:    fixedFloat(m.Ascent),
		Descent:   fixedFloat(m.Descent),
		InkTop:    -fixedFloat(bounds.Min.Y),
		InkBottom: fixedFloat(bounds.Max.Y),
	}, nil
}

func (fs *faces) Close() {
	for _, face := range fs.sizes {
		_ = face.Close()
	}
}

func fixedFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
