package qr

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix_AutoVersion(t *testing.T) {
	m, err := Matrix("hello", 0)
	require.NoError(t, err)
	assert.Len(t, m, 21)
	assert.True(t, m[0][0], "finder pattern corner is dark")
}

func TestMatrix_ForcedVersion(t *testing.T) {
	m, err := Matrix("hello", 5)
	require.NoError(t, err)
	assert.Len(t, m, 37)
}

func TestMatrix_ForcedVersionTooSmallGrows(t *testing.T) {
	text := strings.Repeat("swiss manager ", 10)
	m, err := Matrix(text, 1)
	require.NoError(t, err)
	assert.Greater(t, len(m), 21)
}

func TestMatrix_Errors(t *testing.T) {
	_, err := Matrix("", 0)
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = Matrix("x", 41)
	assert.ErrorIs(t, err, ErrVersion)

	_, err = Matrix("x", -1)
	assert.ErrorIs(t, err, ErrVersion)
}

func TestEncode_Defaults(t *testing.T) {
	img, err := Encode("hello", Options{})
	require.NoError(t, err)
	assert.Equal(t, 21*DefaultBoxSize, img.Bounds().Dx())

	assert.Equal(t, color.NRGBA{A: 255}, img.At(0, 0))
}

func TestEncode_BorderAndColors(t *testing.T) {
	img, err := Encode("hello", Options{BoxSize: 2, Border: 1, Fill: "#ff0000", Back: "#00ff00"})
	require.NoError(t, err)
	assert.Equal(t, 46, img.Bounds().Dx())
	assert.Equal(t, 46, img.Bounds().Dy())

	assert.Equal(t, color.NRGBA{G: 255, A: 255}, img.At(0, 0), "quiet zone")
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, img.At(1, 1), "quiet zone")
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, img.At(2, 2), "first module")
}

func TestEncode_Transparent(t *testing.T) {
	img, err := Encode("hello", Options{BoxSize: 1, Border: 2, BackTransparent: true, Fill: "navy"})
	require.NoError(t, err)

	_, _, _, a := img.At(0, 0).RGBA()
	assert.Zero(t, a)
	assert.Equal(t, color.NRGBA{B: 128, A: 255}, img.At(2, 2))

	img, err = Encode("hello", Options{BoxSize: 1, FillTransparent: true})
	require.NoError(t, err)
	_, _, _, a = img.At(0, 0).RGBA()
	assert.Zero(t, a)
}

func TestEncode_InvalidColor(t *testing.T) {
	_, err := Encode("hello", Options{Fill: "not-a-color"})
	assert.Error(t, err)
}

func TestDataURI(t *testing.T) {
	uri, err := DataURI("https://ratings.fide.com", Options{BoxSize: 4})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 0, img.Bounds().Dx()%4)
}

func TestPNG_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, PNG(&buf, "", Options{}), ErrEmptyText)
	assert.Zero(t, buf.Len())
}
