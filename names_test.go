package swisskit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		name        string
		last, first string
	}{
		{"NGUYEN van  AN", "Nguyen", "Van An"},
		{"Novak, Jana (WGM)", "Novak", "Jana"},
		{"Magnus", "", "Magnus"},
		{"", "", ""},
		{"  (unknown)  ", "", ""},
		{"ĐẶNG thị (HCM) hoa", "Đặng", "Thị Hoa"},
		{"o'brien PATRICK", "O'brien", "Patrick"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			last, first := SplitName(tt.name)
			assert.Equal(t, tt.last, last)
			assert.Equal(t, tt.first, first)
		})
	}
}

func TestSplitName_NormalizesDecomposedInput(t *testing.T) {
	last, first := SplitName("dvor\u030ca\u0301k antonin")
	assert.Equal(t, "Dvo\u0159\u00e1k", last)
	assert.Equal(t, "Antonin", first)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "École", Capitalize("éCOLE"))
	assert.Equal(t, "A", Capitalize("a"))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Jan Van Der Berg", Title("jan van  DER berg"))
	assert.Equal(t, "", Title("   "))
}
