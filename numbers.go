package swisskit

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseNumber reads a score or tie-break as typed into a standings table:
// empty is zero, a trailing ½ adds a half, decimal commas, spaces and
// thousands apostrophes are tolerated.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	for _, half := range []string{"Â½", "½"} {
		if strings.HasSuffix(s, half) {
			s = strings.TrimSuffix(s, half) + ".5"
			break
		}
	}
	s = strings.NewReplacer(",", ".", " ", "", "'", "").Replace(s)
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", s, err)
	}
	return v, nil
}

// FormatNumber prints a number the way standings show it: 3 not 3.0, 2.5 as
// is, at most six significant digits so summed halves and tenths stay clean.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
