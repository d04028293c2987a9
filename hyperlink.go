package swisskit

import "strings"

// FIDEProfileURL is the public ratings profile page of a FIDE id.
const FIDEProfileURL = "https://ratings.fide.com/profile/"

// HyperlinkValue represents a clickable link written into a spreadsheet cell.
type HyperlinkValue struct {
	URL     string
	Display string
}

// String returns the display text for the hyperlink.
func (h HyperlinkValue) String() string {
	if h.Display != "" {
		return h.Display
	}
	return h.URL
}

// Hyperlink creates a HyperlinkValue.
func Hyperlink(url, display string) HyperlinkValue {
	return HyperlinkValue{URL: url, Display: display}
}

// FIDEProfile links a FIDE id to its ratings page. Blank or non-numeric ids
// yield a zero HyperlinkValue.
func FIDEProfile(id string) HyperlinkValue {
	id = strings.TrimSpace(id)
	if id == "" || strings.Trim(id, "0123456789") != "" {
		return HyperlinkValue{}
	}
	return Hyperlink(FIDEProfileURL+id, id)
}
