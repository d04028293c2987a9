package swisskit

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// parenthesized matches "(...)" spans greedily, like nicknames or federation hints.
var parenthesized = regexp.MustCompile(`\(.*\)`)

var (
	lowerCaser = cases.Lower(language.Und)
	upperCaser = cases.Upper(language.Und)
)

// SplitName derives Swiss-Manager's last and first name from a full name.
// The first word is the last name; a single word is treated as a first name.
func SplitName(name string) (last, first string) {
	name = norm.NFC.String(name)
	name = parenthesized.ReplaceAllString(name, "")
	name = strings.ReplaceAll(strings.TrimSpace(name), ",", "")

	words := strings.Fields(lowerCaser.String(name))
	for i, w := range words {
		words[i] = Capitalize(w)
	}
	switch len(words) {
	case 0:
		return "", ""
	case 1:
		return "", words[0]
	default:
		return words[0], strings.Join(words[1:], " ")
	}
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return upperCaser.String(string(r[0])) + lowerCaser.String(string(r[1:]))
}

// Title capitalizes every whitespace separated word.
func Title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = Capitalize(w)
	}
	return strings.Join(words, " ")
}

func nameKey(r Row) string {
	return r.Get(FieldLastname) + " " + r.Get(FieldFirstname)
}
