package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Words splits a name into words on separators, lower-to-upper case
// transitions, the end of an upper-case run and letter/digit boundaries.
//
//	"alice"       -> [alice]
//	"charlie-2"   -> [charlie 2]
//	"fooBar"      -> [foo Bar]
//	"XMLNode"     -> [XML Node]
func Words(s string) []string {
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 {
			prev := cur[len(cur)-1]
			switch {
			case unicode.IsDigit(prev) != unicode.IsDigit(r):
				flush()
			case unicode.IsLower(prev) && unicode.IsUpper(r):
				flush()
			case unicode.IsUpper(prev) && unicode.IsUpper(r) &&
				i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// StartCase upper-cases the first letter of every word and joins the words
// with single spaces. The remaining letters keep their case.
func StartCase(s string) string {
	words := Words(s)
	caser := cases.Title(language.Und, cases.NoLower)
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// KebabCase lower-cases every word and joins the words with dashes.
func KebabCase(s string) string {
	words := Words(s)
	caser := cases.Lower(language.Und)
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, "-")
}
