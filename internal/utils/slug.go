package utils

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLength = 50

// Slugify folds title into a URL-safe slug: accents are stripped, letters
// lowered, and every run of other characters becomes a single dash.
func Slugify(title string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}
	folded = cases.Lower(language.Und).String(folded)

	var b strings.Builder
	dash := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "recipe"
	}
	if r := []rune(slug); len(r) > maxSlugLength {
		slug = strings.TrimRight(string(r[:maxSlugLength]), "-")
	}
	return slug
}

// SlugToken is the random suffix appended when a slug is already taken.
func SlugToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
