package locale

import "strings"

type Locale string

const (
	EN Locale = "en"
	FR Locale = "fr"
)

func (l Locale) String() string {
	return string(l)
}

func (l Locale) IsValid() bool {
	return l == EN || l == FR
}

// Parse accepts "fr", "fr-CA", "FR_ca" and similar; anything unrecognized
// yields fallback.
func Parse(s string, fallback Locale) Locale {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) >= 2 {
		switch Locale(s[:2]) {
		case FR:
			return FR
		case EN:
			return EN
		}
	}
	return fallback
}
