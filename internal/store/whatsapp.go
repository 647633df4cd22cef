package store

import (
	"regexp"
	"strings"
)

var nonDigitRegex = regexp.MustCompile(`[^0-9]`)

// NormalizeWhatsApp turns a local or international phone number into the
// digits-only international form used by wa.me links: "0812-3456 789" and
// "+62 812 3456 789" both become "628123456789".
func NormalizeWhatsApp(raw string) (string, error) {
	digits := nonDigitRegex.ReplaceAllString(raw, "")

	if strings.HasPrefix(digits, "0") {
		digits = "62" + strings.TrimPrefix(digits, "0")
	}

	if len(digits) < 8 || len(digits) > 15 {
		return "", ErrInvalidWhatsApp
	}
	return digits, nil
}
