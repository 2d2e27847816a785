package auth

import "strings"

// normalizePhone strips spaces, dashes and parentheses so the same number
// always hits the same unique key.
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, c := range phone {
		switch c {
		case ' ', '-', '(', ')':
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// normalizeEmail lowercases and trims an email address
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
