package utils

import "strings"

// NormalizeLocale reduces a locale identifier to its lower-cased language
// part: "en_US" and "en-GB" both normalize to "en". Normalization is
// idempotent.
func NormalizeLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if idx := strings.IndexAny(locale, "_-"); idx >= 0 {
		locale = locale[:idx]
	}
	return locale
}
