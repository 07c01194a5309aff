package validation

import "strings"

// SanitizeText strips angle brackets from free text as a minimal defense
// against markup injection. Intentionally shallow: the remote service
// performs the real sanitization, this only keeps obvious markup out of
// portal-side state.
func SanitizeText(s string) string {
	return strings.NewReplacer("<", "", ">", "").Replace(s)
}
