package validate

import (
	"strings"
	"unicode"
)

const allowedChars = "_-."

// Domain reports whether s is safe to embed both in a cache file path and in a
// bare-host network lookup. The validated string is interpolated directly into
// the cache directory path, so this check is the sole defense against path
// traversal via the domain parameter.
func Domain(s string) bool {
	if s == "" || len(s) > 255 || strings.Contains(s, "..") {
		return false
	}

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune(allowedChars, r) {
			return false
		}
	}

	return true
}
