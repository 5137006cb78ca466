package utils

import (
	"strings"
)

func SanitizeString(input string) string {
	return strings.TrimSpace(input)
}

// NormalizeHandle trims whitespace and makes sure the handle starts with a
// single "@". It reports false when nothing is left besides the "@".
// Matching stays case-sensitive.
func NormalizeHandle(handle string) (string, bool) {
	handle = SanitizeString(handle)
	if !strings.HasPrefix(handle, "@") {
		handle = "@" + handle
	}
	if len(handle) == 1 {
		return "", false
	}
	return handle, true
}
