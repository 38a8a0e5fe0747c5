package utils

import "strings"

func NormalizeWord(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}
