package utils

import "strings"

// Trim removes surrounding whitespace
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// CleanList trims every value, drops empties and later duplicates, and keeps
// input order. It never returns nil.
func CleanList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
