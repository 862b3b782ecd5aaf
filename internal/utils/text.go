package utils

// Truncate cuts s to n runes and appends "..." when anything was removed.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
