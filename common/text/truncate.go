package text

// EllipsisMarker terminates deterministically truncated content.
const EllipsisMarker = "..."

// Truncate cuts s so that the result is at most limit runes long, ending in
// the ellipsis marker when a cut was necessary. The cut point is
// deterministic: limit minus the marker length. Inputs already within the
// limit are returned unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	marker := []rune(EllipsisMarker)
	if limit <= len(marker) {
		return string(marker[:limit])
	}
	return string(runes[:limit-len(marker)]) + EllipsisMarker
}

// Exceeds reports whether s is longer than limit runes.
func Exceeds(s string, limit int) bool {
	return len([]rune(s)) > limit
}
