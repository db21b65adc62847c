package update

import "slices"

// cycle returns the entry after current, wrapping around. An unknown value
// behaves like the first entry.
func cycle(list []string, current string) string {
	if len(list) == 0 {
		return current
	}
	i := max(0, slices.Index(list, current))
	return list[(i+1)%len(list)]
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 1 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
