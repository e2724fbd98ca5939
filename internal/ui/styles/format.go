package styles

import "github.com/charmbracelet/x/ansi"

// Truncate shortens s to maxWidth cells, ending in "..." when cut. Styling
// escape sequences are preserved.
func Truncate(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if ansi.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return ansi.Truncate(s, maxWidth, "")
	}
	return ansi.Truncate(s, maxWidth, "...")
}
