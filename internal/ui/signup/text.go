package signup

import "github.com/charmbracelet/x/ansi"

// truncateLine shortens s to width cells, keeping any escape sequences intact.
func truncateLine(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}
