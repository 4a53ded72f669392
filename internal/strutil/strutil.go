// Package strutil holds the cell-width and buffer helpers shared by the box
// builder, the renderer and the CLI.
package strutil

import "github.com/mattn/go-runewidth"

// cells measures runes independently of the locale. Ambiguous-width runes
// such as the radical sign count as one cell everywhere.
var cells = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// RuneWidth returns the number of terminal cells r occupies. Zero-width and
// combining runes still get one cell so every character box is visible.
func RuneWidth(r rune) int {
	w := cells.RuneWidth(r)
	if w < 1 {
		return 1
	}
	return w
}

// Width returns the display width of s in terminal cells.
func Width(s string) int {
	return cells.StringWidth(s)
}

// Grow returns buf with room for at least n more elements, keeping its contents.
// Capacity at least doubles so repeated appends stay amortised.
func Grow[T any](buf []T, n int) []T {
	if n <= cap(buf)-len(buf) {
		return buf
	}
	newCap := 2 * cap(buf)
	if need := len(buf) + n; newCap < need {
		newCap = need
	}
	grown := make([]T, len(buf), newCap)
	copy(grown, buf)
	return grown
}
