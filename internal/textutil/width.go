package textutil

import "github.com/mattn/go-runewidth"

// DisplayWidth reports the number of terminal cells text occupies.
func DisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadRight pads text with spaces to width cells. Wider text is returned as-is.
func PadRight(text string, width int) string {
	if DisplayWidth(text) >= width {
		return text
	}
	return runewidth.FillRight(text, width)
}
