package gutter

import (
	"strconv"

	"github.com/mattn/go-runewidth"
)

// CountDigits returns the number of decimal digits in n. Zero has one digit.
func CountDigits(n int) int {
	if n < 0 {
		n = -n
	}
	digits := 1
	for n >= 10 {
		n /= 10
		digits++
	}
	return digits
}

// CalculateWidth returns the width needed to display line numbers for the
// given line count, never less than minWidth.
func CalculateWidth(lineCount, minWidth int) int {
	return max(CountDigits(lineCount), minWidth)
}

// FormatNumber converts a number to a string.
func FormatNumber(n int) string {
	return strconv.Itoa(n)
}

// PadLeft right-aligns s in a field of the given display width.
func PadLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}

// FormatPosition formats a 0-based position as 1-based "line:col".
func FormatPosition(line, col int) string {
	return FormatNumber(line+1) + ":" + FormatNumber(col+1)
}
