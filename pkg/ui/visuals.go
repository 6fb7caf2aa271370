package ui

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
)

// RenderSparkline creates a textual bar of value (0.0 - 1.0)
func RenderSparkline(val float64, width int) string {
	if width <= 0 {
		return ""
	}

	chars := []string{" ", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

	if math.IsNaN(val) || val < 0 {
		val = 0
	}
	if val > 1 {
		val = 1
	}

	fullChars := int(val * float64(width))
	remainder := (val * float64(width)) - float64(fullChars)

	var sb strings.Builder
	for i := 0; i < fullChars; i++ {
		sb.WriteString("█")
	}
	if fullChars < width {
		idx := int(remainder * float64(len(chars)))
		if idx == 0 && remainder > 0 {
			idx = 1
		}
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		if idx > 0 {
			sb.WriteString(chars[idx])
		} else {
			sb.WriteString(" ")
		}
	}
	if padding := width - fullChars - 1; padding > 0 {
		sb.WriteString(strings.Repeat(" ", padding))
	}
	return sb.String()
}

// Truncate shortens s to the given display width, appending an ellipsis
// when anything was cut. Width is measured in terminal cells, not runes.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
