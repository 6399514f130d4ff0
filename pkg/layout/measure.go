// pkg/layout/measure.go

package layout

import "strings"

// LineSpacing is the line height as a multiple of the font size. Renderers
// must advance wrapped lines by the same amount.
const LineSpacing = 1.2

// Measurer reports rendered text extents for a backend's font metrics.
type Measurer interface {
	// Width is the single-line width of text.
	Width(text string, font Font) float64
	// Height is the height of text wrapped to width.
	Height(text string, font Font, width float64) float64
}

// LineHeight returns the advance between wrapped lines.
func LineHeight(f Font) float64 {
	return f.Size * LineSpacing
}

const ellipsis = "..."

// fit shortens text with a trailing ellipsis until it fits on one line of
// the given width.
func fit(m Measurer, text string, font Font, width float64) string {
	if m.Width(text, font) <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + ellipsis
		if m.Width(candidate, font) <= width {
			return candidate
		}
	}
	return ellipsis
}
