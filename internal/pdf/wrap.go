package pdf

import "strings"

// MeasureFunc returns the rendered width of a string in the current font,
// in document units.
type MeasureFunc func(s string) float64

// CleanText normalizes line endings so a stray \r never reaches the page.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// ForceWrap guarantees that no whitespace-free token in text is wider than
// usable. Spacing between tokens is preserved; oversized tokens (URLs,
// hashes) are broken internally with forced newlines. Text that already
// fits comes back unchanged, so re-wrapping is a no-op.
func ForceWrap(text string, usable float64, measure MeasureFunc) string {
	if usable <= 1 {
		usable = 180 // typical A4 width between margins, in mm
	}

	lines := strings.Split(text, "\n")
	fixed := make([]string, len(lines))
	for i, line := range lines {
		if line == "" {
			continue
		}

		var rebuilt strings.Builder
		for _, part := range splitSpacing(line) {
			if part == "" || isSpace(part) {
				rebuilt.WriteString(part)
				continue
			}
			if measure(part) > usable {
				rebuilt.WriteString(splitLongToken(part, usable, measure))
			} else {
				rebuilt.WriteString(part)
			}
		}
		fixed[i] = rebuilt.String()
	}
	return strings.Join(fixed, "\n")
}

// splitLongToken breaks token into chunks no wider than max. The chunk
// length is estimated proportionally from the measured width (with a 5%
// safety margin) instead of measuring one rune at a time.
func splitLongToken(token string, max float64, measure MeasureFunc) string {
	var out strings.Builder
	runes := []rune(token)
	for len(runes) > 0 {
		if measure(string(runes)) <= max {
			out.WriteString(string(runes))
			break
		}

		width := measure(string(runes))
		ratio := 0.5
		if width > 0 {
			ratio = max / width
		}
		take := int(float64(len(runes)) * ratio * 0.95)
		if take < 1 {
			take = 1
		}
		out.WriteString(string(runes[:take]))
		out.WriteString("\n")
		runes = runes[take:]
	}
	return out.String()
}

// splitSpacing splits a line into alternating runs of non-space and space
// characters, keeping both.
func splitSpacing(line string) []string {
	var parts []string
	var run strings.Builder
	var inSpace bool
	for i, r := range line {
		space := r == ' ' || r == '\t'
		if i > 0 && space != inSpace {
			parts = append(parts, run.String())
			run.Reset()
		}
		inSpace = space
		run.WriteRune(r)
	}
	if run.Len() > 0 {
		parts = append(parts, run.String())
	}
	return parts
}

func isSpace(s string) bool {
	return strings.TrimLeft(s, " \t") == ""
}
