package pdf

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runeWidth pretends every rune is 1 unit wide.
func runeWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s))
}

func TestCleanTextNormalizesLineEndings(t *testing.T) {
	assert.Equal(t, "a\nb\nc", CleanText("a\r\nb\rc"))
}

func TestForceWrapKeepsFittingTextUnchanged(t *testing.T) {
	text := "um texto curto\ncom duas linhas"
	assert.Equal(t, text, ForceWrap(text, 50, runeWidth))
}

func TestForceWrapPreservesSpacing(t *testing.T) {
	text := "col1   col2\tcol3"
	assert.Equal(t, text, ForceWrap(text, 50, runeWidth))
}

func TestForceWrapBreaksOversizedToken(t *testing.T) {
	token := strings.Repeat("a", 500)

	wrapped := ForceWrap(token, 50, runeWidth)

	lines := strings.Split(wrapped, "\n")
	assert.GreaterOrEqual(t, len(lines), 10)
	for _, line := range lines {
		assert.LessOrEqual(t, runeWidth(line), 50.0)
	}
	// Lossless apart from the inserted breaks.
	assert.Equal(t, token, strings.ReplaceAll(wrapped, "\n", ""))
}

func TestForceWrapBreaksURLInsideSentence(t *testing.T) {
	url := "https://example.com/" + strings.Repeat("x", 200)
	text := "veja " + url + " para detalhes"

	wrapped := ForceWrap(text, 60, runeWidth)

	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, runeWidth(line), 60.0)
	}
	assert.Equal(t, text, strings.ReplaceAll(wrapped, "\n", ""))
}

func TestForceWrapIsIdempotent(t *testing.T) {
	text := "palavra " + strings.Repeat("b", 300) + " fim"

	once := ForceWrap(text, 40, runeWidth)
	twice := ForceWrap(once, 40, runeWidth)

	assert.Equal(t, once, twice)
}

func TestForceWrapRuneSafe(t *testing.T) {
	token := strings.Repeat("ção", 100)

	wrapped := ForceWrap(token, 30, runeWidth)

	require.True(t, utf8.ValidString(wrapped))
	assert.Equal(t, token, strings.ReplaceAll(wrapped, "\n", ""))
}

func TestForceWrapInvalidWidthFallback(t *testing.T) {
	token := strings.Repeat("a", 400)

	wrapped := ForceWrap(token, 0, runeWidth)

	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, runeWidth(line), 180.0)
	}
}

func TestForceWrapKeepsEmptyLines(t *testing.T) {
	text := "parágrafo um\n\nparágrafo dois"
	assert.Equal(t, text, ForceWrap(text, 50, runeWidth))
}
