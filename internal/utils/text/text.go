// Package text provides helpers for cleaning up extracted document text
// before it is summarized.
package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CountRunes counts Unicode characters, not bytes.
//
//	CountRunes("hello")      // 5
//	CountRunes("こんにちは")  // 5
func CountRunes(s string) int {
	return utf8.RuneCountInString(s)
}

// ToValidUTF8 replaces invalid byte sequences with U+FFFD and strips NUL bytes.
func ToValidUTF8(s string) string {
	s = strings.ToValidUTF8(s, "�")
	return strings.ReplaceAll(s, "\x00", "")
}

// CollapseWhitespace joins all whitespace-delimited tokens with single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeLines trims every line, collapses runs of inner whitespace and
// drops empty lines. Line structure is kept so paragraphs survive.
func NormalizeLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = CollapseWhitespace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// Truncate cuts s to at most maxRunes characters, preferring to stop at the
// last whitespace so words are not split. maxRunes <= 0 disables truncation.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 || CountRunes(s) <= maxRunes {
		return s
	}

	runes := []rune(s)[:maxRunes]
	cut := len(runes)
	for i := len(runes) - 1; i > maxRunes/2; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i
			break
		}
	}
	return strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace)
}
