package text_test

import (
	"testing"

	"briefly/internal/utils/text"
)

/* ───────── Rune counting ───────── */

func TestCountRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "ASCII", input: "hello", expected: 5},
		{name: "Japanese", input: "こんにちは世界", expected: 7},
		{name: "mixed", input: "hello世界", expected: 7},
		{name: "emoji", input: "Hello👋", expected: 6},
		{name: "empty", input: "", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.CountRunes(tt.input); got != tt.expected {
				t.Errorf("CountRunes(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

/* ───────── Normalization ───────── */

func TestToValidUTF8(t *testing.T) {
	got := text.ToValidUTF8("ok\xff\x00done")
	if got != "ok�done" {
		t.Errorf("ToValidUTF8 = %q", got)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	got := text.CollapseWhitespace("  a \t b\n\n c  ")
	if got != "a b c" {
		t.Errorf("CollapseWhitespace = %q", got)
	}
}

func TestNormalizeLines(t *testing.T) {
	got := text.NormalizeLines("  first   line \n\n\t\n second\tline  \n")
	want := "first line\nsecond line"
	if got != want {
		t.Errorf("NormalizeLines = %q, want %q", got, want)
	}
}

/* ───────── Truncation ───────── */

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{name: "disabled", input: "one two three", max: 0, expected: "one two three"},
		{name: "short enough", input: "one two", max: 20, expected: "one two"},
		{name: "cuts at word boundary", input: "one two three four", max: 10, expected: "one two"},
		{name: "no whitespace", input: "abcdefghij", max: 4, expected: "abcd"},
		{name: "multibyte", input: "日本語テキスト", max: 3, expected: "日本語"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.Truncate(tt.input, tt.max); got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.expected)
			}
		})
	}
}
