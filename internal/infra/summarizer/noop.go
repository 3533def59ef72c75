package summarizer

import (
	"context"
	"strings"
	"unicode"
)

// noopEngine returns the leading sentences of the input, up to MaxLength words.
// It is deterministic and makes no network calls, which suits development and tests.
type noopEngine struct{}

func (noopEngine) summarize(ctx context.Context, input string, p Params) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		b     strings.Builder
		words int
	)
	for _, sentence := range splitSentences(input) {
		n := len(strings.Fields(sentence))
		if words > 0 && words+n > p.MaxLength {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sentence)
		words += n
		if words >= p.MaxLength {
			break
		}
	}

	fields := strings.Fields(b.String())
	if len(fields) > p.MaxLength {
		fields = fields[:p.MaxLength]
	}
	return strings.Join(fields, " "), nil
}

// splitSentences splits text after '.', '!' or '?' followed by whitespace.
func splitSentences(s string) []string {
	var (
		out   []string
		start int
	)
	runes := []rune(s)
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if sentence := strings.TrimSpace(string(runes[start : i+1])); sentence != "" {
			out = append(out, sentence)
		}
		start = i + 1
	}
	if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
		out = append(out, rest)
	}
	return out
}
