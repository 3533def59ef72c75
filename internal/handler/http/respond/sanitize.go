package respond

import (
	"regexp"
)

// Patterns are applied in order, most specific first.
var secretPatterns = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`), "sk-ant-****"},
	// must not match keys already masked above
	{regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`), "sk-****"},
	{regexp.MustCompile(`AIza[0-9A-Za-z_-]{20,}`), "AIza****"},
	{regexp.MustCompile(`hf_[a-zA-Z0-9]{10,}`), "hf_****"},
	{regexp.MustCompile(`(?i)(bearer\s+)[a-zA-Z0-9._-]+`), "${1}****"},
	// password in a DSN
	{regexp.MustCompile(`://([^:/@]+):([^@]+)@`), "://$1:****@"},
}

// SanitizeError returns the error message with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, p := range secretPatterns {
		msg = p.re.ReplaceAllString(msg, p.repl)
	}
	return msg
}
