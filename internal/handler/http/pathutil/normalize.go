// Package pathutil maps request paths to low-cardinality metric labels.
package pathutil

import (
	"regexp"
	"strings"
)

// Unmatched is the label for paths that match no known route.
const Unmatched = "/unmatched"

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

const uuidPattern = `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`

// pathPatterns are evaluated in order, most specific first.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/api/summaries/` + uuidPattern + `/feedback$`), Template: "/api/summaries/{id}/feedback"},
	{Pattern: regexp.MustCompile(`^/api/summaries/` + uuidPattern + `$`), Template: "/api/summaries/{id}"},
	// malformed ids still hit the handler and get a 400
	{Pattern: regexp.MustCompile(`^/api/summaries/[^/]+/feedback$`), Template: "/api/summaries/{id}/feedback"},
	{Pattern: regexp.MustCompile(`^/api/summaries/[^/]+$`), Template: "/api/summaries/{id}"},
}

var staticPaths = map[string]bool{
	"/":                   true,
	"/health":             true,
	"/ready":              true,
	"/live":               true,
	"/metrics":            true,
	"/api/summarize/text": true,
	"/api/summarize/url":  true,
	"/api/summarize/file": true,
	"/api/summaries":      true,
}

// NormalizePath converts a request path into a route template.
// Query strings and trailing slashes are ignored and unknown paths collapse
// into Unmatched, so scanners cannot inflate label cardinality.
//
//	NormalizePath("/api/summaries/3f1c...e9")          // "/api/summaries/{id}"
//	NormalizePath("/api/summaries/3f1c...e9/feedback") // "/api/summaries/{id}/feedback"
//	NormalizePath("/health?verbose=1")                 // "/health"
//	NormalizePath("/wp-login.php")                     // "/unmatched"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if staticPaths[path] {
		return path
	}
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return Unmatched
}

// GetExpectedCardinality returns the number of distinct labels NormalizePath can produce.
func GetExpectedCardinality() int {
	templates := make(map[string]bool)
	for _, p := range pathPatterns {
		templates[p.Template] = true
	}
	return len(staticPaths) + len(templates) + 1
}
