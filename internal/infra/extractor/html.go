package extractor

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"briefly/internal/utils/text"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Outcome tags how a URL extraction was produced.
type Outcome string

const (
	// OutcomeStructured means the configured structured strategy produced the text.
	OutcomeStructured Outcome = "structured"
	// OutcomeStructuredFailed means the structured strategy failed and the
	// generic strategy produced the text.
	OutcomeStructuredFailed Outcome = "structured_failed"
	// OutcomeFetchFailed means the page could not be fetched; nothing was parsed.
	OutcomeFetchFailed Outcome = "fetch_failed"
)

type article struct {
	title string
	text  string
}

// structuredFunc extracts the main article from a page.
type structuredFunc func(body []byte, pageURL *url.URL) (article, error)

func structuredStrategy(name string) structuredFunc {
	if name == StrategyTrafilatura {
		return extractTrafilatura
	}
	return extractReadability
}

func extractReadability(body []byte, pageURL *url.URL) (article, error) {
	a, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return article{}, err
	}
	content := text.NormalizeLines(a.TextContent)
	if content == "" {
		return article{}, fmt.Errorf("no readable content found")
	}
	return article{title: strings.TrimSpace(a.Title), text: content}, nil
}

func extractTrafilatura(body []byte, pageURL *url.URL) (article, error) {
	result, err := trafilatura.Extract(bytes.NewReader(body), trafilatura.Options{
		OriginalURL: pageURL,
	})
	if err != nil {
		return article{}, err
	}
	if result == nil {
		return article{}, fmt.Errorf("no readable content found")
	}
	content := text.NormalizeLines(result.ContentText)
	if content == "" {
		return article{}, fmt.Errorf("no readable content found")
	}
	return article{title: strings.TrimSpace(result.Metadata.Title), text: content}, nil
}

// extractGeneric strips script and style elements and flattens whatever text
// is left. It never fails: an unparseable page yields empty text.
func extractGeneric(body []byte) article {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return article{}
	}

	doc.Find("script, style, noscript, template").Remove()
	title := strings.TrimSpace(doc.Find("title").First().Text())

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var sb strings.Builder
	for _, n := range root.Nodes {
		collectText(n, &sb)
	}

	return article{title: title, text: text.CollapseWhitespace(sb.String())}
}

// collectText appends every text node under n, separated by spaces so text
// from adjacent block elements does not run together.
func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteByte(' ')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

// parsePage runs the structured strategy and falls back to the generic one.
func parsePage(p *page, strategy structuredFunc) (article, Outcome, error) {
	a, err := strategy(p.body, p.url)
	if err == nil {
		return a, OutcomeStructured, nil
	}
	return extractGeneric(p.body), OutcomeStructuredFailed, err
}
