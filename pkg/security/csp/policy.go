// Package csp builds Content-Security-Policy header values.
package csp

import (
	"strings"
)

// Header names.
const (
	HeaderEnforce    = "Content-Security-Policy"
	HeaderReportOnly = "Content-Security-Policy-Report-Only"
)

// Builder assembles a policy. Directives are emitted in the order they were
// first set; setting a directive again replaces its sources.
//
//	policy := csp.NewBuilder().
//	    DefaultSrc("'none'").
//	    FrameAncestors("'none'").
//	    Build()
//	// "default-src 'none'; frame-ancestors 'none'"
//
// A Builder is not safe for concurrent use.
type Builder struct {
	order      []string
	directives map[string][]string
	reportOnly bool
	reportURI  string
}

// NewBuilder returns an empty policy.
func NewBuilder() *Builder {
	return &Builder{directives: make(map[string][]string)}
}

// Directive sets name to sources. Empty sources are ignored.
func (b *Builder) Directive(name string, sources ...string) *Builder {
	clean := make([]string, 0, len(sources))
	for _, s := range sources {
		if s = strings.TrimSpace(s); s != "" {
			clean = append(clean, s)
		}
	}
	if _, ok := b.directives[name]; !ok {
		b.order = append(b.order, name)
	}
	b.directives[name] = clean
	return b
}

func (b *Builder) DefaultSrc(sources ...string) *Builder {
	return b.Directive("default-src", sources...)
}

func (b *Builder) ConnectSrc(sources ...string) *Builder {
	return b.Directive("connect-src", sources...)
}

func (b *Builder) FrameAncestors(sources ...string) *Builder {
	return b.Directive("frame-ancestors", sources...)
}

func (b *Builder) FormAction(sources ...string) *Builder {
	return b.Directive("form-action", sources...)
}

func (b *Builder) BaseURI(sources ...string) *Builder {
	return b.Directive("base-uri", sources...)
}

// ReportURI sets where browsers send violation reports.
func (b *Builder) ReportURI(uri string) *Builder {
	b.reportURI = strings.TrimSpace(uri)
	return b
}

// ReportOnly switches the policy to the report-only header.
func (b *Builder) ReportOnly(enabled bool) *Builder {
	b.reportOnly = enabled
	return b
}

// Build returns the header value.
func (b *Builder) Build() string {
	parts := make([]string, 0, len(b.order)+1)
	for _, name := range b.order {
		sources := b.directives[name]
		if len(sources) == 0 {
			parts = append(parts, name)
			continue
		}
		parts = append(parts, name+" "+strings.Join(sources, " "))
	}
	if b.reportURI != "" {
		parts = append(parts, "report-uri "+b.reportURI)
	}
	return strings.Join(parts, "; ")
}

// HeaderName returns the header the policy is sent in.
func (b *Builder) HeaderName() string {
	if b.reportOnly {
		return HeaderReportOnly
	}
	return HeaderEnforce
}

// APIPolicy forbids every kind of content: the API only serves JSON and
// plain text, so nothing it returns should ever be rendered or framed.
func APIPolicy() *Builder {
	return NewBuilder().
		DefaultSrc("'none'").
		FrameAncestors("'none'").
		BaseURI("'none'").
		FormAction("'none'")
}
