package middleware

import (
	"net/http"

	"briefly/pkg/config"
	"briefly/pkg/security/csp"
)

// SecurityConfig controls the security headers added to every response.
type SecurityConfig struct {
	// CSPEnabled sends the API Content-Security-Policy. Default: true
	CSPEnabled bool
	// CSPReportOnly sends it in report-only mode. Default: false
	CSPReportOnly bool
	// CSPReportURI is optional.
	CSPReportURI string
}

// LoadSecurityConfigFromEnv reads CSP_ENABLED, CSP_REPORT_ONLY and CSP_REPORT_URI.
func LoadSecurityConfigFromEnv() SecurityConfig {
	return SecurityConfig{
		CSPEnabled:    config.GetEnvBool("CSP_ENABLED", true),
		CSPReportOnly: config.GetEnvBool("CSP_REPORT_ONLY", false),
		CSPReportURI:  config.GetEnvString("CSP_REPORT_URI", ""),
	}
}

// SecurityHeaders sets nosniff, frame and referrer headers, and the API CSP
// when enabled. The policy is built once.
func SecurityHeaders(cfg SecurityConfig) func(http.Handler) http.Handler {
	var header, policy string
	if cfg.CSPEnabled {
		b := csp.APIPolicy().ReportOnly(cfg.CSPReportOnly).ReportURI(cfg.CSPReportURI)
		header, policy = b.HeaderName(), b.Build()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			if policy != "" {
				h.Set(header, policy)
			}
			next.ServeHTTP(w, r)
		})
	}
}
