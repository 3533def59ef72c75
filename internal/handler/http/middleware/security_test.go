package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"briefly/pkg/security/csp"
)

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name           string
		cfg            SecurityConfig
		wantEnforce    string
		wantReportOnly string
	}{
		{
			name:        "enforced",
			cfg:         SecurityConfig{CSPEnabled: true},
			wantEnforce: csp.APIPolicy().Build(),
		},
		{
			name:           "report only with uri",
			cfg:            SecurityConfig{CSPEnabled: true, CSPReportOnly: true, CSPReportURI: "/csp"},
			wantReportOnly: csp.APIPolicy().Build() + "; report-uri /csp",
		},
		{
			name: "disabled",
			cfg:  SecurityConfig{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := SecurityHeaders(tt.cfg)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, http.StatusNoContent, rr.Code)
			assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
			assert.Equal(t, "no-referrer", rr.Header().Get("Referrer-Policy"))
			assert.Equal(t, tt.wantEnforce, rr.Header().Get(csp.HeaderEnforce))
			assert.Equal(t, tt.wantReportOnly, rr.Header().Get(csp.HeaderReportOnly))
		})
	}
}

func TestLoadSecurityConfigFromEnv(t *testing.T) {
	t.Setenv("CSP_ENABLED", "")
	t.Setenv("CSP_REPORT_ONLY", "true")
	t.Setenv("CSP_REPORT_URI", "https://report.example.com")

	cfg := LoadSecurityConfigFromEnv()

	assert.Equal(t, SecurityConfig{
		CSPEnabled:    true,
		CSPReportOnly: true,
		CSPReportURI:  "https://report.example.com",
	}, cfg)
}
