package requestid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	assert.Empty(t, FromContext(context.Background()))

	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", FromContext(ctx))
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantEchoed bool
	}{
		{name: "missing header generates uuid"},
		{name: "client id propagated", header: "client-abc-123", wantEchoed: true},
		{name: "uuid propagated", header: "3f1c5e2a-8b7d-4c1e-9a2f-0d6b8e4f7a11", wantEchoed: true},
		{name: "max length accepted", header: strings.Repeat("a", maxLength), wantEchoed: true},
		{name: "too long replaced", header: strings.Repeat("a", maxLength+1)},
		{name: "space replaced", header: "has space"},
		{name: "control char replaced", header: "id\x07bell"},
		{name: "non-ascii replaced", header: "id-é"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = FromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodPost, "/summarize/text", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			got := rec.Header().Get(RequestIDHeader)
			assert.Equal(t, seen, got, "context and response header must agree")
			if tt.wantEchoed {
				assert.Equal(t, tt.header, got)
				return
			}
			_, err := uuid.Parse(got)
			require.NoError(t, err, "expected a generated uuid, got %q", got)
		})
	}
}

func TestMiddleware_UniquePerRequest(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		id := rec.Header().Get(RequestIDHeader)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
