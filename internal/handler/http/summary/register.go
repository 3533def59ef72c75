package summary

import (
	"net/http"

	"briefly/internal/common/pagination"
	"briefly/internal/handler/http/auth"
)

// Register adds the summarization routes to mux. The history routes are
// only added when hist is non-nil; they require an authenticated caller.
// Summarize routes accept anonymous callers unless authn requires a token.
func Register(mux *http.ServeMux, svc Summarizer, hist History, authn *auth.Authenticator, paginationCfg pagination.Config) {
	mux.Handle("POST /api/summarize/text", authn.Optional(TextHandler{Svc: svc, History: hist}))
	mux.Handle("POST /api/summarize/url", authn.Optional(URLHandler{Svc: svc, History: hist}))
	mux.Handle("POST /api/summarize/file", authn.Optional(FileHandler{Svc: svc, History: hist}))

	if hist == nil {
		return
	}
	mux.Handle("GET /api/summaries", authn.Required(ListHandler{History: hist, PaginationCfg: paginationCfg}))
	mux.Handle("GET /api/summaries/{id}", authn.Required(GetHandler{History: hist}))
	mux.Handle("POST /api/summaries/{id}/feedback", authn.Required(FeedbackHandler{History: hist}))
}
