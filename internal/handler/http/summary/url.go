package summary

import (
	"net/http"

	"briefly/internal/domain/entity"
	"briefly/internal/handler/http/respond"
	"briefly/internal/usecase/history"
)

// URLHandler summarizes the article behind a web page.
type URLHandler struct {
	Svc     Summarizer
	History History // nil disables storage
}

// ServeHTTP handles POST /api/summarize/url.
// Invalid URLs give 400, pages with too little text 422 and unreachable or
// unreadable pages 502.
func (h URLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req urlRequest
	if err := decodeJSON(r, &req); err != nil {
		writeSummarizeError(ctx, w, err)
		return
	}
	if err := entity.ValidateURL(req.URL); err != nil {
		badRequest(w, err)
		return
	}

	out, err := h.Svc.ExtractAndSummarizeURL(ctx, req.URL)
	if err != nil {
		writeSummarizeError(ctx, w, err)
		return
	}

	sourceURL := req.URL
	rec := record(ctx, h.History, history.RecordInput{
		SourceType: entity.SourceTypeURL,
		SourceURL:  &sourceURL,
		Text:       out.Text,
		Result:     out.Result,
	})
	respond.JSON(w, http.StatusOK, newSummaryResponse(out.Result, rec))
}
