package summary

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"briefly/internal/domain/entity"
	"briefly/internal/handler/http/respond"
	"briefly/internal/usecase/history"
	"briefly/internal/usecase/summarize"
)

// TextHandler summarizes raw text.
type TextHandler struct {
	Svc     Summarizer
	History History // nil disables storage
}

// ServeHTTP handles POST /api/summarize/text.
// Texts under summarize.MinTextWords words are rejected with 400.
func (h TextHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req textRequest
	if err := decodeJSON(r, &req); err != nil {
		writeSummarizeError(ctx, w, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("text is required"))
		return
	}
	if words := entity.CountWords(req.Text); words < summarize.MinTextWords {
		respond.SafeError(w, http.StatusBadRequest,
			fmt.Errorf("text too short: minimum %d words required, got %d", summarize.MinTextWords, words))
		return
	}

	result, err := h.Svc.SummarizeText(ctx, req.Text)
	if err != nil {
		writeSummarizeError(ctx, w, err)
		return
	}

	rec := record(ctx, h.History, history.RecordInput{
		SourceType: entity.SourceTypeText,
		Text:       req.Text,
		Result:     result,
	})
	respond.JSON(w, http.StatusOK, newSummaryResponse(result, rec))
}
