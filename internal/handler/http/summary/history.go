package summary

import (
	"errors"
	"net/http"

	"briefly/internal/common/pagination"
	"briefly/internal/domain/entity"
	"briefly/internal/handler/http/auth"
	"briefly/internal/handler/http/respond"
	"briefly/internal/observability/logging"
	"briefly/internal/usecase/history"
)

// ListHandler lists the caller's stored summaries, newest first.
type ListHandler struct {
	History       History
	PaginationCfg pagination.Config
}

// ServeHTTP handles GET /api/summaries?limit=&offset=.
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.History.List(ctx, user, params)
	if err != nil {
		logging.FromContext(ctx).Error("failed to list summaries",
			"limit", params.Limit,
			"offset", params.Offset,
			"error", respond.SanitizeError(err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]RecordDTO, 0, len(result.Data))
	for _, rec := range result.Data {
		dtos = append(dtos, newRecordDTO(rec))
	}
	respond.JSON(w, http.StatusOK, pagination.NewResponse(dtos, result.Pagination))
}

// GetHandler returns one of the caller's stored summaries.
type GetHandler struct {
	History History
}

// ServeHTTP handles GET /api/summaries/{id}.
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	rec, err := h.History.Get(ctx, user, r.PathValue("id"))
	if err != nil {
		writeHistoryError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, newRecordDTO(rec))
}

// FeedbackHandler stores the caller's verdict on a summary.
type FeedbackHandler struct {
	History History
}

// ServeHTTP handles POST /api/summaries/{id}/feedback and answers 204.
func (h FeedbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	var req feedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeSummarizeError(ctx, w, err)
		return
	}
	if req.SelectedBackend == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("selected_backend is required"))
		return
	}

	err := h.History.SubmitFeedback(ctx, user, entity.Feedback{
		SummaryID:       r.PathValue("id"),
		SelectedBackend: req.SelectedBackend,
		Rating:          req.Rating,
		Text:            req.FeedbackText,
	})
	if err != nil {
		writeHistoryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeHistoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, history.ErrSummaryNotFound):
		respond.SafeError(w, http.StatusNotFound, history.ErrSummaryNotFound)
	case errors.Is(err, history.ErrInvalidSummaryID):
		respond.SafeError(w, http.StatusBadRequest, history.ErrInvalidSummaryID)
	case errors.Is(err, history.ErrInvalidRating):
		respond.SafeError(w, http.StatusBadRequest,
			respond.NewAppError(http.StatusBadRequest, "rating must be between 1 and 5", nil))
	case errors.Is(err, history.ErrUnknownBackend):
		respond.SafeError(w, http.StatusBadRequest,
			respond.NewAppError(http.StatusBadRequest, err.Error(), nil))
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}
