package summary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"briefly/internal/common/pagination"
	"briefly/internal/domain/entity"
	"briefly/internal/handler/http/auth"
	"briefly/internal/handler/http/respond"
	"briefly/internal/observability/logging"
	"briefly/internal/usecase/history"
	"briefly/internal/usecase/summarize"
)

// Summarizer produces summaries for the three input kinds.
type Summarizer interface {
	SummarizeText(ctx context.Context, text string) (*entity.SummaryResult, error)
	ExtractAndSummarizeURL(ctx context.Context, rawURL string) (*summarize.Summary, error)
	ExtractAndSummarizeFile(ctx context.Context, data []byte, contentType string) (*summarize.Summary, error)
}

// History stores summaries and their feedback.
type History interface {
	Record(ctx context.Context, in history.RecordInput) (*entity.SummaryRecord, error)
	Get(ctx context.Context, userID, id string) (*entity.SummaryRecord, error)
	List(ctx context.Context, userID string, params pagination.Params) (*history.ListResult, error)
	SubmitFeedback(ctx context.Context, userID string, fb entity.Feedback) error
}

// record stores a completed summarization. A storage failure is logged and
// yields a nil record: the caller still returns the summary, without an id.
func record(ctx context.Context, h History, in history.RecordInput) *entity.SummaryRecord {
	if h == nil {
		return nil
	}
	if user, ok := auth.UserFromContext(ctx); ok {
		in.UserID = &user
	}
	rec, err := h.Record(ctx, in)
	if err != nil {
		logging.FromContext(ctx).Error("failed to store summary",
			"source_type", string(in.SourceType),
			"error", respond.SanitizeError(err))
		return nil
	}
	return rec
}

// writeSummarizeError maps orchestrator failures to HTTP statuses.
func writeSummarizeError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := logging.FromContext(ctx)
	var maxErr *http.MaxBytesError

	switch {
	case errors.As(err, &maxErr):
		respond.SafeError(w, http.StatusRequestEntityTooLarge, errors.New("request body too large"))
	case errors.Is(err, summarize.ErrUnsupportedFileType):
		respond.SafeError(w, http.StatusUnsupportedMediaType, err)
	case errors.Is(err, summarize.ErrInsufficientContent):
		respond.SafeError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, summarize.ErrEmptyExtraction):
		respond.SafeError(w, http.StatusUnprocessableEntity,
			respond.NewAppError(http.StatusUnprocessableEntity, "no text could be extracted from the document", nil))
	case errors.Is(err, entity.ErrInvalidInput):
		badRequest(w, err)
	case errors.Is(err, summarize.ErrExtractionFailed):
		logger.Warn("extraction failed", "error", respond.SanitizeError(err))
		respond.SafeError(w, http.StatusBadGateway,
			respond.NewAppError(http.StatusBadGateway, "could not extract content from the source", err))
	case errors.Is(err, summarize.ErrBackendFailure):
		var be *summarize.BackendError
		msg := "summarization backend failed"
		if errors.As(err, &be) {
			msg = fmt.Sprintf("summarization backend %s failed", be.Backend)
		}
		respond.SafeError(w, http.StatusBadGateway, respond.NewAppError(http.StatusBadGateway, msg, err))
	case errors.Is(err, context.DeadlineExceeded):
		respond.SafeError(w, http.StatusGatewayTimeout,
			respond.NewAppError(http.StatusGatewayTimeout, "summarization timed out", err))
	case errors.Is(err, context.Canceled):
		// client went away; nobody reads the response
		logger.Info("summarization canceled")
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}

// decodeJSON decodes a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return fmt.Errorf("invalid request body: %w", entity.ErrInvalidInput)
	}
	return nil
}

// badRequest writes a 400 with err's message. Only caller mistakes such as
// entity.ValidationError may reach it.
func badRequest(w http.ResponseWriter, err error) {
	respond.SafeError(w, http.StatusBadRequest, respond.NewAppError(http.StatusBadRequest, err.Error(), nil))
}
