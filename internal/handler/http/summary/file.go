package summary

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"briefly/internal/domain/entity"
	"briefly/internal/handler/http/respond"
	"briefly/internal/usecase/history"
	"briefly/internal/usecase/summarize"
)

// maxMemory is the part of a multipart form kept in memory; the rest spills
// to temporary files. The body size itself is capped by the input validation
// middleware.
const maxMemory = 8 << 20

// FileHandler summarizes an uploaded document.
type FileHandler struct {
	Svc     Summarizer
	History History // nil disables storage
}

// ServeHTTP handles POST /api/summarize/file with a multipart "file" field.
// Unsupported types give 415; empty documents and documents with too little
// text give 422.
func (h FileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeSummarizeError(ctx, w, err)
			return
		}
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid multipart form"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("file is required"))
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		writeSummarizeError(ctx, w, err)
		return
	}

	out, err := h.Svc.ExtractAndSummarizeFile(ctx, data, uploadContentType(header.Header.Get("Content-Type"), header.Filename))
	if err != nil {
		writeSummarizeError(ctx, w, err)
		return
	}

	rec := record(ctx, h.History, history.RecordInput{
		SourceType: entity.SourceTypeFile,
		Text:       out.Text,
		Result:     out.Result,
	})
	respond.JSON(w, http.StatusOK, newSummaryResponse(out.Result, rec))
}

// uploadContentType returns the part's declared type, or the type implied by
// the file extension when the client sent none or a generic one.
func uploadContentType(declared, filename string) string {
	mediaType, _, err := mime.ParseMediaType(declared)
	if err == nil && mediaType != "application/octet-stream" {
		return declared
	}
	if t, ok := summarize.ContentTypeByExtension(filename); ok {
		return t
	}
	return declared
}
