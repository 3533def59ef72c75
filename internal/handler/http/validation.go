package http

import (
	"errors"
	"net/http"

	"briefly/internal/handler/http/respond"
)

const (
	maxAuthorizationHeaderBytes = 8 << 10
	maxPathBytes                = 2 << 10

	// DefaultMaxBodyBytes bounds request bodies, multipart uploads included.
	DefaultMaxBodyBytes int64 = 10 << 20
)

// InputValidation returns middleware that rejects oversized authorization
// headers and paths, and caps the request body at maxBodyBytes.
// Reading past the cap fails with *http.MaxBytesError, which handlers turn
// into 413.
func InputValidation(maxBodyBytes int64) func(http.Handler) http.Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.Header.Get("Authorization")) > maxAuthorizationHeaderBytes {
				respond.SafeError(w, http.StatusBadRequest, errors.New("authorization header too large"))
				return
			}
			if len(r.URL.Path) > maxPathBytes {
				respond.SafeError(w, http.StatusRequestURITooLong, errors.New("URI too long"))
				return
			}
			// Declared lengths are rejected up front; chunked bodies are cut by the reader.
			if r.ContentLength > maxBodyBytes {
				respond.SafeError(w, http.StatusRequestEntityTooLarge, errors.New("request body too large"))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			next.ServeHTTP(w, r)
		})
	}
}
