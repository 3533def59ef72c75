package responsewriter

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWrap_Defaults(t *testing.T) {
	w := Wrap(httptest.NewRecorder())
	if w.StatusCode() != http.StatusOK || w.BytesWritten() != 0 || w.HeaderWritten() {
		t.Errorf("unexpected initial state: status=%d bytes=%d wrote=%v", w.StatusCode(), w.BytesWritten(), w.HeaderWritten())
	}
}

func TestResponseWriter(t *testing.T) {
	tests := []struct {
		name       string
		handler    func(w http.ResponseWriter)
		wantStatus int
		wantBytes  int
	}{
		{
			name:       "explicit status",
			handler:    func(w http.ResponseWriter) { w.WriteHeader(http.StatusCreated) },
			wantStatus: http.StatusCreated,
		},
		{
			name:       "implicit 200 on write",
			handler:    func(w http.ResponseWriter) { _, _ = w.Write([]byte("hello")) },
			wantStatus: http.StatusOK,
			wantBytes:  5,
		},
		{
			name: "second WriteHeader ignored",
			handler: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusBadGateway)
				w.WriteHeader(http.StatusOK)
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name: "bytes accumulate",
			handler: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusAccepted)
				_, _ = w.Write([]byte(`{"a":`))
				_, _ = w.Write([]byte(`1}`))
			},
			wantStatus: http.StatusAccepted,
			wantBytes:  7,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			w := Wrap(rec)
			tt.handler(w)

			if w.StatusCode() != tt.wantStatus {
				t.Errorf("StatusCode() = %d, want %d", w.StatusCode(), tt.wantStatus)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("underlying status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if w.BytesWritten() != tt.wantBytes {
				t.Errorf("BytesWritten() = %d, want %d", w.BytesWritten(), tt.wantBytes)
			}
		})
	}
}

func TestResponseWriter_Flush(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)
	w.Flush()

	if !rec.Flushed {
		t.Error("expected underlying recorder to be flushed")
	}
	if !w.HeaderWritten() {
		t.Error("flush should commit the status line")
	}
}

func TestResponseWriter_ResponseController(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	// the recorder does not support deadlines; reaching it proves Unwrap works
	err := http.NewResponseController(w).SetWriteDeadline(time.Now().Add(time.Second))
	if err == nil {
		t.Skip("recorder unexpectedly supports write deadlines")
	}
	if !errors.Is(err, http.ErrNotSupported) {
		t.Errorf("SetWriteDeadline error = %v, want ErrNotSupported", err)
	}
}
