package pagination_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"briefly/internal/common/pagination"
)

func TestParseQueryParams(t *testing.T) {
	t.Parallel()

	config := pagination.Config{
		DefaultLimit: 20,
		MaxLimit:     100,
	}

	tests := []struct {
		name      string
		query     string
		want      pagination.Params
		wantError bool
	}{
		{
			name:  "valid parameters",
			query: "limit=30&offset=60",
			want:  pagination.Params{Limit: 30, Offset: 60},
		},
		{
			name:  "no parameters (use defaults)",
			query: "",
			want:  pagination.Params{Limit: 20, Offset: 0},
		},
		{
			name:  "only offset parameter",
			query: "offset=5",
			want:  pagination.Params{Limit: 20, Offset: 5},
		},
		{
			name:  "limit at maximum",
			query: "limit=100",
			want:  pagination.Params{Limit: 100},
		},
		{
			name:      "limit above maximum",
			query:     "limit=101",
			wantError: true,
		},
		{
			name:      "zero limit",
			query:     "limit=0",
			wantError: true,
		},
		{
			name:      "negative offset",
			query:     "offset=-1",
			wantError: true,
		},
		{
			name:      "non-numeric limit",
			query:     "limit=abc",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/api/summaries?"+tt.query, nil)
			got, err := pagination.ParseQueryParams(req, config)

			if tt.wantError {
				if err == nil {
					t.Errorf("ParseQueryParams() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseQueryParams() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseQueryParams() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewMetadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		params   pagination.Params
		returned int
		total    int64
		wantMore bool
	}{
		{name: "first page with more", params: pagination.Params{Limit: 10}, returned: 10, total: 25, wantMore: true},
		{name: "last partial page", params: pagination.Params{Limit: 10, Offset: 20}, returned: 5, total: 25, wantMore: false},
		{name: "empty list", params: pagination.Params{Limit: 10}, returned: 0, total: 0, wantMore: false},
		{name: "offset past end", params: pagination.Params{Limit: 10, Offset: 50}, returned: 0, total: 25, wantMore: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := pagination.NewMetadata(tt.params, tt.returned, tt.total)
			if got.HasMore != tt.wantMore {
				t.Errorf("HasMore = %v, want %v", got.HasMore, tt.wantMore)
			}
			if got.Total != tt.total || got.Limit != tt.params.Limit || got.Offset != tt.params.Offset {
				t.Errorf("unexpected metadata %+v", got)
			}
		})
	}
}

func TestNewResponse_NilData(t *testing.T) {
	t.Parallel()

	resp := pagination.NewResponse[string](nil, pagination.Metadata{})
	if resp.Data == nil || len(resp.Data) != 0 {
		t.Errorf("expected empty non-nil data, got %#v", resp.Data)
	}
}
