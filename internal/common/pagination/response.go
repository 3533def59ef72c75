package pagination

// Metadata describes the window returned in a Response.
type Metadata struct {
	Total   int64 `json:"total"`    // Total number of items across all pages
	Limit   int   `json:"limit"`    // Items per page
	Offset  int   `json:"offset"`   // Items skipped
	HasMore bool  `json:"has_more"` // Whether items exist past this window
}

// NewMetadata builds the metadata for a window of returned items out of total.
func NewMetadata(params Params, returned int, total int64) Metadata {
	return Metadata{
		Total:   total,
		Limit:   params.Limit,
		Offset:  params.Offset,
		HasMore: int64(params.Offset+returned) < total,
	}
}

// Response is a generic paginated response wrapper.
type Response[T any] struct {
	Data       []T      `json:"data"`       // Items of the current window
	Pagination Metadata `json:"pagination"` // Pagination metadata
}

// NewResponse creates a new paginated response. A nil data slice is encoded as [].
func NewResponse[T any](data []T, metadata Metadata) Response[T] {
	if data == nil {
		data = []T{}
	}
	return Response[T]{
		Data:       data,
		Pagination: metadata,
	}
}
