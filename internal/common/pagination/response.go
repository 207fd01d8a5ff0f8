package pagination

// Response is the JSON envelope of /data.
// auto_paginated, next and previous only appear on auto-paginated pages.
type Response[T any] struct {
	Total         int64   `json:"total"`
	Offset        int     `json:"offset"`
	Limit         int     `json:"limit"`
	Data          []T     `json:"data"`
	AutoPaginated bool    `json:"auto_paginated,omitempty"`
	Next          *string `json:"next,omitempty"`
	Previous      *string `json:"previous,omitempty"`
}

// NewResponse creates the envelope for a page of data. A nil slice is rendered as [].
func NewResponse[T any](data []T, page Page, links Links) Response[T] {
	if data == nil {
		data = []T{}
	}
	return Response[T]{
		Total:         page.Total,
		Offset:        page.Offset,
		Limit:         page.Limit,
		Data:          data,
		AutoPaginated: page.AutoPaginated,
		Next:          links.Next,
		Previous:      links.Previous,
	}
}
