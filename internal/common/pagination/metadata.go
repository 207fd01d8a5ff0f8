package pagination

// Page is the outcome of the pagination policy for one request.
type Page struct {
	Total         int64 // Rows matching the filters, independent of limit/offset
	Limit         int   // Effective limit reported to the caller
	Offset        int   // Offset applied to the query
	AutoPaginated bool  // Whether the threshold cap was applied

	// QueryLimit is the LIMIT to issue, nil when every remaining row is wanted.
	QueryLimit *int
}

// Links holds absolute navigation URLs. Nil fields are omitted from responses.
type Links struct {
	Next     *string
	Previous *string
}
