package pagination

import (
	"fmt"
	"net/http"
	"strconv"

	"oed-api/internal/domain/entity"
)

// Params represents the limit/offset query parameters of a /data request.
type Params struct {
	Limit  *int // nil when the caller did not ask for a limit
	Offset int  // defaults to 0
}

// ParseQueryParams parses pagination parameters from HTTP request query string.
//
// Query parameters:
//   - limit: optional non-negative integer
//   - offset: optional non-negative integer, default 0
//
// Returns a validation error wrapping entity.ErrInvalidParameter on malformed values.
func ParseQueryParams(r *http.Request) (Params, error) {
	var params Params
	q := r.URL.Query()

	if limitStr := q.Get(paramLimit); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return params, invalid(paramLimit, "must be an integer")
		}
		params.Limit = &limit
	}

	if offsetStr := q.Get(paramOffset); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return params, invalid(paramOffset, "must be an integer")
		}
		params.Offset = offset
	}

	return params, params.Validate()
}

func invalid(field, msg string) error {
	return &entity.ValidationError{Field: field, Message: msg, Err: entity.ErrInvalidParameter}
}

func itoa(i int) string { return strconv.Itoa(i) }

// String renders params for logs.
func (p Params) String() string {
	if p.Limit == nil {
		return fmt.Sprintf("limit=none offset=%d", p.Offset)
	}
	return fmt.Sprintf("limit=%d offset=%d", *p.Limit, p.Offset)
}
