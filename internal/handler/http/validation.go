package http

import (
	"errors"
	"net/http"
	"strings"

	"oed-api/internal/handler/http/respond"
)

// Request line limits enforced by InputValidation.
const (
	maxPathLength  = 2048
	maxQueryLength = 16 << 10
	maxQueryParams = 500
)

// InputValidation returns middleware that rejects oversized request lines before any
// query parameter is parsed. It enforces limits on:
//   - URI path length (2KB), 414
//   - raw query length (16KB), 414
//   - number of query parameters (500), 400
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path) > maxPathLength {
				respond.Error(w, http.StatusRequestURITooLong, errors.New("URI too long"))
				return
			}

			raw := r.URL.RawQuery
			if len(raw) > maxQueryLength {
				respond.Error(w, http.StatusRequestURITooLong, errors.New("query string too long"))
				return
			}
			if raw != "" && strings.Count(raw, "&")+1 > maxQueryParams {
				respond.Error(w, http.StatusBadRequest, errors.New("too many query parameters"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
