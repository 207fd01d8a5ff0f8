package requestid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	assert.Equal(t, "req-7", FromContext(WithRequestID(context.Background(), "req-7")))
	assert.Empty(t, FromContext(context.Background()))
	assert.Empty(t, FromContext(context.WithValue(context.Background(), RequestIDKey, 42)))
}

/* ───────────── Middleware ───────────── */

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantKeep bool
	}{
		{"missing header", "", false},
		{"client id reused", "abc-123", true},
		{"dotted and underscored", "svc.oed_client-01", true},
		{"max length", strings.Repeat("a", maxIDLength), true},
		{"too long", strings.Repeat("a", maxIDLength+1), false},
		{"log injection", "id\nlevel=ERROR", false},
		{"spaces", "two words", false},
		{"quotes", `"quoted"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ctxID, hdrID string
			h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctxID = FromContext(r.Context())
				hdrID = r.Header.Get(RequestIDHeader)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/data", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			got := rr.Header().Get(RequestIDHeader)
			require.NotEmpty(t, got)
			assert.Equal(t, got, ctxID)
			assert.Equal(t, got, hdrID)

			if tt.wantKeep {
				assert.Equal(t, tt.header, got)
				return
			}
			assert.NotEqual(t, tt.header, got)
			parsed, err := uuid.Parse(got)
			require.NoError(t, err)
			assert.Equal(t, uuid.Version(4), parsed.Version())
		})
	}
}

func TestMiddleware_GeneratesDistinctIDs(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	seen := make(map[string]bool)
	for range 50 {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/live", nil))
		id := rr.Header().Get(RequestIDHeader)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
