package pagination_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oed-api/internal/common/pagination"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestBuildLinks_FirstPage(t *testing.T) {
	t.Parallel()

	u := mustURL(t, "http://api.example.org/api/v1/data")
	page := pagination.Page{Total: 100, Limit: 10, Offset: 0, AutoPaginated: true}

	links := pagination.BuildLinks(u, page)

	require.NotNil(t, links.Next)
	assert.Equal(t, "http://api.example.org/api/v1/data?limit=10&offset=10", *links.Next)
	assert.Nil(t, links.Previous)
}

func TestBuildLinks_MiddlePage(t *testing.T) {
	t.Parallel()

	u := mustURL(t, "http://localhost:8080/api/v1/data?organism=Human&organism=Mouse&offset=20&auto_paginated=true")
	page := pagination.Page{Total: 100, Limit: 10, Offset: 20, AutoPaginated: true}

	links := pagination.BuildLinks(u, page)

	require.NotNil(t, links.Next)
	require.NotNil(t, links.Previous)

	next := mustURL(t, *links.Next)
	assert.Equal(t, "/api/v1/data", next.Path)
	assert.Equal(t, []string{"Human", "Mouse"}, next.Query()["organism"])
	assert.Equal(t, "30", next.Query().Get("offset"))
	assert.Equal(t, "10", next.Query().Get("limit"))
	assert.False(t, next.Query().Has("auto_paginated"))

	prev := mustURL(t, *links.Previous)
	assert.Equal(t, "10", prev.Query().Get("offset"))
	assert.Equal(t, "10", prev.Query().Get("limit"))
	assert.Equal(t, []string{"Human", "Mouse"}, prev.Query()["organism"])
}

func TestBuildLinks_LastPage(t *testing.T) {
	t.Parallel()

	u := mustURL(t, "https://api.example.org/api/v1/data?offset=95")
	page := pagination.Page{Total: 100, Limit: 10, Offset: 95, AutoPaginated: true}

	links := pagination.BuildLinks(u, page)

	assert.Nil(t, links.Next)
	require.NotNil(t, links.Previous)
	assert.Equal(t, "https://api.example.org/api/v1/data?limit=10&offset=85", *links.Previous)
}

func TestBuildLinks_PreviousClampsAtZero(t *testing.T) {
	t.Parallel()

	u := mustURL(t, "http://h/api/v1/data?offset=3")
	page := pagination.Page{Total: 100, Limit: 10, Offset: 3, AutoPaginated: true}

	links := pagination.BuildLinks(u, page)

	require.NotNil(t, links.Previous)
	assert.Equal(t, "0", mustURL(t, *links.Previous).Query().Get("offset"))
}

func TestBuildLinks_NotAutoPaginated(t *testing.T) {
	t.Parallel()

	u := mustURL(t, "http://h/api/v1/data?limit=5&offset=10")
	page := pagination.Page{Total: 100, Limit: 5, Offset: 10}

	links := pagination.BuildLinks(u, page)

	assert.Nil(t, links.Next)
	assert.Nil(t, links.Previous)
}

func TestBuildLinks_RequestURLUntouched(t *testing.T) {
	t.Parallel()

	raw := "http://h/api/v1/data?ec=1.1.%25&offset=10"
	u := mustURL(t, raw)
	page := pagination.Page{Total: 100, Limit: 10, Offset: 10, AutoPaginated: true}

	_ = pagination.BuildLinks(u, page)

	assert.Equal(t, raw, u.String())
}
