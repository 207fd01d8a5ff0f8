package pagination_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oed-api/internal/common/pagination"
)

func TestNewResponse_JSONShape(t *testing.T) {
	t.Parallel()

	next := "http://h/api/v1/data?limit=10&offset=10"
	resp := pagination.NewResponse([]int{1, 2},
		pagination.Page{Total: 100, Limit: 10, AutoPaginated: true},
		pagination.Links{Next: &next})

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"total":100,"offset":0,"limit":10,"data":[1,2],"auto_paginated":true,"next":"http://h/api/v1/data?limit=10&offset=10"}`,
		string(b))
}

func TestNewResponse_OmitsAutoPaginationKeys(t *testing.T) {
	t.Parallel()

	resp := pagination.NewResponse[int](nil, pagination.Page{Total: 50, Limit: 50}, pagination.Links{})

	b, err := json.Marshal(resp)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.NotContains(t, m, "auto_paginated")
	assert.NotContains(t, m, "next")
	assert.NotContains(t, m, "previous")
	assert.Equal(t, []any{}, m["data"])
}
