package oed

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"oed-api/internal/common/pagination"
	"oed-api/internal/domain/entity"
)

const (
	paramColumns = "columns"
	paramFormat  = "format"
	suffixMin    = "_min"
	suffixMax    = "_max"
)

// parseQuery converts the query string of a /data request into an entity.Query.
//
// Query parameters:
//   - ec, substrate, organism, uniprot, enzymetype, smiles: repeated string filters
//   - <numeric column>_min, <numeric column>_max: inclusive float bounds
//   - kcat_pubmedid, km_pubmedid, kcatkm_pubmedid: repeated float ids
//   - columns: repeated projection
//   - format: json (default) or csv
//   - limit, offset: see pagination.ParseQueryParams
func parseQuery(r *http.Request) (entity.Query, error) {
	var q entity.Query
	values := r.URL.Query()

	format, err := entity.ParseFormat(values.Get(paramFormat))
	if err != nil {
		return q, err
	}
	q.Format = format

	page, err := pagination.ParseQueryParams(r)
	if err != nil {
		return q, err
	}
	q.Limit = page.Limit
	offset := page.Offset
	q.Offset = &offset

	if cols, ok := values[paramColumns]; ok {
		q.Columns = append([]string(nil), cols...)
	}

	for _, col := range entity.StringFilterColumns {
		if v, ok := values[string(col)]; ok && len(v) > 0 {
			if q.Filters.Strings == nil {
				q.Filters.Strings = make(map[entity.Column][]string)
			}
			q.Filters.Strings[col] = append([]string(nil), v...)
		}
	}

	for _, col := range entity.RangeFilterColumns {
		rng, err := parseRange(values, col)
		if err != nil {
			return q, err
		}
		if rng.IsZero() {
			continue
		}
		if q.Filters.Ranges == nil {
			q.Filters.Ranges = make(map[entity.Column]entity.Range)
		}
		q.Filters.Ranges[col] = rng
	}

	for _, col := range entity.PubMedFilterColumns {
		raw, ok := values[string(col)]
		if !ok || len(raw) == 0 {
			continue
		}
		ids := make([]float64, 0, len(raw))
		for _, s := range raw {
			f, err := parseFloat(string(col), s)
			if err != nil {
				return q, err
			}
			ids = append(ids, f)
		}
		if q.Filters.PubMedIDs == nil {
			q.Filters.PubMedIDs = make(map[entity.Column][]float64)
		}
		q.Filters.PubMedIDs[col] = ids
	}

	return q, nil
}

func parseRange(values url.Values, col entity.Column) (entity.Range, error) {
	var rng entity.Range
	for _, bound := range []struct {
		suffix string
		dst    **float64
	}{
		{suffixMin, &rng.Min},
		{suffixMax, &rng.Max},
	} {
		key := string(col) + bound.suffix
		s := values.Get(key)
		if s == "" {
			continue
		}
		f, err := parseFloat(key, s)
		if err != nil {
			return rng, err
		}
		*bound.dst = &f
	}
	return rng, nil
}

func parseFloat(field, s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &entity.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be a number (got %q)", s),
			Err:     entity.ErrInvalidParameter,
		}
	}
	return f, nil
}

// requestURL returns the absolute URL of r, used as the base of navigation links.
func requestURL(r *http.Request) *url.URL {
	u := *r.URL
	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}
	u.Host = r.Host
	return &u
}
