// Package oed provides the read use cases of the enzyme kinetics table:
// filtered, auto-paginated data queries and per-column distinct values.
package oed

import (
	"context"
	"fmt"

	"oed-api/internal/common/pagination"
	"oed-api/internal/domain/entity"
	"oed-api/internal/observability/metrics"
	"oed-api/internal/repository"
)

// Service orchestrates the repository and the pagination policy.
type Service struct {
	Repo       repository.OEDRepository
	Pagination pagination.Config
}

// DataResult is the outcome of a data query.
type DataResult struct {
	Records []repository.Record
	Page    pagination.Page
}

// Query counts the rows matching q, applies the pagination policy and fetches the page.
// Invalid filters are rejected before any SQL runs.
func (s *Service) Query(ctx context.Context, q entity.Query) (*DataResult, error) {
	if err := q.Filters.Validate(); err != nil {
		return nil, err
	}
	if q.Offset != nil && *q.Offset < 0 {
		return nil, &entity.ValidationError{Field: "offset", Message: "must be greater than or equal to 0", Err: entity.ErrInvalidParameter}
	}

	total, err := s.Repo.Count(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	offset := q.OffsetValue()
	page := pagination.Decide(total, q.Limit, offset, s.Pagination)

	fetch := q
	fetch.Limit = page.QueryLimit
	fetch.Offset = &offset

	records, err := s.Repo.Fetch(ctx, fetch)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}

	metrics.RecordQueryResult(total, len(records))
	return &DataResult{Records: records, Page: page}, nil
}

// Values returns the sorted distinct non-null values of column.
// Returns an error wrapping entity.ErrInvalidColumn for names outside the table.
func (s *Service) Values(ctx context.Context, column string) ([]string, error) {
	if _, err := entity.ParseColumn(column); err != nil {
		return nil, err
	}
	values, err := s.Repo.DistinctValues(ctx, column)
	if err != nil {
		return nil, fmt.Errorf("distinct values: %w", err)
	}
	return values, nil
}
