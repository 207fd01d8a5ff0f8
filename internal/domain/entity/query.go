package entity

import (
	"fmt"
	"strings"
)

// Format is the serialization requested for /data responses.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat parses the format query parameter. An empty value selects JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", &ValidationError{
			Field:   "format",
			Message: fmt.Sprintf("must be one of json, csv (got %q)", s),
			Err:     ErrInvalidFormat,
		}
	}
}

// Range is an inclusive numeric bound on a column. Nil ends are open.
type Range struct {
	Min *float64
	Max *float64
}

// IsZero reports whether neither bound is set.
func (r Range) IsZero() bool {
	return r.Min == nil && r.Max == nil
}

// Filters holds the row filters of a query.
// Values of one column are OR-ed; different columns are AND-ed.
type Filters struct {
	Strings   map[Column][]string
	Ranges    map[Column]Range
	PubMedIDs map[Column][]float64
}

// IsEmpty reports whether no filter value is set.
func (f Filters) IsEmpty() bool {
	for _, v := range f.Strings {
		if len(v) > 0 {
			return false
		}
	}
	for _, r := range f.Ranges {
		if !r.IsZero() {
			return false
		}
	}
	for _, v := range f.PubMedIDs {
		if len(v) > 0 {
			return false
		}
	}
	return true
}

// Validate rejects filter keys that are not filterable in the given category.
func (f Filters) Validate() error {
	for c := range f.Strings {
		if !contains(StringFilterColumns, c) {
			return fmt.Errorf("string filter on %q: %w", c, ErrInvalidColumn)
		}
	}
	for c := range f.Ranges {
		if !contains(RangeFilterColumns, c) {
			return fmt.Errorf("range filter on %q: %w", c, ErrInvalidColumn)
		}
	}
	for c := range f.PubMedIDs {
		if !contains(PubMedFilterColumns, c) {
			return fmt.Errorf("pubmed filter on %q: %w", c, ErrInvalidColumn)
		}
	}
	return nil
}

// Query is a validated, normalized /data request.
type Query struct {
	Filters Filters
	// Columns is the requested projection as given by the caller, unknown names included.
	Columns []string
	Limit   *int
	Offset  *int
	Format  Format
}

// OffsetValue returns the offset, treating nil as 0.
func (q Query) OffsetValue() int {
	if q.Offset == nil {
		return 0
	}
	return *q.Offset
}
