package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"oed-api/internal/domain/entity"
)

// Record is one row of the oed_data table.
// Columns keeps the order returned by the database; Values maps column name to value
// (nil for SQL NULL).
type Record struct {
	Columns []string
	Values  map[string]any
}

// NewRecord builds a Record from parallel column and value slices.
func NewRecord(columns []string, values []any) Record {
	r := Record{
		Columns: make([]string, len(columns)),
		Values:  make(map[string]any, len(columns)),
	}
	copy(r.Columns, columns)
	for i, c := range columns {
		r.Values[c] = values[i]
	}
	return r
}

// Get returns the value of column c and whether the record has that column.
func (r Record) Get(c string) (any, bool) {
	v, ok := r.Values[c]
	return v, ok
}

// MarshalJSON renders the record as a JSON object with keys in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Values[c])
		if err != nil {
			return nil, fmt.Errorf("marshal column %s: %w", c, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// OEDRepository is the read-only data access contract for the oed_data table.
type OEDRepository interface {
	// Fetch returns the rows matching q.Filters, projected onto the valid names of
	// q.Columns (all columns when none is valid), with q.Limit / q.Offset applied.
	Fetch(ctx context.Context, q entity.Query) ([]Record, error)
	// Count returns the number of rows matching q.Filters. Limit and offset are ignored.
	Count(ctx context.Context, q entity.Query) (int64, error)
	// DistinctValues returns the sorted distinct non-null values of column.
	// Returns an error wrapping entity.ErrInvalidColumn for names outside the table.
	DistinctValues(ctx context.Context, column string) ([]string, error)
}
