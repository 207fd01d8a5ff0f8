package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"oed-api/internal/domain/entity"
	"oed-api/internal/observability/metrics"
	"oed-api/internal/observability/tracing"
	"oed-api/internal/repository"
)

// TableName is the schema-qualified table served by the API.
const TableName = "oed.oed_data"

// Querier is the subset of *sql.DB used by OEDRepo.
// circuitbreaker.DBCircuitBreaker satisfies it as well.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type OEDRepo struct {
	db      Querier
	builder *ConditionBuilder
}

func NewOEDRepo(db Querier) repository.OEDRepository {
	return &OEDRepo{
		db:      db,
		builder: NewConditionBuilder(),
	}
}

// selectColumns returns the valid requested columns, or "*" when none is valid.
func selectColumns(requested []string) []string {
	cols := entity.FilterValidColumns(requested)
	if len(cols) == 0 {
		return []string{"*"}
	}
	return cols
}

// buildFetch assembles SELECT <cols> FROM oed.oed_data WHERE <cond> [LIMIT n] [OFFSET m].
// LIMIT and OFFSET are literal integers, emitted whenever set (OFFSET 0 included).
func (repo *OEDRepo) buildFetch(q entity.Query) (string, []any, error) {
	cond, err := repo.builder.Build(q.Filters)
	if err != nil {
		return "", nil, err
	}
	b := sq.Select(selectColumns(q.Columns)...).
		From(TableName).
		Where(cond.Where(), cond.Args()...)

	if q.Limit != nil {
		if *q.Limit < 0 {
			return "", nil, fmt.Errorf("limit %d: %w", *q.Limit, entity.ErrInvalidParameter)
		}
		b = b.Limit(uint64(*q.Limit))
	}
	if q.Offset != nil {
		if *q.Offset < 0 {
			return "", nil, fmt.Errorf("offset %d: %w", *q.Offset, entity.ErrInvalidParameter)
		}
		b = b.Offset(uint64(*q.Offset))
	}
	return b.ToSql()
}

func (repo *OEDRepo) buildCount(q entity.Query) (string, []any, error) {
	cond, err := repo.builder.Build(q.Filters)
	if err != nil {
		return "", nil, err
	}
	return sq.Select("COUNT(*) AS count").
		From(TableName).
		Where(cond.Where(), cond.Args()...).
		ToSql()
}

func (repo *OEDRepo) Fetch(ctx context.Context, q entity.Query) ([]repository.Record, error) {
	query, args, err := repo.buildFetch(q)
	if err != nil {
		return nil, fmt.Errorf("Fetch: %w", err)
	}

	ctx, span := startSpan(ctx, "fetch", query)
	defer span.End()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("fetch", time.Since(start)) }()

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		recordSpanError(span, err)
		metrics.RecordQueryError("fetch")
		return nil, fmt.Errorf("Fetch: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records, err := scanRecords(rows)
	if err != nil {
		recordSpanError(span, err)
		metrics.RecordQueryError("fetch")
		return nil, fmt.Errorf("Fetch: %w", err)
	}
	span.SetAttributes(attribute.Int("db.rows_returned", len(records)))
	return records, nil
}

// Count runs through QueryContext rather than QueryRowContext so a circuit-breaking
// Querier sees the error.
func (repo *OEDRepo) Count(ctx context.Context, q entity.Query) (int64, error) {
	query, args, err := repo.buildCount(q)
	if err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}

	ctx, span := startSpan(ctx, "count", query)
	defer span.End()
	start := time.Now()
	defer func() { metrics.RecordDBQuery("count", time.Since(start)) }()

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		recordSpanError(span, err)
		metrics.RecordQueryError("count")
		return 0, fmt.Errorf("Count: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var count int64
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			recordSpanError(span, err)
			metrics.RecordQueryError("count")
			return 0, fmt.Errorf("Count: Scan: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		recordSpanError(span, err)
		metrics.RecordQueryError("count")
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

func (repo *OEDRepo) DistinctValues(ctx context.Context, column string) ([]string, error) {
	col, err := entity.ParseColumn(column)
	if err != nil {
		return nil, fmt.Errorf("DistinctValues: %w", err)
	}
	name := string(col)
	query, args, err := sq.Select(name).
		Distinct().
		From(TableName).
		Where(name + " IS NOT NULL").
		OrderBy(name).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("DistinctValues: %w", err)
	}

	ctx, span := startSpan(ctx, "distinct", query)
	defer span.End()
	span.SetAttributes(attribute.String("oed.column", name))
	start := time.Now()
	defer func() { metrics.RecordDBQuery("distinct", time.Since(start)) }()

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		recordSpanError(span, err)
		metrics.RecordQueryError("distinct")
		return nil, fmt.Errorf("DistinctValues: %w", err)
	}
	defer func() { _ = rows.Close() }()

	values := make([]string, 0, 64)
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			recordSpanError(span, err)
			metrics.RecordQueryError("distinct")
			return nil, fmt.Errorf("DistinctValues: Scan: %w", err)
		}
		s := stringify(v)
		if s == "" {
			continue
		}
		values = append(values, s)
	}
	if err := rows.Err(); err != nil {
		recordSpanError(span, err)
		metrics.RecordQueryError("distinct")
		return nil, fmt.Errorf("DistinctValues: %w", err)
	}
	return values, nil
}

/* ───────────────────────── helpers ───────────────────────── */

// scanRecords reads every row into a Record, keeping the column order of the result set.
func scanRecords(rows *sql.Rows) ([]repository.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("Columns: %w", err)
	}

	records := make([]repository.Record, 0, 100)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		for i, v := range values {
			values[i] = normalize(v, entity.Column(cols[i]))
		}
		records = append(records, repository.NewRecord(cols, values))
	}
	return records, rows.Err()
}

// normalize converts driver values into JSON-friendly Go values.
// NUMERIC columns arrive as text from the driver and are parsed into float64.
func normalize(v any, col entity.Column) any {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	if s, ok := v.(string); ok && col.IsNumeric() {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return v
}

// stringify renders a scanned value as the text used by the metadata endpoint.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}

func startSpan(ctx context.Context, operation, query string) (context.Context, trace.Span) {
	return tracing.GetTracer().Start(ctx, "db."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", operation),
			attribute.String("db.sql.table", TableName),
			attribute.String("db.statement", query),
		),
	)
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
