// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"fmt"
	"strings"

	"oed-api/internal/domain/entity"
)

// Predicate is one SQL fragment bound to a single positional parameter.
// Template already carries its placeholder, e.g. "LOWER(ec) = LOWER($1)".
type Predicate struct {
	Template string
	Value    any
}

// group is the contribution of one filter: its predicates are OR-ed.
type group struct {
	predicates []Predicate
	// standalone groups are rendered without parentheses.
	standalone bool
}

func (g group) String() string {
	parts := make([]string, len(g.predicates))
	for i, p := range g.predicates {
		parts[i] = p.Template
	}
	if g.standalone {
		return strings.Join(parts, " OR ")
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// Condition is the ordered predicate list produced by ConditionBuilder.
type Condition struct {
	groups []group
}

// Where joins every group with AND. It returns the literal TRUE when no filter was set.
func (c Condition) Where() string {
	if len(c.groups) == 0 {
		return "TRUE"
	}
	parts := make([]string, len(c.groups))
	for i, g := range c.groups {
		parts[i] = g.String()
	}
	return strings.Join(parts, " AND ")
}

// Args returns the bound values in placeholder order ($1, $2, ...).
func (c Condition) Args() []any {
	args := make([]any, 0, len(c.groups))
	for _, g := range c.groups {
		for _, p := range g.predicates {
			args = append(args, p.Value)
		}
	}
	return args
}

// Predicates returns every predicate in emission order.
func (c Condition) Predicates() []Predicate {
	var out []Predicate
	for _, g := range c.groups {
		out = append(out, g.predicates...)
	}
	return out
}

// ConditionBuilder builds the WHERE clause shared by the data and count queries.
// It uses PostgreSQL numbered placeholders ($1, $2, ...) allocated from a single counter.
type ConditionBuilder struct{}

// NewConditionBuilder creates a new condition builder.
func NewConditionBuilder() *ConditionBuilder {
	return &ConditionBuilder{}
}

// Build translates filters into a Condition.
//
// Emission order is fixed so that generated SQL and parameters are reproducible:
// string columns (entity.StringFilterColumns order), then range bounds
// (entity.RangeFilterColumns, min before max), then PubMed ids.
// A filter key outside its column set yields an error wrapping entity.ErrInvalidColumn.
func (b *ConditionBuilder) Build(f entity.Filters) (Condition, error) {
	if err := f.Validate(); err != nil {
		return Condition{}, fmt.Errorf("Build: %w", err)
	}

	var cond Condition
	paramIndex := 1

	for _, col := range entity.StringFilterColumns {
		values := f.Strings[col]
		if len(values) == 0 {
			continue
		}
		g := group{predicates: make([]Predicate, 0, len(values))}
		for _, v := range values {
			var tmpl string
			if col == entity.ColumnEC && strings.Contains(v, "%") {
				tmpl = fmt.Sprintf("%s LIKE $%d", col, paramIndex)
			} else {
				tmpl = fmt.Sprintf("LOWER(%s) = LOWER($%d)", col, paramIndex)
			}
			g.predicates = append(g.predicates, Predicate{Template: tmpl, Value: v})
			paramIndex++
		}
		cond.groups = append(cond.groups, g)
	}

	for _, col := range entity.RangeFilterColumns {
		r := f.Ranges[col]
		if r.Min != nil {
			cond.groups = append(cond.groups, group{
				predicates: []Predicate{{Template: fmt.Sprintf("%s >= $%d", col, paramIndex), Value: *r.Min}},
				standalone: true,
			})
			paramIndex++
		}
		if r.Max != nil {
			cond.groups = append(cond.groups, group{
				predicates: []Predicate{{Template: fmt.Sprintf("%s <= $%d", col, paramIndex), Value: *r.Max}},
				standalone: true,
			})
			paramIndex++
		}
	}

	for _, col := range entity.PubMedFilterColumns {
		ids := f.PubMedIDs[col]
		if len(ids) == 0 {
			continue
		}
		g := group{predicates: make([]Predicate, 0, len(ids))}
		for _, id := range ids {
			g.predicates = append(g.predicates, Predicate{
				Template: fmt.Sprintf("%s = $%d", col, paramIndex),
				Value:    id,
			})
			paramIndex++
		}
		cond.groups = append(cond.groups, g)
	}

	return cond, nil
}
