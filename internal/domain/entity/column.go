// Package entity defines the domain model of the OED enzyme kinetics table:
// the column registry, query filters and the validation errors shared by all layers.
package entity

import "fmt"

// Column is the name of a column in the oed_data table.
type Column string

// Columns of the oed_data table.
const (
	ColumnEC                   Column = "ec"
	ColumnSubstrate            Column = "substrate"
	ColumnOrganism             Column = "organism"
	ColumnUniprot              Column = "uniprot"
	ColumnEnzymeType           Column = "enzymetype"
	ColumnPH                   Column = "ph"
	ColumnTemperature          Column = "temperature"
	ColumnSmiles               Column = "smiles"
	ColumnKcatValue            Column = "kcat_value"
	ColumnKcatPubMedID         Column = "kcat_pubmedid"
	ColumnKcatUnit             Column = "kcat_unit"
	ColumnKmValue              Column = "km_value"
	ColumnKmPubMedID           Column = "km_pubmedid"
	ColumnKmUnit               Column = "km_unit"
	ColumnKcatKmValue          Column = "kcatkm_value"
	ColumnKcatKmPubMedID       Column = "kcatkm_pubmedid"
	ColumnKcatKmUnit           Column = "kcatkm_unit"
	ColumnKcatKmThresholdDelta Column = "kcatkm_threshold_delta"
)

// allColumns lists the table columns in schema order.
var allColumns = []Column{
	ColumnEC,
	ColumnSubstrate,
	ColumnOrganism,
	ColumnUniprot,
	ColumnEnzymeType,
	ColumnPH,
	ColumnTemperature,
	ColumnSmiles,
	ColumnKcatValue,
	ColumnKcatPubMedID,
	ColumnKcatUnit,
	ColumnKmValue,
	ColumnKmPubMedID,
	ColumnKmUnit,
	ColumnKcatKmValue,
	ColumnKcatKmPubMedID,
	ColumnKcatKmUnit,
	ColumnKcatKmThresholdDelta,
}

var columnSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(allColumns))
	for _, c := range allColumns {
		set[string(c)] = struct{}{}
	}
	return set
}()

// StringFilterColumns are the columns filterable by case-insensitive exact match,
// in the order their predicates are emitted.
var StringFilterColumns = []Column{
	ColumnEC,
	ColumnSubstrate,
	ColumnOrganism,
	ColumnUniprot,
	ColumnEnzymeType,
	ColumnSmiles,
}

// RangeFilterColumns are the numeric columns accepting <col>_min / <col>_max bounds.
var RangeFilterColumns = []Column{
	ColumnPH,
	ColumnTemperature,
	ColumnKcatValue,
	ColumnKmValue,
	ColumnKcatKmValue,
	ColumnKcatKmThresholdDelta,
}

// PubMedFilterColumns are the literature reference columns filterable by exact id.
var PubMedFilterColumns = []Column{
	ColumnKcatPubMedID,
	ColumnKmPubMedID,
	ColumnKcatKmPubMedID,
}

var numericColumns = map[Column]struct{}{
	ColumnPH:                   {},
	ColumnTemperature:          {},
	ColumnKcatValue:            {},
	ColumnKcatPubMedID:         {},
	ColumnKmValue:              {},
	ColumnKmPubMedID:           {},
	ColumnKcatKmValue:          {},
	ColumnKcatKmPubMedID:       {},
	ColumnKcatKmThresholdDelta: {},
}

// IsNumeric reports whether the column holds floating point values.
func (c Column) IsNumeric() bool {
	_, ok := numericColumns[c]
	return ok
}

// Columns returns all table columns in schema order.
func Columns() []Column {
	out := make([]Column, len(allColumns))
	copy(out, allColumns)
	return out
}

// IsValidColumn reports whether name is one of the 18 table columns.
func IsValidColumn(name string) bool {
	_, ok := columnSet[name]
	return ok
}

// ParseColumn converts name into a Column, rejecting names outside the table.
func ParseColumn(name string) (Column, error) {
	if !IsValidColumn(name) {
		return "", &ValidationError{
			Field:   "column",
			Message: fmt.Sprintf("%q is not a valid OED column", name),
			Err:     ErrInvalidColumn,
		}
	}
	return Column(name), nil
}

// FilterValidColumns keeps the valid names of a projection list in their given order.
// Unknown names are dropped without error.
func FilterValidColumns(names []string) []string {
	valid := make([]string, 0, len(names))
	for _, name := range names {
		if IsValidColumn(name) {
			valid = append(valid, name)
		}
	}
	return valid
}

func contains(cols []Column, c Column) bool {
	for _, x := range cols {
		if x == c {
			return true
		}
	}
	return false
}
