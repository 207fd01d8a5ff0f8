package oed

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"oed-api/internal/repository"
)

const csvFilename = "oed_data.csv"

// csvHeader returns the requested columns as given, else the columns of the first
// record, else nothing.
func csvHeader(requested []string, records []repository.Record) []string {
	if len(requested) > 0 {
		return requested
	}
	if len(records) > 0 {
		return records[0].Columns
	}
	return nil
}

// writeCSV streams records as a CSV attachment. Cells for columns a record does not
// have are left blank; record fields outside the header are ignored.
func writeCSV(w http.ResponseWriter, requested []string, records []repository.Record) error {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+csvFilename)
	w.WriteHeader(http.StatusOK)

	header := csvHeader(requested, records)
	if len(header) == 0 {
		return nil
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(header))
	for _, rec := range records {
		for i, c := range header {
			v, _ := rec.Get(c)
			row[i] = formatCell(v)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(v any) string {
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
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
