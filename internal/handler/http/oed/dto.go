// Package oed provides the HTTP handlers of the enzyme kinetics data API:
// filtered data export as JSON or CSV, and per-column distinct values.
package oed

// MetadataDTO is the response body of /api/v1/metadata.
type MetadataDTO struct {
	Column string   `json:"column" example:"organism"`
	Values []string `json:"values"`
}

const (
	dataErrorPrefix     = "Error retrieving data"
	metadataErrorPrefix = "Error retrieving metadata"
)
