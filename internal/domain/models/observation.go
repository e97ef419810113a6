package models

import "time"

// Source identifies where a ranking observation came from.
type Source string

const (
	SourcePrimaryAPI   Source = "primary_api"
	SourceSecondaryAPI Source = "secondary_api"
	SourceManual       Source = "manual"
	SourceImport       Source = "import"
)

// Trusted reports whether the source is one of the high-trust feeds.
func (s Source) Trusted() bool {
	return s == SourcePrimaryAPI || s == SourceSecondaryAPI
}

// Observation is one raw ranking reading for a subject at a point in time.
// Created by the ingestion pipeline; read-only to the scoring engine.
// Duplicates by (source, observed_at) are permitted and not deduplicated here.
type Observation struct {
	Source      Source    `json:"source"`
	Position    *float64  `json:"position,omitempty"`
	Clicks      *int      `json:"clicks,omitempty"`
	Impressions *int      `json:"impressions,omitempty"`
	ObservedAt  time.Time `json:"observed_at"`
}

// HasPosition reports whether a usable position value is present.
func (o Observation) HasPosition() bool { return o.Position != nil }

// Positions extracts the position series from observations, in input order.
// Observations without a position are skipped.
func Positions(obs []Observation) []float64 {
	out := make([]float64, 0, len(obs))
	for _, o := range obs {
		if o.Position != nil {
			out = append(out, *o.Position)
		}
	}
	return out
}
