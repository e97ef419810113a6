package models

import "math"

// Industry competitiveness labels accepted in contextual input.
const (
	IndustryCompetitive    = "competitive"
	IndustryModerate       = "moderate"
	IndustryLowCompetition = "low_competition"
)

// ContextualInput carries optional industry/competition/seasonality context
// for a scoring call. Any field may be left at its zero value; missing fields
// contribute a neutral adjustment.
type ContextualInput struct {
	Industry          string   `json:"industry,omitempty" validate:"omitempty,oneof=competitive moderate low_competition"`
	CompetitionLevel  *float64 `json:"competition_level,omitempty" validate:"omitempty"`
	SeasonalityFactor *float64 `json:"seasonality_factor,omitempty"`
	SearchVolume      *float64 `json:"search_volume,omitempty"`
}

// WeightConfig holds the statistical factor weights. Weights must sum to
// 1.0 within 1e-6 or scoring fails with a validation error.
type WeightConfig struct {
	Freshness   float64 `json:"freshness" yaml:"freshness" validate:"gte=0,lte=1"`
	Consistency float64 `json:"consistency" yaml:"consistency" validate:"gte=0,lte=1"`
	Reliability float64 `json:"reliability" yaml:"reliability" validate:"gte=0,lte=1"`
	Coverage    float64 `json:"coverage" yaml:"coverage" validate:"gte=0,lte=1"`
}

// DefaultWeights returns the standard factor weighting.
func DefaultWeights() WeightConfig {
	return WeightConfig{Freshness: 0.30, Consistency: 0.30, Reliability: 0.25, Coverage: 0.15}
}

// Sum returns the total of all four weights.
func (w WeightConfig) Sum() float64 {
	return w.Freshness + w.Consistency + w.Reliability + w.Coverage
}

// Valid reports whether the weights sum to 1.0 within tolerance.
func (w WeightConfig) Valid() bool {
	return math.Abs(w.Sum()-1.0) <= 1e-6
}
