package features

import (
	"RankGuard/internal/domain/models"
	"RankGuard/internal/services/scoring"
)

// Normalization anchors for the raw inputs.
const (
	// worstPosition caps position normalization: rank 1 maps to 1.0,
	// rank >= 100 to 0.0.
	worstPosition = 100.0
	// maxSources is the source count at which diversity saturates.
	maxSources = 3.0
	// maxSearchVolume caps search-volume normalization.
	maxSearchVolume = 100000.0
	// maxVolatilityStd is the position stdev at which inverse volatility
	// bottoms out.
	maxVolatilityStd = 20.0
)

// Builder assembles the fixed-width feature vector consumed by the learned
// scorer. Every slot is normalized to [0,1]; missing context slots default to
// a neutral value.
type Builder struct{}

// NewBuilder creates a feature builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build derives the 11-slot vector from observations, the statistical factor
// breakdown, the recognized pattern, and optional context. The slot order is
// part of the model contract.
func (b *Builder) Build(
	obs []models.Observation,
	breakdown models.FactorBreakdown,
	pattern models.PatternResult,
	ctx *models.ContextualInput,
) models.FeatureVector {
	var fv models.FeatureVector

	positions := models.Positions(obs)

	fv[models.FeatAvgPosition] = normalizePosition(positions)
	fv[models.FeatStability] = breakdown.Consistency
	fv[models.FeatFreshness] = breakdown.Freshness
	fv[models.FeatSourceDiversity] = sourceDiversity(obs)
	fv[models.FeatCompleteness] = completeness(obs)
	fv[models.FeatTrendStrength] = pattern.TrendStrength
	fv[models.FeatInverseVolatility] = inverseVolatility(positions)

	// Context slots: neutral midpoint when absent.
	fv[models.FeatIndustry] = industryFactor(ctx)
	fv[models.FeatCompetition] = 0.5
	fv[models.FeatSeasonality] = pattern.Seasonality
	fv[models.FeatSearchVolume] = 0.0
	if ctx != nil {
		if ctx.CompetitionLevel != nil {
			fv[models.FeatCompetition] = scoring.Clamp01(*ctx.CompetitionLevel)
		}
		if ctx.SeasonalityFactor != nil {
			fv[models.FeatSeasonality] = scoring.Clamp01(*ctx.SeasonalityFactor)
		}
		if ctx.SearchVolume != nil {
			fv[models.FeatSearchVolume] = scoring.Clamp01(*ctx.SearchVolume / maxSearchVolume)
		}
	}
	return fv
}

// normalizePosition maps the average position so that better (lower) ranks
// score higher: rank 1 -> 1.0, rank 100+ -> 0.0.
func normalizePosition(positions []float64) float64 {
	if len(positions) == 0 {
		return 0
	}
	avg := 0.0
	for _, p := range positions {
		avg += p
	}
	avg /= float64(len(positions))
	return scoring.Clamp01(1.0 - (avg-1.0)/(worstPosition-1.0))
}

func sourceDiversity(obs []models.Observation) float64 {
	sources := make(map[models.Source]struct{}, 4)
	for _, o := range obs {
		sources[o.Source] = struct{}{}
	}
	return scoring.Clamp01(float64(len(sources)) / maxSources)
}

// completeness is the fraction of observations carrying both click and
// impression data.
func completeness(obs []models.Observation) float64 {
	if len(obs) == 0 {
		return 0
	}
	full := 0
	for _, o := range obs {
		if o.Clicks != nil && o.Impressions != nil {
			full++
		}
	}
	return float64(full) / float64(len(obs))
}

func inverseVolatility(positions []float64) float64 {
	if len(positions) < 2 {
		return 0.5
	}
	return scoring.Clamp01(1.0 - scoring.PositionStdev(positions)/maxVolatilityStd)
}

func industryFactor(ctx *models.ContextualInput) float64 {
	if ctx == nil {
		return 0.5
	}
	switch ctx.Industry {
	case models.IndustryCompetitive:
		return 1.0
	case models.IndustryLowCompetition:
		return 0.0
	default:
		return 0.5
	}
}
