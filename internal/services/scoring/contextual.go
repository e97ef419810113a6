package scoring

import "RankGuard/internal/domain/models"

// ContextualAdjuster applies small additive industry/competition/seasonality
// corrections to a hybrid score. Each correction is within roughly +-0.05 and
// the result never leaves [0,1]. Partial or nil context is fine: missing
// fields contribute nothing.
type ContextualAdjuster struct{}

// NewContextualAdjuster creates an adjuster.
func NewContextualAdjuster() *ContextualAdjuster {
	return &ContextualAdjuster{}
}

// Adjust applies the contextual corrections to score.
func (a *ContextualAdjuster) Adjust(score float64, ctx *models.ContextualInput) float64 {
	if ctx == nil {
		return Clamp01(score)
	}

	adj := 0.0
	switch ctx.Industry {
	case models.IndustryCompetitive:
		adj -= 0.05
	case models.IndustryLowCompetition:
		adj += 0.05
	}
	if ctx.CompetitionLevel != nil {
		switch {
		case *ctx.CompetitionLevel >= 0.8:
			adj -= 0.03
		case *ctx.CompetitionLevel <= 0.2:
			adj += 0.03
		}
	}
	if ctx.SeasonalityFactor != nil && *ctx.SeasonalityFactor >= 0.7 {
		// Strong seasonality means the current reading is less trustworthy.
		adj -= 0.02
	}
	return Clamp01(score + adj)
}
