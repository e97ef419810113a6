package scoring

import (
	"math"

	"RankGuard/internal/domain/models"
	"RankGuard/pkg/errs"
)

// HybridWeights splits the final score between the statistical and learned
// sub-scores. The 0.40/0.60 split and the multiplicative anomaly gate on the
// ML side are a tuned business rule, not a derived optimum.
type HybridWeights struct {
	Statistical float64 `yaml:"statistical" default:"0.40"`
	ML          float64 `yaml:"ml" default:"0.60"`
}

// DefaultHybridWeights returns the standard split.
func DefaultHybridWeights() HybridWeights {
	return HybridWeights{Statistical: 0.40, ML: 0.60}
}

// Valid reports whether the split sums to 1.0 within tolerance.
func (w HybridWeights) Valid() bool {
	return math.Abs(w.Statistical+w.ML-1.0) <= 1e-6
}

// HybridCombiner merges the statistical, learned, and anomaly scores into the
// final confidence value and assigns its level bucket.
type HybridCombiner struct {
	weights  HybridWeights
	adjuster *ContextualAdjuster
}

// NewHybridCombiner creates a combiner. Weights that do not sum to 1.0 are a
// configuration defect and fail loudly on first use.
func NewHybridCombiner(weights HybridWeights, adjuster *ContextualAdjuster) *HybridCombiner {
	return &HybridCombiner{weights: weights, adjuster: adjuster}
}

// Combine computes
//
//	hybrid = clamp01(statistical*0.40 + ml*0.60*anomalyScore)
//
// then applies contextual adjustments and re-clamps. Inputs outside [0,1]
// indicate a programming defect upstream and are rejected.
func (c *HybridCombiner) Combine(statistical, ml, anomalyScore float64, ctx *models.ContextualInput) (float64, models.ConfidenceLevel, error) {
	if !c.weights.Valid() {
		return 0, "", errs.Validationf("hybrid weights must sum to 1.0, got %.6f", c.weights.Statistical+c.weights.ML)
	}
	for name, v := range map[string]float64{"statistical": statistical, "ml": ml, "anomaly": anomalyScore} {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return 0, "", errs.Validationf("%s score out of range: %v", name, v)
		}
	}

	hybrid := Clamp01(statistical*c.weights.Statistical + ml*c.weights.ML*anomalyScore)
	hybrid = c.adjuster.Adjust(hybrid, ctx)
	return hybrid, models.LevelFor(hybrid), nil
}
