package model

import (
	"math"

	"RankGuard/internal/domain/models"
	"RankGuard/pkg/errs"
)

// Scorer is the learned half of the hybrid score: a fixed feed-forward
// network (11 inputs -> 4 tanh hidden units -> 1 sigmoid output) evaluated as
// a pure function of the feature vector and a versioned weights artifact.
type Scorer struct {
	registry *Registry
}

// NewScorer creates a scorer backed by the given weights registry.
func NewScorer(registry *Registry) *Scorer {
	return &Scorer{registry: registry}
}

// Score runs the forward pass for the requested model version. An empty
// version selects the registry default. The returned weights carry the
// version and training metadata for traceability.
func (s *Scorer) Score(features models.FeatureVector, version string) (float64, models.ModelWeights, error) {
	w, err := s.registry.Get(version)
	if err != nil {
		return 0, models.ModelWeights{}, err
	}
	return Forward(features, w), w, nil
}

// Forward evaluates the network. Exposed separately so tests can pin the
// numeric behavior of a known weights artifact.
func Forward(features models.FeatureVector, w models.ModelWeights) float64 {
	var hidden [models.HiddenUnits]float64
	for j := 0; j < models.HiddenUnits; j++ {
		sum := w.B1[j]
		for i := 0; i < models.FeatureCount; i++ {
			sum += w.W1[j][i] * features[i]
		}
		hidden[j] = math.Tanh(sum)
	}

	out := w.B2
	for j := 0; j < models.HiddenUnits; j++ {
		out += w.W2[j] * hidden[j]
	}
	return sigmoid(out)
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// validateWeights rejects artifacts that do not match the fixed topology.
func validateWeights(w models.ModelWeights) error {
	if w.Version == "" {
		return errs.Validation("model weights missing version")
	}
	for j := 0; j < models.HiddenUnits; j++ {
		for i := 0; i < models.FeatureCount; i++ {
			if math.IsNaN(w.W1[j][i]) || math.IsInf(w.W1[j][i], 0) {
				return errs.Validationf("model %s: non-finite weight at w1[%d][%d]", w.Version, j, i)
			}
		}
		if math.IsNaN(w.B1[j]) || math.IsNaN(w.W2[j]) {
			return errs.Validationf("model %s: non-finite hidden parameters", w.Version)
		}
	}
	if math.IsNaN(w.B2) {
		return errs.Validationf("model %s: non-finite output bias", w.Version)
	}
	return nil
}
