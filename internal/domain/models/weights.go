package models

// Feature vector layout consumed by the learned scorer. The order is part of
// the model contract and must match the weights artifact.
const (
	FeatAvgPosition = iota
	FeatStability
	FeatFreshness
	FeatSourceDiversity
	FeatCompleteness
	FeatTrendStrength
	FeatInverseVolatility
	FeatIndustry
	FeatCompetition
	FeatSeasonality
	FeatSearchVolume

	FeatureCount = 11
)

// HiddenUnits is the fixed hidden layer width of the learned scorer.
const HiddenUnits = 4

// FeatureVector is the fixed-width normalized input to the learned scorer.
// Derived and ephemeral; recomputed on every scoring call.
type FeatureVector [FeatureCount]float64

// ModelWeights is a versioned immutable artifact for the fixed feed-forward
// network (11 inputs -> 4 tanh hidden units -> 1 sigmoid output). Weights are
// supplied externally; no training happens in this engine.
type ModelWeights struct {
	Version string `json:"version"`

	W1 [HiddenUnits][FeatureCount]float64 `json:"w1"`
	B1 [HiddenUnits]float64               `json:"b1"`
	W2 [HiddenUnits]float64               `json:"w2"`
	B2 float64                            `json:"b2"`

	// Training provenance, attached to output metadata only; never affects
	// the numeric result.
	TrainedSamples     int     `json:"trained_samples"`
	ValidationAccuracy float64 `json:"validation_accuracy"`
}
