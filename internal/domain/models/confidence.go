package models

import "time"

// ConfidenceLevel buckets a hybrid score into a coarse trust label.
type ConfidenceLevel string

const (
	LevelVeryLow  ConfidenceLevel = "very_low"
	LevelLow      ConfidenceLevel = "low"
	LevelMedium   ConfidenceLevel = "medium"
	LevelHigh     ConfidenceLevel = "high"
	LevelVeryHigh ConfidenceLevel = "very_high"
)

// LevelFor maps a hybrid score to its confidence level. The breakpoints are
// fixed: >=0.90 very_high, >=0.75 high, >=0.60 medium, >=0.40 low, else very_low.
func LevelFor(hybrid float64) ConfidenceLevel {
	switch {
	case hybrid >= 0.90:
		return LevelVeryHigh
	case hybrid >= 0.75:
		return LevelHigh
	case hybrid >= 0.60:
		return LevelMedium
	case hybrid >= 0.40:
		return LevelLow
	default:
		return LevelVeryLow
	}
}

// Trend classifies the direction of a position series.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
	TrendVolatile  Trend = "volatile"
)

// PatternResult is the output of the pattern recognizer.
type PatternResult struct {
	Trend         Trend   `json:"trend"`
	TrendStrength float64 `json:"trend_strength"`
	Seasonality   float64 `json:"seasonality"`
	CycleDetected bool    `json:"cycle_detected"`
}

// AnomalySeverity grades how far an observation sits from the series mean.
type AnomalySeverity string

const (
	SeverityLow    AnomalySeverity = "low"
	SeverityMedium AnomalySeverity = "medium"
	SeverityHigh   AnomalySeverity = "high"
)

// AnomalyEvent flags a single outlier observation. Transient; carried only
// inside a ConfidenceRecord.
type AnomalyEvent struct {
	ObservedAt     time.Time       `json:"observed_at"`
	Position       float64         `json:"position"`
	DeviationSigma float64         `json:"deviation_sigma"`
	Severity       AnomalySeverity `json:"severity"`
}

// FactorBreakdown holds the four traditional statistical factors.
type FactorBreakdown struct {
	Freshness   float64 `json:"freshness"`
	Consistency float64 `json:"consistency"`
	Reliability float64 `json:"reliability"`
	Coverage    float64 `json:"coverage"`
}

// ConfidenceRecord is the engine's output for one subject. Records are
// immutable: a new scoring call produces a fresh record that supersedes the
// previous one. All score fields are in [0,1] and rounded to two decimals at
// this boundary.
type ConfidenceRecord struct {
	SubjectID        string          `json:"subject_id"`
	StatisticalScore float64         `json:"statistical_score"`
	MLScore          float64         `json:"ml_score"`
	AnomalyScore     float64         `json:"anomaly_score"`
	HybridScore      float64         `json:"hybrid_score"`
	ConfidenceLevel  ConfidenceLevel `json:"confidence_level"`
	Breakdown        FactorBreakdown `json:"breakdown"`
	Pattern          PatternResult   `json:"pattern"`
	Anomalies        []AnomalyEvent  `json:"anomalies,omitempty"`
	ComputedAt       time.Time       `json:"computed_at"`
	ModelVersion     string          `json:"model_version"`
}
