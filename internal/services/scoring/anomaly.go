package scoring

import (
	"math"

	"RankGuard/internal/domain/models"
)

// Z-score boundaries for flagging and grading outliers.
const (
	anomalyZ       = 2.0
	mediumSeverity = 2.5
	highSeverity   = 3.0
)

// AnomalyDetector flags statistical outliers in the position series and
// aggregates them into a [0,1] score where 1 means no anomalous behavior.
type AnomalyDetector struct {
	// sensitivity scales how hard the anomaly fraction pushes the score
	// down; tunable per deployment.
	sensitivity float64
}

// NewAnomalyDetector creates a detector with the given sensitivity k.
// Non-positive values fall back to the default of 2.0.
func NewAnomalyDetector(sensitivity float64) *AnomalyDetector {
	if sensitivity <= 0 {
		sensitivity = 2.0
	}
	return &AnomalyDetector{sensitivity: sensitivity}
}

// AnomalyResult carries flagged events plus the aggregate score fed to the
// hybrid combiner.
type AnomalyResult struct {
	Events []models.AnomalyEvent
	Score  float64
}

// Detect flags every observation whose position z-score magnitude exceeds
// 2.0. Series with fewer than three positioned observations or zero variance
// produce no events and a perfect score.
func (d *AnomalyDetector) Detect(obs []models.Observation) AnomalyResult {
	positions := models.Positions(obs)
	if len(positions) < 3 {
		return AnomalyResult{Score: 1.0}
	}
	m := mean(positions)
	sd := stddev(positions)
	if sd == 0 {
		return AnomalyResult{Score: 1.0}
	}

	var events []models.AnomalyEvent
	for _, o := range obs {
		if o.Position == nil {
			continue
		}
		z := (*o.Position - m) / sd
		if math.Abs(z) <= anomalyZ {
			continue
		}
		events = append(events, models.AnomalyEvent{
			ObservedAt:     o.ObservedAt,
			Position:       *o.Position,
			DeviationSigma: z,
			Severity:       severityFor(math.Abs(z)),
		})
	}

	frac := float64(len(events)) / math.Max(1, float64(len(positions)))
	score := 1.0 - math.Min(1.0, frac*d.sensitivity)
	return AnomalyResult{Events: events, Score: Clamp01(score)}
}

func severityFor(absZ float64) models.AnomalySeverity {
	switch {
	case absZ >= highSeverity:
		return models.SeverityHigh
	case absZ >= mediumSeverity:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}
