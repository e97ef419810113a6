package scoring

import (
	"time"

	"RankGuard/internal/domain/models"
	"RankGuard/pkg/clock"
	"RankGuard/pkg/errs"
)

// StatisticalScorer computes the four traditional confidence factors
// (freshness, consistency, reliability, coverage) from raw observations.
type StatisticalScorer struct {
	clk clock.Clock
}

// NewStatisticalScorer creates a scorer reading time from clk.
func NewStatisticalScorer(clk clock.Clock) *StatisticalScorer {
	return &StatisticalScorer{clk: clk}
}

// StatisticalResult is the factor breakdown plus the weighted overall score.
type StatisticalResult struct {
	Breakdown models.FactorBreakdown
	Overall   float64
}

// Score computes all factors and their weighted sum. Observations must be
// non-empty and ordered by observed_at; an empty input is a contract
// violation surfaced as a no-data error, never a silent zero score.
func (s *StatisticalScorer) Score(obs []models.Observation, weights models.WeightConfig) (StatisticalResult, error) {
	if len(obs) == 0 {
		return StatisticalResult{}, errs.NoData("no observations to score")
	}
	if !weights.Valid() {
		return StatisticalResult{}, errs.Validationf("factor weights must sum to 1.0, got %.6f", weights.Sum())
	}

	b := models.FactorBreakdown{
		Freshness:   s.freshness(obs),
		Consistency: s.consistency(obs),
		Reliability: s.reliability(obs),
		Coverage:    s.coverage(obs),
	}
	overall := b.Freshness*weights.Freshness +
		b.Consistency*weights.Consistency +
		b.Reliability*weights.Reliability +
		b.Coverage*weights.Coverage
	return StatisticalResult{Breakdown: b, Overall: Clamp01(overall)}, nil
}

// freshness is a monotonic step function of the newest observation's age.
func (s *StatisticalScorer) freshness(obs []models.Observation) float64 {
	newest := obs[0].ObservedAt
	for _, o := range obs[1:] {
		if o.ObservedAt.After(newest) {
			newest = o.ObservedAt
		}
	}
	age := s.clk.Now().Sub(newest)
	switch {
	case age <= time.Hour:
		return 1.0
	case age <= 6*time.Hour:
		return 0.9
	case age <= 24*time.Hour:
		return 0.8
	case age <= 72*time.Hour:
		return 0.6
	case age <= 168*time.Hour:
		return 0.4
	default:
		return 0.2
	}
}

// consistency steps down with the position standard deviation. Fewer than two
// positioned observations yields the neutral insufficient-data floor.
func (s *StatisticalScorer) consistency(obs []models.Observation) float64 {
	positions := models.Positions(obs)
	if len(positions) < 2 {
		return 0.5
	}
	sd := stddev(positions)
	switch {
	case sd <= 2:
		return 1.0
	case sd <= 5:
		return 0.8
	case sd <= 10:
		return 0.6
	case sd <= 20:
		return 0.4
	default:
		return 0.2
	}
}

// reliability accumulates additive bonuses over a 0.5 base, capped at 1.0.
func (s *StatisticalScorer) reliability(obs []models.Observation) float64 {
	score := 0.5

	sources := make(map[models.Source]struct{}, 4)
	withClicks := 0
	hasPrimary := false
	hasSecondary := false
	for _, o := range obs {
		sources[o.Source] = struct{}{}
		if o.Clicks != nil {
			withClicks++
		}
		switch o.Source {
		case models.SourcePrimaryAPI:
			hasPrimary = true
		case models.SourceSecondaryAPI:
			hasSecondary = true
		}
	}

	if hasPrimary {
		score += 0.3
	}
	if hasSecondary {
		score += 0.2
	}
	if len(sources) >= 2 {
		score += 0.1
	}
	score += 0.1 * float64(withClicks) / float64(len(obs))
	if len(obs) >= 7 {
		score += 0.1
	}
	if len(obs) >= 30 {
		score += 0.1
	}
	return Clamp01(score)
}

// coverage steps up with the number of unique UTC calendar days represented.
func (s *StatisticalScorer) coverage(obs []models.Observation) float64 {
	days := make(map[string]struct{}, len(obs))
	for _, o := range obs {
		days[o.ObservedAt.UTC().Format("2006-01-02")] = struct{}{}
	}
	switch n := len(days); {
	case n >= 30:
		return 1.0
	case n >= 14:
		return 0.8
	case n >= 7:
		return 0.6
	case n >= 3:
		return 0.4
	default:
		return 0.2
	}
}
