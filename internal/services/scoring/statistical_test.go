package scoring

import (
	"math"
	"testing"
	"time"

	"RankGuard/internal/domain/models"
	"RankGuard/pkg/clock"
	"RankGuard/pkg/errs"
)

func fixedClock() (*clock.Manual, time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return clock.NewManual(now), now
}

func obsAt(pos float64, at time.Time) models.Observation {
	return models.Observation{Source: models.SourcePrimaryAPI, Position: &pos, ObservedAt: at}
}

func TestStatisticalScoreTypicalSubject(t *testing.T) {
	clk, now := fixedClock()
	s := NewStatisticalScorer(clk)

	// Five trusted readings over four days, newest within the hour.
	obs := []models.Observation{
		obsAt(12, now.Add(-78*time.Hour)),
		obsAt(11, now.Add(-54*time.Hour)),
		obsAt(12, now.Add(-30*time.Hour)),
		obsAt(13, now.Add(-6*time.Hour)),
		obsAt(12, now.Add(-30*time.Minute)),
	}

	res, err := s.Score(obs, models.DefaultWeights())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Breakdown.Freshness != 1.0 {
		t.Fatalf("freshness = %v, want 1.0", res.Breakdown.Freshness)
	}
	if res.Breakdown.Consistency != 1.0 {
		t.Fatalf("consistency = %v, want 1.0 for stdev under 2", res.Breakdown.Consistency)
	}
	if res.Breakdown.Coverage != 0.4 {
		t.Fatalf("coverage = %v, want 0.4 for 4 unique days", res.Breakdown.Coverage)
	}
	// 0.5 base + 0.3 primary source.
	if math.Abs(res.Breakdown.Reliability-0.8) > 1e-9 {
		t.Fatalf("reliability = %v, want 0.8", res.Breakdown.Reliability)
	}
	want := 1.0*0.30 + 1.0*0.30 + 0.8*0.25 + 0.4*0.15
	if math.Abs(res.Overall-want) > 1e-9 {
		t.Fatalf("overall = %v, want %v", res.Overall, want)
	}
}

func TestStatisticalScoreNoData(t *testing.T) {
	clk, _ := fixedClock()
	s := NewStatisticalScorer(clk)
	_, err := s.Score(nil, models.DefaultWeights())
	if !errs.IsNoData(err) {
		t.Fatalf("expected ERR_NO_DATA, got %v", err)
	}
}

func TestStatisticalScoreRejectsBadWeights(t *testing.T) {
	clk, now := fixedClock()
	s := NewStatisticalScorer(clk)
	obs := []models.Observation{obsAt(5, now)}
	_, err := s.Score(obs, models.WeightConfig{Freshness: 0.5, Consistency: 0.5, Reliability: 0.5, Coverage: 0.5})
	if !errs.IsValidation(err) {
		t.Fatalf("expected ERR_VALIDATION, got %v", err)
	}
}

func TestFreshnessMonotonic(t *testing.T) {
	clk, now := fixedClock()
	s := NewStatisticalScorer(clk)

	ages := []time.Duration{
		30 * time.Minute,
		3 * time.Hour,
		12 * time.Hour,
		48 * time.Hour,
		100 * time.Hour,
		400 * time.Hour,
	}
	prev := 1.1
	for _, age := range ages {
		res, err := s.Score([]models.Observation{obsAt(10, now.Add(-age))}, models.DefaultWeights())
		if err != nil {
			t.Fatalf("score at age %v: %v", age, err)
		}
		if res.Breakdown.Freshness > prev {
			t.Fatalf("freshness increased with age: %v at %v", res.Breakdown.Freshness, age)
		}
		prev = res.Breakdown.Freshness
	}
}

func TestConsistencyInsufficientData(t *testing.T) {
	clk, now := fixedClock()
	s := NewStatisticalScorer(clk)

	// A single positioned observation cannot show variance either way.
	res, err := s.Score([]models.Observation{obsAt(7, now)}, models.DefaultWeights())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Breakdown.Consistency != 0.5 {
		t.Fatalf("consistency = %v, want neutral 0.5", res.Breakdown.Consistency)
	}
}

func TestReliabilityBonuses(t *testing.T) {
	clk, now := fixedClock()
	s := NewStatisticalScorer(clk)

	clicks := 3
	imps := 90
	obs := make([]models.Observation, 0, 8)
	for i := 0; i < 7; i++ {
		p := 10.0
		obs = append(obs, models.Observation{
			Source: models.SourcePrimaryAPI, Position: &p,
			Clicks: &clicks, Impressions: &imps,
			ObservedAt: now.Add(-time.Duration(i) * time.Hour),
		})
	}
	p := 10.0
	obs = append(obs, models.Observation{Source: models.SourceSecondaryAPI, Position: &p, ObservedAt: now})

	res, err := s.Score(obs, models.DefaultWeights())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 0.5 + 0.3 primary + 0.2 secondary + 0.1 multi-source + 0.1*(7/8)
	// clicks + 0.1 seven-plus already exceeds the cap.
	if res.Breakdown.Reliability != 1.0 {
		t.Fatalf("reliability = %v, want capped 1.0", res.Breakdown.Reliability)
	}
}

func TestCoverageSteps(t *testing.T) {
	clk, now := fixedClock()
	s := NewStatisticalScorer(clk)

	cases := []struct {
		days int
		want float64
	}{
		{1, 0.2},
		{3, 0.4},
		{7, 0.6},
		{14, 0.8},
		{30, 1.0},
	}
	for _, tc := range cases {
		obs := make([]models.Observation, 0, tc.days)
		for d := 0; d < tc.days; d++ {
			obs = append(obs, obsAt(10, now.Add(-time.Duration(d)*24*time.Hour)))
		}
		res, err := s.Score(obs, models.DefaultWeights())
		if err != nil {
			t.Fatalf("score over %d days: %v", tc.days, err)
		}
		if res.Breakdown.Coverage != tc.want {
			t.Fatalf("coverage over %d days = %v, want %v", tc.days, res.Breakdown.Coverage, tc.want)
		}
	}
}
