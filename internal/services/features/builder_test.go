package features

import (
	"math"
	"testing"
	"time"

	"RankGuard/internal/domain/models"
)

func f64(v float64) *float64 { return &v }

func buildObs(positions []float64) []models.Observation {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	obs := make([]models.Observation, len(positions))
	for i := range positions {
		p := positions[i]
		obs[i] = models.Observation{Source: models.SourcePrimaryAPI, Position: &p, ObservedAt: base.Add(time.Duration(i) * time.Hour)}
	}
	return obs
}

func TestBuildPositionNormalization(t *testing.T) {
	b := NewBuilder()

	rank1 := b.Build(buildObs([]float64{1, 1, 1}), models.FactorBreakdown{}, models.PatternResult{}, nil)
	if rank1[models.FeatAvgPosition] != 1.0 {
		t.Fatalf("rank 1 must map to 1.0, got %v", rank1[models.FeatAvgPosition])
	}
	rank100 := b.Build(buildObs([]float64{150, 150}), models.FactorBreakdown{}, models.PatternResult{}, nil)
	if rank100[models.FeatAvgPosition] != 0.0 {
		t.Fatalf("rank past 100 must map to 0.0, got %v", rank100[models.FeatAvgPosition])
	}
}

func TestBuildCopiesBreakdownAndPattern(t *testing.T) {
	b := NewBuilder()
	bd := models.FactorBreakdown{Freshness: 0.9, Consistency: 0.7}
	pat := models.PatternResult{TrendStrength: 0.6, Seasonality: 0.3}

	fv := b.Build(buildObs([]float64{10, 10, 10}), bd, pat, nil)
	if fv[models.FeatFreshness] != 0.9 || fv[models.FeatStability] != 0.7 {
		t.Fatalf("breakdown slots wrong: %v", fv)
	}
	if fv[models.FeatTrendStrength] != 0.6 || fv[models.FeatSeasonality] != 0.3 {
		t.Fatalf("pattern slots wrong: %v", fv)
	}
}

func TestBuildSourceDiversityAndCompleteness(t *testing.T) {
	b := NewBuilder()
	p := 10.0
	c, im := 5, 100
	obs := []models.Observation{
		{Source: models.SourcePrimaryAPI, Position: &p, Clicks: &c, Impressions: &im, ObservedAt: time.Now()},
		{Source: models.SourceSecondaryAPI, Position: &p, ObservedAt: time.Now()},
		{Source: models.SourceManual, Position: &p, Clicks: &c, Impressions: &im, ObservedAt: time.Now()},
	}
	fv := b.Build(obs, models.FactorBreakdown{}, models.PatternResult{}, nil)
	if fv[models.FeatSourceDiversity] != 1.0 {
		t.Fatalf("three sources must saturate diversity, got %v", fv[models.FeatSourceDiversity])
	}
	if math.Abs(fv[models.FeatCompleteness]-2.0/3.0) > 1e-9 {
		t.Fatalf("completeness = %v, want 2/3", fv[models.FeatCompleteness])
	}
}

func TestBuildContextDefaults(t *testing.T) {
	b := NewBuilder()
	fv := b.Build(buildObs([]float64{10, 10, 10}), models.FactorBreakdown{}, models.PatternResult{}, nil)
	if fv[models.FeatIndustry] != 0.5 {
		t.Fatalf("missing industry must be neutral 0.5, got %v", fv[models.FeatIndustry])
	}
	if fv[models.FeatCompetition] != 0.5 {
		t.Fatalf("missing competition must be neutral 0.5, got %v", fv[models.FeatCompetition])
	}
	if fv[models.FeatSearchVolume] != 0.0 {
		t.Fatalf("missing search volume must be 0, got %v", fv[models.FeatSearchVolume])
	}
}

func TestBuildContextSlots(t *testing.T) {
	b := NewBuilder()
	ctx := &models.ContextualInput{
		Industry:          models.IndustryCompetitive,
		CompetitionLevel:  f64(0.8),
		SeasonalityFactor: f64(0.4),
		SearchVolume:      f64(50000),
	}
	fv := b.Build(buildObs([]float64{10, 10, 10}), models.FactorBreakdown{}, models.PatternResult{Seasonality: 0.9}, ctx)
	if fv[models.FeatIndustry] != 1.0 {
		t.Fatalf("competitive industry slot = %v, want 1.0", fv[models.FeatIndustry])
	}
	if fv[models.FeatCompetition] != 0.8 {
		t.Fatalf("competition slot = %v, want 0.8", fv[models.FeatCompetition])
	}
	// Explicit context seasonality beats the recognized pattern value.
	if fv[models.FeatSeasonality] != 0.4 {
		t.Fatalf("seasonality slot = %v, want 0.4", fv[models.FeatSeasonality])
	}
	if fv[models.FeatSearchVolume] != 0.5 {
		t.Fatalf("search volume slot = %v, want 0.5", fv[models.FeatSearchVolume])
	}
}

func TestBuildInverseVolatility(t *testing.T) {
	b := NewBuilder()
	flat := b.Build(buildObs([]float64{10, 10, 10, 10}), models.FactorBreakdown{}, models.PatternResult{}, nil)
	if flat[models.FeatInverseVolatility] != 1.0 {
		t.Fatalf("flat series must score 1.0, got %v", flat[models.FeatInverseVolatility])
	}
	single := b.Build(buildObs([]float64{10}), models.FactorBreakdown{}, models.PatternResult{}, nil)
	if single[models.FeatInverseVolatility] != 0.5 {
		t.Fatalf("single point must default to 0.5, got %v", single[models.FeatInverseVolatility])
	}
}
