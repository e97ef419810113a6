package scoring

import (
	"math"
	"testing"

	"RankGuard/internal/domain/models"
)

func f64(v float64) *float64 { return &v }

func TestAdjustNilContext(t *testing.T) {
	a := NewContextualAdjuster()
	if got := a.Adjust(0.7, nil); got != 0.7 {
		t.Fatalf("nil context must be neutral, got %v", got)
	}
}

func TestAdjustIndustry(t *testing.T) {
	a := NewContextualAdjuster()
	down := a.Adjust(0.7, &models.ContextualInput{Industry: models.IndustryCompetitive})
	up := a.Adjust(0.7, &models.ContextualInput{Industry: models.IndustryLowCompetition})
	if math.Abs(down-0.65) > 1e-9 || math.Abs(up-0.75) > 1e-9 {
		t.Fatalf("industry adjustment wrong: down=%v up=%v", down, up)
	}
}

func TestAdjustCompetitionLevel(t *testing.T) {
	a := NewContextualAdjuster()
	if got := a.Adjust(0.5, &models.ContextualInput{CompetitionLevel: f64(0.9)}); math.Abs(got-0.47) > 1e-9 {
		t.Fatalf("high competition: got %v, want 0.47", got)
	}
	if got := a.Adjust(0.5, &models.ContextualInput{CompetitionLevel: f64(0.1)}); math.Abs(got-0.53) > 1e-9 {
		t.Fatalf("low competition: got %v, want 0.53", got)
	}
	if got := a.Adjust(0.5, &models.ContextualInput{CompetitionLevel: f64(0.5)}); got != 0.5 {
		t.Fatalf("mid competition must be neutral, got %v", got)
	}
}

func TestAdjustSeasonality(t *testing.T) {
	a := NewContextualAdjuster()
	if got := a.Adjust(0.5, &models.ContextualInput{SeasonalityFactor: f64(0.8)}); math.Abs(got-0.48) > 1e-9 {
		t.Fatalf("strong seasonality: got %v, want 0.48", got)
	}
}

func TestAdjustClamps(t *testing.T) {
	a := NewContextualAdjuster()
	if got := a.Adjust(0.01, &models.ContextualInput{Industry: models.IndustryCompetitive, CompetitionLevel: f64(0.95)}); got != 0 {
		t.Fatalf("adjustment below zero must clamp, got %v", got)
	}
	if got := a.Adjust(0.99, &models.ContextualInput{Industry: models.IndustryLowCompetition, CompetitionLevel: f64(0.05)}); got != 1 {
		t.Fatalf("adjustment above one must clamp, got %v", got)
	}
}
