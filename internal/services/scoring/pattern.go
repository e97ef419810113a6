package scoring

import (
	"math"
	"sort"

	"RankGuard/internal/domain/models"
)

// PatternConfig tunes trend and cycle classification.
type PatternConfig struct {
	// SlopeEpsilon is the magnitude below which a trend counts as stable.
	SlopeEpsilon float64 `yaml:"slope_epsilon" default:"0.05"`
	// VolatilityThreshold is the residual stdev above which the series is
	// classified volatile regardless of slope.
	VolatilityThreshold float64 `yaml:"volatility_threshold" default:"8.0"`
	// CycleThreshold is the autocorrelation peak needed to flag a cycle.
	CycleThreshold float64 `yaml:"cycle_threshold" default:"0.6"`
}

// DefaultPatternConfig returns the standard tuning.
func DefaultPatternConfig() PatternConfig {
	return PatternConfig{SlopeEpsilon: 0.05, VolatilityThreshold: 8.0, CycleThreshold: 0.6}
}

// PatternRecognizer classifies trend direction, seasonality, and cyclic
// behavior over a chronological position series.
type PatternRecognizer struct {
	cfg PatternConfig
}

// NewPatternRecognizer creates a recognizer with the given tuning.
func NewPatternRecognizer(cfg PatternConfig) *PatternRecognizer {
	return &PatternRecognizer{cfg: cfg}
}

// seasonalLags are the candidate periodicities checked for seasonality:
// weekly and monthly ranking cycles, in daily buckets.
var seasonalLags = [...]int{7, 30}

// seasonalWindowDays caps the daily series fed to autocorrelation at the
// trailing 30 calendar days.
const seasonalWindowDays = 30

// Recognize classifies the observation series. Trend comes from the raw
// chronological positions; seasonality and cycles are computed over daily
// mean buckets so intra-day sampling density cannot shift the period.
// Fewer than three positions always reads as stable with no seasonality.
func (p *PatternRecognizer) Recognize(obs []models.Observation) models.PatternResult {
	positions := models.Positions(obs)
	res := models.PatternResult{Trend: models.TrendStable}
	if len(positions) < 3 {
		return res
	}

	slope, residualStd := linreg(positions)
	res.TrendStrength = Clamp01(math.Abs(slope) / 2.0)

	switch {
	case residualStd > p.cfg.VolatilityThreshold:
		// Noise dominates any direction the fit found.
		res.Trend = models.TrendVolatile
	case math.Abs(slope) < p.cfg.SlopeEpsilon:
		res.Trend = models.TrendStable
	case slope < 0:
		// Position numbers shrink as rankings improve.
		res.Trend = models.TrendImproving
	default:
		res.Trend = models.TrendDeclining
	}

	daily := dailyMeans(obs)
	res.Seasonality = p.seasonality(daily)
	res.CycleDetected = p.cycle(daily)
	return res
}

// dailyMeans collapses observations into mean position per UTC calendar day,
// chronological, truncated to the trailing seasonal window. Observations
// without a position are skipped.
func dailyMeans(obs []models.Observation) []float64 {
	type bucket struct {
		sum float64
		n   int
	}
	byDay := make(map[string]*bucket)
	for _, o := range obs {
		if o.Position == nil {
			continue
		}
		day := o.ObservedAt.UTC().Format("2006-01-02")
		b := byDay[day]
		if b == nil {
			b = &bucket{}
			byDay[day] = b
		}
		b.sum += *o.Position
		b.n++
	}
	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)
	if len(days) > seasonalWindowDays {
		days = days[len(days)-seasonalWindowDays:]
	}
	out := make([]float64, 0, len(days))
	for _, d := range days {
		b := byDay[d]
		out = append(out, b.sum/float64(b.n))
	}
	return out
}

// seasonality is proportional to the strongest autocorrelation at the
// seasonal lags over the daily series, in [0,1]. Lags the window cannot
// support are skipped.
func (p *PatternRecognizer) seasonality(daily []float64) float64 {
	peak := 0.0
	for _, lag := range seasonalLags {
		if ac := math.Abs(autocorr(daily, lag)); ac > peak {
			peak = ac
		}
	}
	return Clamp01(peak)
}

// cycle reports whether the dominant autocorrelation peak over daily lags
// >= 2 exceeds the cycle threshold.
func (p *PatternRecognizer) cycle(daily []float64) bool {
	maxLag := len(daily) / 2
	if maxLag > seasonalWindowDays {
		maxLag = seasonalWindowDays
	}
	for lag := 2; lag <= maxLag; lag++ {
		if math.Abs(autocorr(daily, lag)) > p.cfg.CycleThreshold {
			return true
		}
	}
	return false
}
