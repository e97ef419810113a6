package usecase

import (
	"context"
	"errors"
	"time"

	"RankGuard/internal/domain/models"
	domrepo "RankGuard/internal/domain/repository"
	domsvc "RankGuard/internal/domain/service"
	"RankGuard/internal/services/features"
	"RankGuard/internal/services/scoring"
	"RankGuard/pkg/clock"
	"RankGuard/pkg/errs"
	applogger "RankGuard/pkg/logger"
)

// ScoreRequest is the single-subject scoring contract. Observations may be
// supplied inline; when nil they are fetched from the observation store over
// the configured lookback window. Weights and ModelVersion fall back to the
// engine's configured defaults when unset.
type ScoreRequest struct {
	SubjectID    string
	Observations []models.Observation
	Weights      *models.WeightConfig
	Context      *models.ContextualInput
	ModelVersion string
}

// ConfidenceScorer runs the full scoring pipeline for one subject:
// statistical factors, pattern recognition, and anomaly detection feed the
// feature vector, the learned scorer maps it to an ML score, and the hybrid
// combiner produces the final record.
type ConfidenceScorer struct {
	store    domrepo.ObservationStore
	records  domrepo.ConfidenceStore
	stat     *scoring.StatisticalScorer
	pattern  *scoring.PatternRecognizer
	anomaly  *scoring.AnomalyDetector
	builder  *features.Builder
	learned  domsvc.LearnedScorer
	combiner *scoring.HybridCombiner
	metrics  domrepo.Metrics
	clk      clock.Clock
	lookback time.Duration
	weights  models.WeightConfig
	l        *applogger.Logger
}

// NewConfidenceScorer wires the pipeline.
func NewConfidenceScorer(
	store domrepo.ObservationStore,
	records domrepo.ConfidenceStore,
	stat *scoring.StatisticalScorer,
	pattern *scoring.PatternRecognizer,
	anomaly *scoring.AnomalyDetector,
	builder *features.Builder,
	learned domsvc.LearnedScorer,
	combiner *scoring.HybridCombiner,
	metrics domrepo.Metrics,
	clk clock.Clock,
	lookback time.Duration,
	weights models.WeightConfig,
	l *applogger.Logger,
) *ConfidenceScorer {
	if lookback <= 0 {
		lookback = 30 * 24 * time.Hour
	}
	if !weights.Valid() {
		weights = models.DefaultWeights()
	}
	return &ConfidenceScorer{
		store: store, records: records,
		stat: stat, pattern: pattern, anomaly: anomaly,
		builder: builder, learned: learned, combiner: combiner,
		metrics: metrics, clk: clk, lookback: lookback, weights: weights, l: l,
	}
}

// Score produces a fresh ConfidenceRecord for the request. The record's
// numeric fields are rounded to two decimals here, at the API boundary;
// everything upstream keeps full precision. Identical inputs produce
// identical records.
func (s *ConfidenceScorer) Score(ctx context.Context, req ScoreRequest) (models.ConfidenceRecord, error) {
	started := s.clk.Now()

	obs := req.Observations
	if obs == nil {
		var err error
		obs, err = s.store.GetObservations(ctx, req.SubjectID, started.Add(-s.lookback))
		if err != nil {
			err = mapUpstreamErr("get_observations", err)
			s.recordError(err)
			return models.ConfidenceRecord{}, err
		}
	}
	if len(obs) == 0 {
		err := errs.NoDataf("subject %s has no observations", req.SubjectID)
		s.recordError(err)
		return models.ConfidenceRecord{}, err
	}

	weights := s.weights
	if req.Weights != nil {
		weights = *req.Weights
	}

	stat, err := s.stat.Score(obs, weights)
	if err != nil {
		s.recordError(err)
		return models.ConfidenceRecord{}, err
	}

	pat := s.pattern.Recognize(obs)
	anom := s.anomaly.Detect(obs)

	fv := s.builder.Build(obs, stat.Breakdown, pat, req.Context)
	mlScore, weightsUsed, err := s.learned.Score(fv, req.ModelVersion)
	if err != nil {
		s.recordError(err)
		return models.ConfidenceRecord{}, err
	}

	hybrid, level, err := s.combiner.Combine(stat.Overall, mlScore, anom.Score, req.Context)
	if err != nil {
		s.recordError(err)
		return models.ConfidenceRecord{}, err
	}

	rec := models.ConfidenceRecord{
		SubjectID:        req.SubjectID,
		StatisticalScore: scoring.Round2(stat.Overall),
		MLScore:          scoring.Round2(mlScore),
		AnomalyScore:     scoring.Round2(anom.Score),
		HybridScore:      scoring.Round2(hybrid),
		ConfidenceLevel:  level,
		Breakdown: models.FactorBreakdown{
			Freshness:   scoring.Round2(stat.Breakdown.Freshness),
			Consistency: scoring.Round2(stat.Breakdown.Consistency),
			Reliability: scoring.Round2(stat.Breakdown.Reliability),
			Coverage:    scoring.Round2(stat.Breakdown.Coverage),
		},
		Pattern:      pat,
		Anomalies:    anom.Events,
		ComputedAt:   started,
		ModelVersion: weightsUsed.Version,
	}
	if s.records != nil {
		if err := s.records.SaveLatest(ctx, rec); err != nil {
			s.recordError(err)
			return models.ConfidenceRecord{}, mapUpstreamErr("save_latest", err)
		}
	}

	if s.metrics != nil {
		s.metrics.RecordSubjectScored(string(rec.ConfidenceLevel))
		s.metrics.RecordHybridScore(rec.SubjectID, rec.HybridScore)
		s.metrics.RecordScoringLatency(s.clk.Now().Sub(started).Seconds())
	}
	if s.l != nil {
		s.l.Debug("subject scored",
			applogger.String("subject", rec.SubjectID),
			applogger.Any("level", rec.ConfidenceLevel),
			applogger.Int("observations", len(obs)),
		)
	}
	return rec, nil
}

func (s *ConfidenceScorer) recordError(err error) {
	if s.metrics == nil {
		return
	}
	code := errs.CodeOf(err)
	if code == "" {
		code = "ERR_INTERNAL"
	}
	s.metrics.RecordScoringError(code)
}

// mapUpstreamErr types context deadline failures from adapters as upstream
// timeouts; other errors pass through.
func mapUpstreamErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errs.UpstreamTimeout(op, err)
	}
	return err
}
