package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"RankGuard/internal/domain/models"
	domrepo "RankGuard/internal/domain/repository"
	"RankGuard/internal/service/ratelimit"
	"RankGuard/pkg/clock"
	"RankGuard/pkg/errs"
	applogger "RankGuard/pkg/logger"
)

// BatchConfig bounds the orchestrator's fan-out and pacing.
type BatchConfig struct {
	// MaxSubjects caps one batch request.
	MaxSubjects int `yaml:"max_subjects" default:"200" validate:"gte=1"`
	// BatchSize is the per-wave concurrency.
	BatchSize int `yaml:"batch_size" default:"15" validate:"gte=1,lte=50"`
	// InterBatchDelay is slept between waves to respect upstream limits.
	InterBatchDelay time.Duration `yaml:"inter_batch_delay" default:"500ms"`
	// UpstreamRPS refills the provider token bucket; zero disables pacing.
	UpstreamRPS float64 `yaml:"upstream_rps" default:"30"`
}

// DefaultBatchConfig returns the standard pacing.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{MaxSubjects: 200, BatchSize: 15, InterBatchDelay: 500 * time.Millisecond, UpstreamRPS: 30}
}

const upstreamKey = "observation_provider"

// BatchRequest scores a set of subjects in waves.
type BatchRequest struct {
	SubjectIDs []string
	Weights    *models.WeightConfig
	Context    *models.ContextualInput
	// ModelVersion pins the learned model for the whole run.
	ModelVersion string
	// Observations optionally supplies per-subject data, skipping store
	// fetches for the subjects present.
	Observations map[string][]models.Observation
}

// BatchOrchestrator drives scoring over subject sets with bounded
// concurrency and partial-failure collection. Waves execute strictly
// sequentially; within a wave, subjects are scored concurrently and each
// failure is recorded without aborting siblings. Cancellation is honored
// between waves; in-flight work always completes or fails individually.
type BatchOrchestrator struct {
	scorer  *ConfidenceScorer
	limiter *ratelimit.Limiter
	metrics domrepo.Metrics
	clk     clock.Clock
	cfg     BatchConfig
	l       *applogger.Logger
}

// NewBatchOrchestrator creates an orchestrator.
func NewBatchOrchestrator(
	scorer *ConfidenceScorer,
	limiter *ratelimit.Limiter,
	metrics domrepo.Metrics,
	clk clock.Clock,
	cfg BatchConfig,
	l *applogger.Logger,
) *BatchOrchestrator {
	if cfg.MaxSubjects <= 0 {
		cfg.MaxSubjects = 200
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 15
	}
	return &BatchOrchestrator{scorer: scorer, limiter: limiter, metrics: metrics, clk: clk, cfg: cfg, l: l}
}

type subjectOutcome struct {
	subjectID string
	record    models.ConfidenceRecord
	err       error
}

// Run scores every subject and aggregates the outcome. It returns an error
// only for request-level validation failures; per-subject failures land in
// the result's Errors.
func (o *BatchOrchestrator) Run(ctx context.Context, req BatchRequest) (models.BatchResult, error) {
	if len(req.SubjectIDs) == 0 {
		return models.BatchResult{}, errs.Validation("no subjects in batch request")
	}
	if len(req.SubjectIDs) > o.cfg.MaxSubjects {
		return models.BatchResult{}, errs.Validationf("batch of %d subjects exceeds limit %d", len(req.SubjectIDs), o.cfg.MaxSubjects)
	}

	outcomes := make(map[string]subjectOutcome, len(req.SubjectIDs))
	cancelled := false

	for start := 0; start < len(req.SubjectIDs); start += o.cfg.BatchSize {
		if start > 0 {
			// Abort point: only between waves, preserving partial results.
			if err := ctx.Err(); err != nil {
				cancelled = true
				break
			}
			if o.cfg.InterBatchDelay > 0 {
				select {
				case <-time.After(o.cfg.InterBatchDelay):
				case <-ctx.Done():
					cancelled = true
				}
				if cancelled {
					break
				}
			}
		}

		end := start + o.cfg.BatchSize
		if end > len(req.SubjectIDs) {
			end = len(req.SubjectIDs)
		}
		wave := req.SubjectIDs[start:end]
		waveStart := o.clk.Now()

		var (
			mu sync.Mutex
			wg sync.WaitGroup
		)
		for _, id := range wave {
			if o.limiter != nil && o.cfg.UpstreamRPS > 0 {
				if d := o.limiter.Reserve(upstreamKey, float64(o.cfg.BatchSize), o.cfg.UpstreamRPS); d > 0 {
					time.Sleep(d)
				}
			}
			wg.Add(1)
			go func(subjectID string) {
				defer wg.Done()
				rec, err := o.scorer.Score(ctx, ScoreRequest{
					SubjectID:    subjectID,
					Observations: req.Observations[subjectID],
					Weights:      req.Weights,
					Context:      req.Context,
					ModelVersion: req.ModelVersion,
				})
				mu.Lock()
				outcomes[subjectID] = subjectOutcome{subjectID: subjectID, record: rec, err: err}
				mu.Unlock()
			}(id)
		}
		wg.Wait()

		if o.metrics != nil {
			o.metrics.RecordBatchWave(len(wave), o.clk.Now().Sub(waveStart).Seconds())
		}
	}

	result := o.collect(req.SubjectIDs, outcomes)
	if o.l != nil {
		o.l.Info("batch run complete",
			applogger.Int("requested", len(req.SubjectIDs)),
			applogger.Int("successful", result.Successful),
			applogger.Int("failed", result.Failed),
			applogger.Bool("cancelled", cancelled),
		)
	}
	return result, nil
}

// collect assembles the aggregate in the request's subject order, so output
// is independent of completion order inside a wave.
func (o *BatchOrchestrator) collect(subjectIDs []string, outcomes map[string]subjectOutcome) models.BatchResult {
	res := models.BatchResult{
		Results: make([]models.ConfidenceRecord, 0, len(outcomes)),
	}
	for _, id := range subjectIDs {
		out, ok := outcomes[id]
		if !ok {
			continue // wave never started before cancellation
		}
		if out.err != nil {
			res.Failed++
			res.Errors = append(res.Errors, models.SubjectError{SubjectID: id, Error: out.err.Error()})
			continue
		}
		res.Successful++
		res.Results = append(res.Results, out.record)
	}
	res.Insights = buildInsights(res.Results)
	return res
}

// buildInsights derives the score distribution and top/bottom performers
// over successful results only.
func buildInsights(records []models.ConfidenceRecord) models.BatchInsights {
	ins := models.BatchInsights{Distribution: make(map[models.ConfidenceLevel]int)}
	if len(records) == 0 {
		return ins
	}

	sum := 0.0
	ranked := make([]models.AlertMatch, 0, len(records))
	for _, r := range records {
		sum += r.HybridScore
		ins.Distribution[r.ConfidenceLevel]++
		ranked = append(ranked, models.AlertMatch{SubjectID: r.SubjectID, HybridScore: r.HybridScore, Level: r.ConfidenceLevel})
	}
	ins.AverageHybridScore = sum / float64(len(records))

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].HybridScore != ranked[j].HybridScore {
			return ranked[i].HybridScore > ranked[j].HybridScore
		}
		return ranked[i].SubjectID < ranked[j].SubjectID
	})

	n := len(ranked)
	top := n
	if top > 5 {
		top = 5
	}
	ins.TopPerformers = append(ins.TopPerformers, ranked[:top]...)
	bottom := n
	if bottom > 5 {
		bottom = 5
	}
	for i := n - 1; i >= n-bottom; i-- {
		ins.BottomPerformers = append(ins.BottomPerformers, ranked[i])
	}
	return ins
}
