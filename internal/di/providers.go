package di

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"RankGuard/internal/domain/models"
	domrepo "RankGuard/internal/domain/repository"
	domsvc "RankGuard/internal/domain/service"
	"RankGuard/internal/notify"
	internalrepo "RankGuard/internal/repository"
	"RankGuard/internal/service/ratelimit"
	"RankGuard/internal/services/features"
	"RankGuard/internal/services/model"
	"RankGuard/internal/services/scoring"
	"RankGuard/internal/usecase"
	pkgch "RankGuard/pkg/clickhouse"
	"RankGuard/pkg/clock"
	"RankGuard/pkg/config"
	"RankGuard/pkg/logger"
	"RankGuard/pkg/metrics"
	"RankGuard/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideClock supplies wall-clock time to every component.
func ProvideClock() clock.Clock {
	return clock.System{}
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideObservationStore selects the observation backend.
func ProvideObservationStore(cfg *config.Config, l *logger.Logger) (domrepo.ObservationStore, func(), error) {
	switch cfg.Store.Type {
	case "clickhouse":
		client, err := pkgch.NewClient(
			pkgch.WithHost(cfg.Store.ClickHouse.Host),
			pkgch.WithPort(cfg.Store.ClickHouse.Port),
			pkgch.WithDatabase(cfg.Store.ClickHouse.Database),
			pkgch.WithCredentials(cfg.Store.ClickHouse.User, cfg.Store.ClickHouse.Password),
			pkgch.WithMaxConnections(10, 5),
			pkgch.WithTimeouts(cfg.Store.ClickHouse.DialTimeout, cfg.Store.ClickHouse.ReadTimeout),
			pkgch.WithMaxExecutionTime(cfg.Store.ClickHouse.MaxExecTime),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("clickhouse client: %w", err)
		}
		store := internalrepo.NewCHObservationStore(client, cfg.Store.Table)
		store.SetLogger(l)
		return store, func() { _ = client.Close() }, nil
	default:
		return internalrepo.NewMemoryObservationStore(), func() {}, nil
	}
}

// ProvideConfidenceStore creates the latest-record store.
func ProvideConfidenceStore() domrepo.ConfidenceStore {
	return internalrepo.NewMemoryConfidenceStore(10000, 24*time.Hour)
}

// ProvideAlertStore selects the alert definition backend.
func ProvideAlertStore(cfg *config.Config) (domrepo.AlertStore, func(), error) {
	switch cfg.Alerts.Store {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Alerts.Redis.Addr,
			Password: cfg.Alerts.Redis.Password,
			DB:       cfg.Alerts.Redis.DB,
		})
		store := internalrepo.NewRedisAlertStore(client, cfg.Alerts.Redis.Prefix)
		return store, func() { _ = client.Close() }, nil
	default:
		return internalrepo.NewMemoryAlertStore(), func() {}, nil
	}
}

// ProvideNotificationSink selects the trigger payload transport.
func ProvideNotificationSink(cfg *config.Config, l *logger.Logger) (domsvc.NotificationSink, func(), error) {
	switch cfg.Notify.Type {
	case "kafka":
		sink, err := notify.NewKafkaSink(notify.KafkaConfig{
			Brokers:      cfg.Notify.Kafka.Brokers,
			Topic:        cfg.Notify.Kafka.Topic,
			WriteTimeout: cfg.Notify.Kafka.WriteTimeout,
			BatchTimeout: cfg.Notify.Kafka.BatchTimeout,
		}, l)
		if err != nil {
			return nil, nil, fmt.Errorf("kafka sink: %w", err)
		}
		return sink, func() { _ = sink.Close() }, nil
	default:
		return notify.NewLogSink(l), func() {}, nil
	}
}

// ProvideModelRegistry loads every weights artifact from the model dir and
// pins the configured default version.
func ProvideModelRegistry(cfg *config.Config) (*model.Registry, error) {
	reg, err := model.LoadDir(cfg.Model.Dir)
	if err != nil {
		return nil, fmt.Errorf("model registry: %w", err)
	}
	if cfg.Model.DefaultVersion != "" {
		if err := reg.SetDefault(cfg.Model.DefaultVersion); err != nil {
			return nil, fmt.Errorf("model registry: %w", err)
		}
	}
	return reg, nil
}

// ProvideLearnedScorer creates the neural scorer over the registry.
func ProvideLearnedScorer(reg *model.Registry) domsvc.LearnedScorer {
	return model.NewScorer(reg)
}

// ProvideStatisticalScorer creates the statistical factor scorer.
func ProvideStatisticalScorer(clk clock.Clock) *scoring.StatisticalScorer {
	return scoring.NewStatisticalScorer(clk)
}

// ProvidePatternRecognizer applies the configured trend thresholds.
func ProvidePatternRecognizer(cfg *config.Config) *scoring.PatternRecognizer {
	return scoring.NewPatternRecognizer(scoring.PatternConfig{
		SlopeEpsilon:        cfg.Scoring.SlopeEpsilon,
		VolatilityThreshold: cfg.Scoring.VolatilityThreshold,
		CycleThreshold:      cfg.Scoring.CycleThreshold,
	})
}

// ProvideAnomalyDetector applies the configured z-score sensitivity.
func ProvideAnomalyDetector(cfg *config.Config) *scoring.AnomalyDetector {
	return scoring.NewAnomalyDetector(cfg.Scoring.AnomalySensitivity)
}

// ProvideFeatureBuilder creates the feature vector builder.
func ProvideFeatureBuilder() *features.Builder {
	return features.NewBuilder()
}

// ProvideHybridCombiner applies the configured statistical/ML split.
func ProvideHybridCombiner(cfg *config.Config) *scoring.HybridCombiner {
	return scoring.NewHybridCombiner(
		scoring.HybridWeights{Statistical: cfg.Scoring.Hybrid.Statistical, ML: cfg.Scoring.Hybrid.ML},
		scoring.NewContextualAdjuster(),
	)
}

// ProvideRateLimiter creates the keyed token bucket limiter.
func ProvideRateLimiter(clk clock.Clock) *ratelimit.Limiter {
	return ratelimit.New(clk)
}

// ProvideConfidenceScorer wires the single-subject pipeline.
func ProvideConfidenceScorer(
	store domrepo.ObservationStore,
	records domrepo.ConfidenceStore,
	stat *scoring.StatisticalScorer,
	pattern *scoring.PatternRecognizer,
	anomaly *scoring.AnomalyDetector,
	builder *features.Builder,
	learned domsvc.LearnedScorer,
	combiner *scoring.HybridCombiner,
	m domrepo.Metrics,
	clk clock.Clock,
	cfg *config.Config,
	l *logger.Logger,
) *usecase.ConfidenceScorer {
	weights := models.WeightConfig{
		Freshness:   cfg.Scoring.Weights.Freshness,
		Consistency: cfg.Scoring.Weights.Consistency,
		Reliability: cfg.Scoring.Weights.Reliability,
		Coverage:    cfg.Scoring.Weights.Coverage,
	}
	return usecase.NewConfidenceScorer(
		store, records,
		stat, pattern, anomaly,
		builder, learned, combiner,
		m, clk, cfg.Scoring.Lookback, weights, l,
	)
}

// ProvideBatchOrchestrator wires the wave runner.
func ProvideBatchOrchestrator(
	scorer *usecase.ConfidenceScorer,
	limiter *ratelimit.Limiter,
	m domrepo.Metrics,
	clk clock.Clock,
	cfg *config.Config,
	l *logger.Logger,
) *usecase.BatchOrchestrator {
	return usecase.NewBatchOrchestrator(scorer, limiter, m, clk, usecase.BatchConfig{
		MaxSubjects:     cfg.Batch.MaxSubjects,
		BatchSize:       cfg.Batch.BatchSize,
		InterBatchDelay: cfg.Batch.InterBatchDelay,
		UpstreamRPS:     cfg.Batch.UpstreamRPS,
	}, l)
}

// ProvideAlertEvaluator wires alert management and evaluation.
func ProvideAlertEvaluator(
	alerts domrepo.AlertStore,
	records domrepo.ConfidenceStore,
	sink domsvc.NotificationSink,
	m domrepo.Metrics,
	clk clock.Clock,
	l *logger.Logger,
) *usecase.AlertEvaluator {
	return usecase.NewAlertEvaluator(alerts, records, sink, m, clk, l)
}

// ProvideApp assembles the application server.
func ProvideApp(
	cfg *config.Config,
	batch *usecase.BatchOrchestrator,
	evaluator *usecase.AlertEvaluator,
	l *logger.Logger,
) *server.App {
	return server.New(cfg, batch, evaluator, l)
}
