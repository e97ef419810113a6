//go:build wireinject
// +build wireinject

package di

import (
	"RankGuard/pkg/config"
	"RankGuard/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideClock,
		ProvideMetrics,

		// Stores and transports
		ProvideObservationStore,
		ProvideConfidenceStore,
		ProvideAlertStore,
		ProvideNotificationSink,

		// Scoring components
		ProvideModelRegistry,
		ProvideLearnedScorer,
		ProvideStatisticalScorer,
		ProvidePatternRecognizer,
		ProvideAnomalyDetector,
		ProvideFeatureBuilder,
		ProvideHybridCombiner,
		ProvideRateLimiter,

		// Use cases
		ProvideConfidenceScorer,
		ProvideBatchOrchestrator,
		ProvideAlertEvaluator,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil, nil
}
