package service

import (
	"context"

	"RankGuard/internal/domain/models"
)

// LearnedScorer maps a feature vector to a [0,1] score using a fixed,
// versioned weights artifact.
type LearnedScorer interface {
	Score(features models.FeatureVector, version string) (float64, models.ModelWeights, error)
}

// NotificationSink delivers one trigger payload to a single channel.
// Implementations are external transports (log, Kafka, webhook workers).
type NotificationSink interface {
	Send(ctx context.Context, channel string, payload models.NotificationPayload) error
}
