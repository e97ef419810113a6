package repository

import (
	"context"
	"time"

	"RankGuard/internal/domain/models"
)

// ObservationStore is the external adapter holding raw ranking observations.
// Consumed only; the ingestion pipeline owns writes.
type ObservationStore interface {
	GetObservations(ctx context.Context, subjectID string, since time.Time) ([]models.Observation, error)
}

// ConfidenceStore keeps the latest confidence record per subject.
type ConfidenceStore interface {
	SaveLatest(ctx context.Context, rec models.ConfidenceRecord) error
	Latest(ctx context.Context, subjectID string) (models.ConfidenceRecord, bool, error)
	LatestBatch(ctx context.Context, subjectIDs []string) (map[string]models.ConfidenceRecord, error)
}

// AlertStore persists alert definitions. CompareAndSetLastTriggered must be
// atomic: of two concurrent evaluations inside one suppression window exactly
// one may win.
type AlertStore interface {
	Create(ctx context.Context, def models.AlertDefinition) error
	Update(ctx context.Context, def models.AlertDefinition) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (models.AlertDefinition, bool, error)
	List(ctx context.Context) ([]models.AlertDefinition, error)
	CompareAndSetLastTriggered(ctx context.Context, id string, prev *time.Time, next time.Time) (bool, error)
}

// Metrics records engine telemetry.
type Metrics interface {
	RecordSubjectScored(level string)
	RecordScoringError(code string)
	RecordScoringLatency(seconds float64)
	RecordBatchWave(size int, seconds float64)
	RecordAlertTriggered(alertID string)
	RecordNotificationFailure(channel string)
	RecordHybridScore(subjectID string, score float64)
}
