package notify

import (
	"context"

	"RankGuard/internal/domain/models"
	"RankGuard/pkg/logger"
)

// LogSink writes trigger payloads to the structured log. It is the default
// sink for local and test environments.
type LogSink struct {
	l *logger.Logger
}

// NewLogSink creates a log-backed sink.
func NewLogSink(l *logger.Logger) *LogSink {
	return &LogSink{l: l}
}

func (s *LogSink) Send(_ context.Context, channel string, payload models.NotificationPayload) error {
	s.l.Info("confidence alert triggered",
		logger.String("channel", channel),
		logger.String("event", payload.Event),
		logger.String("alert_id", payload.Alert.ID),
		logger.String("alert_name", payload.Alert.Name),
		logger.Int("matching_count", payload.Trigger.MatchingCount),
		logger.Float64("threshold", payload.Trigger.Threshold),
	)
	return nil
}
