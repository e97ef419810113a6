package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"RankGuard/internal/domain/models"
	"RankGuard/pkg/logger"
)

// KafkaConfig configures the Kafka-backed notification sink. All channels
// share one topic; the channel name travels as a message header.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	RequiredAcks int
	MaxAttempts  int
	WriteTimeout time.Duration
	BatchTimeout time.Duration
}

// KafkaSink publishes trigger payloads to Kafka, keyed by alert id so all
// payloads of one alert land on the same partition.
type KafkaSink struct {
	writer *kafka.Writer
	topic  string
	l      *logger.Logger
}

// NewKafkaSink creates a Kafka-backed sink.
func NewKafkaSink(cfg KafkaConfig, l *logger.Logger) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if cfg.RequiredAcks == 0 {
		cfg.RequiredAcks = -1
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = time.Second
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:  kafka.Gzip,
		MaxAttempts:  cfg.MaxAttempts,
		WriteTimeout: cfg.WriteTimeout,
		BatchTimeout: cfg.BatchTimeout,
	}
	return &KafkaSink{writer: writer, topic: cfg.Topic, l: l}, nil
}

func (s *KafkaSink) Send(ctx context.Context, channel string, payload models.NotificationPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	msg := kafka.Message{
		Topic: s.topic,
		Key:   []byte(payload.Alert.ID),
		Value: value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "channel", Value: []byte(channel)},
			{Key: "event", Value: []byte(payload.Event)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", msg.Topic, err)
	}

	s.l.Debug("alert payload published",
		logger.String("topic", msg.Topic),
		logger.String("alert_id", payload.Alert.ID),
		logger.Int("bytes", len(value)),
	)
	return nil
}

// Close flushes and closes the underlying writer.
func (s *KafkaSink) Close() error {
	if s.writer != nil {
		return s.writer.Close()
	}
	return nil
}
