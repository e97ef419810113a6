package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	subjectsScored       *prometheus.CounterVec
	scoringErrors        *prometheus.CounterVec
	scoringLatency       prometheus.Histogram
	batchWaveSize        prometheus.Histogram
	batchWaveLatency     prometheus.Histogram
	alertsTriggered      *prometheus.CounterVec
	notificationFailures *prometheus.CounterVec
	hybridScore          *prometheus.GaugeVec
}

// New creates a Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		subjectsScored: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rankguard_subjects_scored_total",
				Help: "Subjects scored, by confidence level",
			},
			[]string{"level"},
		),
		scoringErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rankguard_scoring_errors_total",
				Help: "Scoring failures, by error code",
			},
			[]string{"code"},
		),
		scoringLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rankguard_scoring_duration_seconds",
				Help:    "Duration of single-subject scoring",
				Buckets: prometheus.DefBuckets,
			},
		),
		batchWaveSize: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rankguard_batch_wave_size",
				Help:    "Subjects per batch wave",
				Buckets: []float64{1, 5, 10, 15, 20, 50},
			},
		),
		batchWaveLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rankguard_batch_wave_duration_seconds",
				Help:    "Duration of one batch wave",
				Buckets: prometheus.DefBuckets,
			},
		),
		alertsTriggered: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rankguard_alerts_triggered_total",
				Help: "Alert trigger events, by alert id",
			},
			[]string{"alert_id"},
		),
		notificationFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rankguard_notification_failures_total",
				Help: "Notification delivery failures, by channel",
			},
			[]string{"channel"},
		),
		hybridScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rankguard_hybrid_score",
				Help: "Latest hybrid confidence score per subject",
			},
			[]string{"subject"},
		),
	}
}

// RecordSubjectScored counts a completed scoring by level.
func (r *Recorder) RecordSubjectScored(level string) {
	r.subjectsScored.WithLabelValues(level).Inc()
}

// RecordScoringError counts a scoring failure by error code.
func (r *Recorder) RecordScoringError(code string) {
	r.scoringErrors.WithLabelValues(code).Inc()
}

// RecordScoringLatency observes single-subject scoring duration.
func (r *Recorder) RecordScoringLatency(seconds float64) {
	r.scoringLatency.Observe(seconds)
}

// RecordBatchWave observes one wave's size and duration.
func (r *Recorder) RecordBatchWave(size int, seconds float64) {
	r.batchWaveSize.Observe(float64(size))
	r.batchWaveLatency.Observe(seconds)
}

// RecordAlertTriggered counts a fired alert.
func (r *Recorder) RecordAlertTriggered(alertID string) {
	r.alertsTriggered.WithLabelValues(alertID).Inc()
}

// RecordNotificationFailure counts a failed channel delivery.
func (r *Recorder) RecordNotificationFailure(channel string) {
	r.notificationFailures.WithLabelValues(channel).Inc()
}

// RecordHybridScore sets the latest hybrid score gauge for a subject.
func (r *Recorder) RecordHybridScore(subjectID string, score float64) {
	r.hybridScore.WithLabelValues(subjectID).Set(score)
}
