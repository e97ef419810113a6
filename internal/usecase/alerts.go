package usecase

import (
	"context"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"RankGuard/internal/domain/models"
	domrepo "RankGuard/internal/domain/repository"
	domsvc "RankGuard/internal/domain/service"
	"RankGuard/pkg/clock"
	"RankGuard/pkg/errs"
	applogger "RankGuard/pkg/logger"
)

// matchSampleSize bounds the matches embedded in a notification payload.
const matchSampleSize = 10

// equalsTolerance defines the "equals" comparator on boundary-rounded scores.
const equalsTolerance = 1e-9

// AlertEvaluator owns alert definition CRUD and the evaluate state machine:
// enabled -> (suppressed | evaluating) -> triggered -> notified -> enabled,
// with last_triggered_at advanced only through the store's compare-and-set so
// concurrent evaluations cannot both fire inside one suppression window.
type AlertEvaluator struct {
	alerts   domrepo.AlertStore
	records  domrepo.ConfidenceStore
	sink     domsvc.NotificationSink
	metrics  domrepo.Metrics
	clk      clock.Clock
	validate *validator.Validate
	l        *applogger.Logger
}

// NewAlertEvaluator creates an evaluator.
func NewAlertEvaluator(
	alerts domrepo.AlertStore,
	records domrepo.ConfidenceStore,
	sink domsvc.NotificationSink,
	metrics domrepo.Metrics,
	clk clock.Clock,
	l *applogger.Logger,
) *AlertEvaluator {
	return &AlertEvaluator{
		alerts: alerts, records: records, sink: sink,
		metrics: metrics, clk: clk,
		validate: validator.New(), l: l,
	}
}

// Create validates the definition, assigns an id, and persists it.
func (e *AlertEvaluator) Create(ctx context.Context, def models.AlertDefinition) (models.AlertDefinition, error) {
	if err := e.validateDefinition(def); err != nil {
		return models.AlertDefinition{}, err
	}
	def.ID = uuid.New().String()
	def.LastTriggeredAt = nil
	if err := e.alerts.Create(ctx, def); err != nil {
		return models.AlertDefinition{}, mapUpstreamErr("alert_create", err)
	}
	return def, nil
}

// Update replaces an existing definition. The caller cannot set
// last_triggered_at; the stored value is preserved.
func (e *AlertEvaluator) Update(ctx context.Context, def models.AlertDefinition) error {
	if def.ID == "" {
		return errs.Validation("alert id is required")
	}
	if err := e.validateDefinition(def); err != nil {
		return err
	}
	existing, ok, err := e.alerts.Get(ctx, def.ID)
	if err != nil {
		return mapUpstreamErr("alert_get", err)
	}
	if !ok {
		return errs.Validationf("alert %s not found", def.ID)
	}
	def.LastTriggeredAt = existing.LastTriggeredAt
	return mapUpstreamErr("alert_update", e.alerts.Update(ctx, def))
}

// Delete removes a definition.
func (e *AlertEvaluator) Delete(ctx context.Context, id string) error {
	return mapUpstreamErr("alert_delete", e.alerts.Delete(ctx, id))
}

// Get fetches a definition.
func (e *AlertEvaluator) Get(ctx context.Context, id string) (models.AlertDefinition, bool, error) {
	return e.alerts.Get(ctx, id)
}

// List returns all definitions.
func (e *AlertEvaluator) List(ctx context.Context) ([]models.AlertDefinition, error) {
	return e.alerts.List(ctx)
}

func (e *AlertEvaluator) validateDefinition(def models.AlertDefinition) error {
	if err := e.validate.Struct(def); err != nil {
		return errs.Validation("invalid alert definition").WithError(err)
	}
	if def.Condition.MetricThreshold < 0 || def.Condition.MetricThreshold > 1 {
		return errs.Validationf("metric threshold %v out of [0,1]", def.Condition.MetricThreshold)
	}
	return nil
}

// Evaluate runs one alert against the latest confidence records of the given
// subjects. Suppression skips evaluation entirely and is not an error; force
// bypasses the suppression window but never the compare-and-set.
func (e *AlertEvaluator) Evaluate(ctx context.Context, alertID string, subjectIDs []string, force bool) (models.EvaluationResult, error) {
	alert, ok, err := e.alerts.Get(ctx, alertID)
	if err != nil {
		return models.EvaluationResult{}, mapUpstreamErr("alert_get", err)
	}
	if !ok {
		return models.EvaluationResult{}, errs.Validationf("alert %s not found", alertID)
	}

	res := models.EvaluationResult{AlertID: alert.ID}
	if !alert.Enabled {
		return res, nil
	}

	now := e.clk.Now()
	if !force && alert.SuppressedAt(now) {
		res.Suppressed = true
		return res, nil
	}

	matches, err := e.collectMatches(ctx, alert, subjectIDs)
	if err != nil {
		return models.EvaluationResult{}, err
	}
	res.Matches = matches
	if len(matches) < alert.Condition.TriggerCount {
		return res, nil
	}

	// Claim the trigger. Losing the race means a concurrent evaluation
	// already fired inside this window; report suppressed and send nothing.
	won, err := e.alerts.CompareAndSetLastTriggered(ctx, alert.ID, alert.LastTriggeredAt, now)
	if err != nil {
		return models.EvaluationResult{}, mapUpstreamErr("alert_cas", err)
	}
	if !won {
		res.Matches = nil
		res.Suppressed = true
		return res, nil
	}

	res.Triggered = true
	if e.metrics != nil {
		e.metrics.RecordAlertTriggered(alert.ID)
	}
	e.notify(ctx, alert, matches, now)
	return res, nil
}

// EvaluateAll evaluates every enabled alert against the subject set.
func (e *AlertEvaluator) EvaluateAll(ctx context.Context, subjectIDs []string) ([]models.EvaluationResult, error) {
	defs, err := e.alerts.List(ctx)
	if err != nil {
		return nil, mapUpstreamErr("alert_list", err)
	}
	out := make([]models.EvaluationResult, 0, len(defs))
	for _, def := range defs {
		if !def.Enabled {
			continue
		}
		res, err := e.Evaluate(ctx, def.ID, subjectIDs, false)
		if err != nil {
			if e.l != nil {
				e.l.Error("alert evaluation failed", applogger.String("alert", def.ID), applogger.Error(err))
			}
			continue
		}
		out = append(out, res)
	}
	return out, nil
}

// collectMatches fetches the latest record per in-scope subject and applies
// the comparator. Subjects without a record are skipped, not failed.
func (e *AlertEvaluator) collectMatches(ctx context.Context, alert models.AlertDefinition, subjectIDs []string) ([]models.AlertMatch, error) {
	scoped := make([]string, 0, len(subjectIDs))
	for _, id := range subjectIDs {
		if alert.SubjectFilter.Matches(id) {
			scoped = append(scoped, id)
		}
	}
	if len(scoped) == 0 {
		return nil, nil
	}

	latest, err := e.records.LatestBatch(ctx, scoped)
	if err != nil {
		return nil, mapUpstreamErr("latest_batch", err)
	}

	var matches []models.AlertMatch
	for _, id := range scoped {
		rec, ok := latest[id]
		if !ok {
			continue
		}
		if conditionMet(alert.Condition, rec.HybridScore) {
			matches = append(matches, models.AlertMatch{
				SubjectID:   id,
				HybridScore: rec.HybridScore,
				Level:       rec.ConfidenceLevel,
			})
		}
	}
	return matches, nil
}

func conditionMet(cond models.AlertCondition, score float64) bool {
	switch cond.Comparator {
	case models.ComparatorBelow:
		return score < cond.MetricThreshold
	case models.ComparatorAbove:
		return score > cond.MetricThreshold
	case models.ComparatorEquals:
		return math.Abs(score-cond.MetricThreshold) <= equalsTolerance
	default:
		return false
	}
}

// notify emits one payload per configured channel. Channel failures are
// logged and counted independently; they never undo the trigger.
func (e *AlertEvaluator) notify(ctx context.Context, alert models.AlertDefinition, matches []models.AlertMatch, now time.Time) {
	sample := matches
	if len(sample) > matchSampleSize {
		sample = sample[:matchSampleSize]
	}
	payload := models.NotificationPayload{
		Event: models.EventAlertTriggered,
		Alert: models.AlertSummary{
			ID:           alert.ID,
			Name:         alert.Name,
			SubjectScope: alert.SubjectFilter,
		},
		Trigger: models.TriggerInfo{
			MatchingCount: len(matches),
			Threshold:     alert.Condition.MetricThreshold,
			Sample:        sample,
		},
		Timestamp: now,
	}

	for _, channel := range alert.Notification.Channels {
		if err := e.sink.Send(ctx, channel, payload); err != nil {
			if e.metrics != nil {
				e.metrics.RecordNotificationFailure(channel)
			}
			if e.l != nil {
				e.l.Error("notification send failed",
					applogger.String("alert", alert.ID),
					applogger.String("channel", channel),
					applogger.Error(err),
				)
			}
		}
	}
}
