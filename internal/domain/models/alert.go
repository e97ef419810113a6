package models

import "time"

// Comparator defines how a score is checked against an alert threshold.
type Comparator string

const (
	ComparatorBelow  Comparator = "below"
	ComparatorAbove  Comparator = "above"
	ComparatorEquals Comparator = "equals"
)

// AlertCondition is the trigger rule of an alert definition.
type AlertCondition struct {
	MetricThreshold float64    `json:"metric_threshold" validate:"gte=0,lte=1"`
	Comparator      Comparator `json:"comparator" validate:"required,oneof=below above equals"`
	TriggerCount    int        `json:"trigger_count" default:"1" validate:"gte=1"`
}

// SubjectFilter scopes an alert to a set of subjects. ExplicitIDs wins when
// non-empty; otherwise Prefix matches subject ids by prefix; an empty filter
// matches every subject handed to the evaluator.
type SubjectFilter struct {
	ExplicitIDs []string `json:"explicit_ids,omitempty"`
	Prefix      string   `json:"prefix,omitempty"`
}

// Matches reports whether the filter includes the given subject id.
func (f SubjectFilter) Matches(subjectID string) bool {
	if len(f.ExplicitIDs) > 0 {
		for _, id := range f.ExplicitIDs {
			if id == subjectID {
				return true
			}
		}
		return false
	}
	if f.Prefix != "" {
		return len(subjectID) >= len(f.Prefix) && subjectID[:len(f.Prefix)] == f.Prefix
	}
	return true
}

// NotificationConfig declares where trigger payloads go and how long the
// alert stays quiet after firing.
type NotificationConfig struct {
	Channels         []string `json:"channels" validate:"required,min=1"`
	SuppressDuration int      `json:"suppress_duration_seconds" default:"3600" validate:"gte=0"`
}

// AlertDefinition is an owner-managed alert rule. The engine mutates only
// LastTriggeredAt, and only through the store's compare-and-set.
type AlertDefinition struct {
	ID              string             `json:"id"`
	Name            string             `json:"name" validate:"required"`
	SubjectFilter   SubjectFilter      `json:"subject_filter"`
	Condition       AlertCondition     `json:"condition" validate:"required"`
	Notification    NotificationConfig `json:"notification" validate:"required"`
	Enabled         bool               `json:"enabled"`
	LastTriggeredAt *time.Time         `json:"last_triggered_at,omitempty"`
}

// SuppressedAt reports whether the alert is inside its suppression window at
// the given instant.
func (a AlertDefinition) SuppressedAt(now time.Time) bool {
	if a.LastTriggeredAt == nil || a.Notification.SuppressDuration <= 0 {
		return false
	}
	until := a.LastTriggeredAt.Add(time.Duration(a.Notification.SuppressDuration) * time.Second)
	return now.Before(until)
}

// AlertMatch is one subject that satisfied the alert condition.
type AlertMatch struct {
	SubjectID   string          `json:"subject_id"`
	HybridScore float64         `json:"hybrid_score"`
	Level       ConfidenceLevel `json:"confidence_level"`
}

// EvaluationResult reports the outcome of one alert evaluation.
type EvaluationResult struct {
	AlertID    string       `json:"alert_id"`
	Triggered  bool         `json:"triggered"`
	Suppressed bool         `json:"suppressed"`
	Matches    []AlertMatch `json:"matches,omitempty"`
}

// NotificationPayload is the wire shape handed to the notification sink.
// One payload per trigger; the sample is bounded to the first matches.
type NotificationPayload struct {
	Event     string       `json:"event"`
	Alert     AlertSummary `json:"alert"`
	Trigger   TriggerInfo  `json:"trigger"`
	Timestamp time.Time    `json:"timestamp"`
}

// AlertSummary identifies the firing alert inside a payload.
type AlertSummary struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	SubjectScope SubjectFilter `json:"subject_scope"`
}

// TriggerInfo carries the match statistics of a fired alert.
type TriggerInfo struct {
	MatchingCount int          `json:"matching_count"`
	Threshold     float64      `json:"threshold"`
	Sample        []AlertMatch `json:"sample"`
}

// EventAlertTriggered is the event name on every notification payload.
const EventAlertTriggered = "confidence_alert_triggered"
