package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"RankGuard/internal/domain/models"
	"RankGuard/pkg/cache"
)

// MemoryObservationStore is an in-memory ObservationStore used in tests and
// the default wiring. Seed it with per-subject observation history.
type MemoryObservationStore struct {
	mu   sync.RWMutex
	data map[string][]models.Observation
}

// NewMemoryObservationStore creates an empty store.
func NewMemoryObservationStore() *MemoryObservationStore {
	return &MemoryObservationStore{data: make(map[string][]models.Observation)}
}

// Seed replaces the history for a subject, kept sorted by observed_at.
func (s *MemoryObservationStore) Seed(subjectID string, obs []models.Observation) {
	cp := make([]models.Observation, len(obs))
	copy(cp, obs)
	sort.Slice(cp, func(i, j int) bool { return cp[i].ObservedAt.Before(cp[j].ObservedAt) })
	s.mu.Lock()
	s.data[subjectID] = cp
	s.mu.Unlock()
}

// GetObservations returns the subject's observations at or after since.
func (s *MemoryObservationStore) GetObservations(_ context.Context, subjectID string, since time.Time) ([]models.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Observation
	for _, o := range s.data[subjectID] {
		if !o.ObservedAt.Before(since) {
			out = append(out, o)
		}
	}
	return out, nil
}

// MemoryConfidenceStore keeps the latest record per subject in a TTL cache.
type MemoryConfidenceStore struct {
	c *cache.TTL[models.ConfidenceRecord]
}

// NewMemoryConfidenceStore creates a store; ttl of zero keeps records until
// superseded or evicted.
func NewMemoryConfidenceStore(maxSize int, ttl time.Duration) *MemoryConfidenceStore {
	return &MemoryConfidenceStore{
		c: cache.NewTTL[models.ConfidenceRecord](cache.WithMaxSize(maxSize), cache.WithDefaultTTL(ttl)),
	}
}

func (s *MemoryConfidenceStore) SaveLatest(_ context.Context, rec models.ConfidenceRecord) error {
	s.c.Set(rec.SubjectID, rec)
	return nil
}

func (s *MemoryConfidenceStore) Latest(_ context.Context, subjectID string) (models.ConfidenceRecord, bool, error) {
	rec, err := s.c.Get(subjectID)
	if errors.Is(err, cache.ErrMiss) {
		return models.ConfidenceRecord{}, false, nil
	}
	if err != nil {
		return models.ConfidenceRecord{}, false, err
	}
	return rec, true, nil
}

func (s *MemoryConfidenceStore) LatestBatch(ctx context.Context, subjectIDs []string) (map[string]models.ConfidenceRecord, error) {
	out := make(map[string]models.ConfidenceRecord, len(subjectIDs))
	for _, id := range subjectIDs {
		rec, ok, err := s.Latest(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out[id] = rec
		}
	}
	return out, nil
}

// MemoryAlertStore is an in-memory AlertStore. The compare-and-set runs
// under one mutex, giving the same exclusive-update guarantee the Redis
// implementation provides with a script.
type MemoryAlertStore struct {
	mu   sync.Mutex
	data map[string]models.AlertDefinition
}

// NewMemoryAlertStore creates an empty store.
func NewMemoryAlertStore() *MemoryAlertStore {
	return &MemoryAlertStore{data: make(map[string]models.AlertDefinition)}
}

func (s *MemoryAlertStore) Create(_ context.Context, def models.AlertDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[def.ID]; exists {
		return errors.New("alert already exists")
	}
	s.data[def.ID] = def
	return nil
}

func (s *MemoryAlertStore) Update(_ context.Context, def models.AlertDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[def.ID]; !exists {
		return errors.New("alert not found")
	}
	s.data[def.ID] = def
	return nil
}

func (s *MemoryAlertStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

func (s *MemoryAlertStore) Get(_ context.Context, id string) (models.AlertDefinition, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	def, ok := s.data[id]
	return def, ok, nil
}

func (s *MemoryAlertStore) List(_ context.Context) ([]models.AlertDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AlertDefinition, 0, len(s.data))
	for _, def := range s.data {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CompareAndSetLastTriggered advances last_triggered_at only if the stored
// value still equals prev. Returns false when another evaluation won first.
func (s *MemoryAlertStore) CompareAndSetLastTriggered(_ context.Context, id string, prev *time.Time, next time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	def, ok := s.data[id]
	if !ok {
		return false, errors.New("alert not found")
	}
	if !sameTime(def.LastTriggeredAt, prev) {
		return false, nil
	}
	def.LastTriggeredAt = &next
	s.data[id] = def
	return true, nil
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
