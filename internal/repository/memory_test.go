package repository

import (
	"context"
	"testing"
	"time"

	"RankGuard/internal/domain/models"
)

func TestMemoryObservationStoreSinceFilter(t *testing.T) {
	s := NewMemoryObservationStore()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	p := 10.0
	s.Seed("kw-1", []models.Observation{
		{Source: models.SourcePrimaryAPI, Position: &p, ObservedAt: base.Add(48 * time.Hour)},
		{Source: models.SourcePrimaryAPI, Position: &p, ObservedAt: base},
		{Source: models.SourcePrimaryAPI, Position: &p, ObservedAt: base.Add(24 * time.Hour)},
	})

	got, err := s.GetObservations(context.Background(), "kw-1", base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d observations, want 2", len(got))
	}
	if !got[0].ObservedAt.Before(got[1].ObservedAt) {
		t.Fatalf("observations must come back in chronological order")
	}
}

func TestMemoryConfidenceStoreLatestBatch(t *testing.T) {
	s := NewMemoryConfidenceStore(100, 0)
	ctx := context.Background()
	for _, id := range []string{"kw-1", "kw-2"} {
		if err := s.SaveLatest(ctx, models.ConfidenceRecord{SubjectID: id, HybridScore: 0.5}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	out, err := s.LatestBatch(ctx, []string{"kw-1", "kw-2", "kw-3"})
	if err != nil {
		t.Fatalf("latest batch: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d records, want 2", len(out))
	}
	if _, ok := out["kw-3"]; ok {
		t.Fatalf("unknown subject must be absent, not zero-valued")
	}
}

func TestMemoryConfidenceStoreSupersedes(t *testing.T) {
	s := NewMemoryConfidenceStore(100, 0)
	ctx := context.Background()
	_ = s.SaveLatest(ctx, models.ConfidenceRecord{SubjectID: "kw-1", HybridScore: 0.4})
	_ = s.SaveLatest(ctx, models.ConfidenceRecord{SubjectID: "kw-1", HybridScore: 0.8})

	rec, ok, err := s.Latest(ctx, "kw-1")
	if err != nil || !ok {
		t.Fatalf("latest: ok=%v err=%v", ok, err)
	}
	if rec.HybridScore != 0.8 {
		t.Fatalf("latest score = %v, want the superseding 0.8", rec.HybridScore)
	}
}

func TestMemoryAlertStoreCAS(t *testing.T) {
	s := NewMemoryAlertStore()
	ctx := context.Background()
	def := models.AlertDefinition{ID: "a1", Name: "low confidence"}
	if err := s.Create(ctx, def); err != nil {
		t.Fatalf("create: %v", err)
	}

	t1 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	won, err := s.CompareAndSetLastTriggered(ctx, "a1", nil, t1)
	if err != nil {
		t.Fatalf("cas: %v", err)
	}
	if !won {
		t.Fatalf("first cas from nil must win")
	}

	// A second claim with the stale snapshot loses.
	t2 := t1.Add(time.Minute)
	won, err = s.CompareAndSetLastTriggered(ctx, "a1", nil, t2)
	if err != nil {
		t.Fatalf("cas: %v", err)
	}
	if won {
		t.Fatalf("stale snapshot must lose the cas")
	}

	// With the current snapshot it wins again.
	won, err = s.CompareAndSetLastTriggered(ctx, "a1", &t1, t2)
	if err != nil {
		t.Fatalf("cas: %v", err)
	}
	if !won {
		t.Fatalf("current snapshot must win")
	}

	got, ok, err := s.Get(ctx, "a1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.LastTriggeredAt == nil || !got.LastTriggeredAt.Equal(t2) {
		t.Fatalf("last triggered = %v, want %v", got.LastTriggeredAt, t2)
	}
}

func TestMemoryAlertStoreCreateDuplicate(t *testing.T) {
	s := NewMemoryAlertStore()
	ctx := context.Background()
	def := models.AlertDefinition{ID: "a1"}
	if err := s.Create(ctx, def); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Create(ctx, def); err == nil {
		t.Fatalf("duplicate create must fail")
	}
}
