package model

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"RankGuard/internal/domain/models"
	"RankGuard/pkg/errs"
)

func zeroWeights(version string) models.ModelWeights {
	return models.ModelWeights{Version: version}
}

func TestForwardZeroWeights(t *testing.T) {
	// All-zero parameters collapse to sigmoid(0).
	got := Forward(models.FeatureVector{0.3, 0.5, 0.9}, zeroWeights("v1"))
	if got != 0.5 {
		t.Fatalf("forward = %v, want 0.5", got)
	}
}

func TestForwardDeterministic(t *testing.T) {
	w := zeroWeights("v1")
	for j := 0; j < models.HiddenUnits; j++ {
		for i := 0; i < models.FeatureCount; i++ {
			w.W1[j][i] = 0.1 * float64(j+1)
		}
		w.B1[j] = -0.05
		w.W2[j] = 0.25
	}
	w.B2 = 0.1

	fv := models.FeatureVector{0.9, 0.8, 1.0, 0.33, 0.5, 0.1, 0.7, 0.5, 0.5, 0.2, 0.0}
	a := Forward(fv, w)
	b := Forward(fv, w)
	if a != b {
		t.Fatalf("forward must be a pure function: %v != %v", a, b)
	}
	if a <= 0 || a >= 1 {
		t.Fatalf("forward output %v outside (0,1)", a)
	}
}

func TestForwardBounded(t *testing.T) {
	w := zeroWeights("v1")
	for j := 0; j < models.HiddenUnits; j++ {
		for i := 0; i < models.FeatureCount; i++ {
			w.W1[j][i] = 100
		}
		w.W2[j] = 100
	}
	w.B2 = 100

	var ones models.FeatureVector
	for i := range ones {
		ones[i] = 1
	}
	got := Forward(ones, w)
	if math.IsNaN(got) || got < 0 || got > 1 {
		t.Fatalf("saturated forward = %v, want within [0,1]", got)
	}
}

func TestRegistryDefaultAndMiss(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(zeroWeights("v1")); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(zeroWeights("v2")); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.SetDefault("v2"); err != nil {
		t.Fatalf("set default: %v", err)
	}

	w, err := reg.Get("")
	if err != nil {
		t.Fatalf("get default: %v", err)
	}
	if w.Version != "v2" {
		t.Fatalf("default version = %s, want v2", w.Version)
	}

	_, err = reg.Get("v9")
	if !errs.IsModelUnavailable(err) {
		t.Fatalf("expected ERR_MODEL_UNAVAILABLE, got %v", err)
	}
}

func TestRegistryRejectsUnversioned(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(models.ModelWeights{}); !errs.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestScorerUsesRequestedVersion(t *testing.T) {
	reg := NewRegistry()
	v1 := zeroWeights("v1")
	v2 := zeroWeights("v2")
	v2.B2 = 1.0
	if err := reg.Register(v1); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(v2); err != nil {
		t.Fatalf("register: %v", err)
	}

	s := NewScorer(reg)
	score1, used1, err := s.Score(models.FeatureVector{}, "v1")
	if err != nil {
		t.Fatalf("score v1: %v", err)
	}
	score2, used2, err := s.Score(models.FeatureVector{}, "v2")
	if err != nil {
		t.Fatalf("score v2: %v", err)
	}
	if used1.Version != "v1" || used2.Version != "v2" {
		t.Fatalf("versions = %s/%s, want v1/v2", used1.Version, used2.Version)
	}
	if score1 == score2 {
		t.Fatalf("different artifacts must produce different scores")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	for _, v := range []string{"v1", "v2"} {
		b, err := json.Marshal(zeroWeights(v))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, v+".json"), b, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	reg, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	if got := len(reg.Versions()); got != 2 {
		t.Fatalf("loaded %d versions, want 2", got)
	}
}

func TestLoadDirEmpty(t *testing.T) {
	if _, err := LoadDir(t.TempDir()); err == nil {
		t.Fatalf("expected error for empty model dir")
	}
}
