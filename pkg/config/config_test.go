package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "environment: test\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Fatalf("log defaults wrong: %+v", cfg.Log)
	}
	if cfg.Scoring.Weights.Freshness != 0.30 || cfg.Scoring.Weights.Coverage != 0.15 {
		t.Fatalf("weight defaults wrong: %+v", cfg.Scoring.Weights)
	}
	if cfg.Scoring.Hybrid.Statistical != 0.40 || cfg.Scoring.Hybrid.ML != 0.60 {
		t.Fatalf("hybrid defaults wrong: %+v", cfg.Scoring.Hybrid)
	}
	if cfg.Batch.BatchSize != 15 || cfg.Batch.InterBatchDelay != 500*time.Millisecond {
		t.Fatalf("batch defaults wrong: %+v", cfg.Batch)
	}
	if cfg.Store.Type != "memory" || cfg.Alerts.Store != "memory" || cfg.Notify.Type != "log" {
		t.Fatalf("backend defaults wrong")
	}
	if cfg.Scoring.Lookback != 720*time.Hour {
		t.Fatalf("lookback = %v, want 720h", cfg.Scoring.Lookback)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
environment: production
scoring:
  weights:
    freshness: 0.25
    consistency: 0.25
    reliability: 0.25
    coverage: 0.25
  anomaly_sensitivity: 3.5
batch:
  batch_size: 5
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Scoring.Weights.Freshness != 0.25 {
		t.Fatalf("freshness = %v", cfg.Scoring.Weights.Freshness)
	}
	if cfg.Scoring.AnomalySensitivity != 3.5 {
		t.Fatalf("sensitivity = %v", cfg.Scoring.AnomalySensitivity)
	}
	if cfg.Batch.BatchSize != 5 {
		t.Fatalf("batch size = %d", cfg.Batch.BatchSize)
	}
}

func TestLoadRejectsBadWeightSum(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
scoring:
  weights:
    freshness: 0.9
    consistency: 0.9
    reliability: 0.1
    coverage: 0.1
`))
	if err == nil {
		t.Fatalf("expected weight-sum validation error")
	}
}

func TestLoadRejectsClickHouseWithoutHost(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
store:
  type: clickhouse
`))
	if err == nil {
		t.Fatalf("expected missing-host validation error")
	}
}

func TestLoadRejectsKafkaWithoutBrokers(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
notify:
  type: kafka
`))
	if err == nil {
		t.Fatalf("expected missing-brokers validation error")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("RANKGUARD_ENV", "staging")
	t.Setenv("RANKGUARD_SUBJECTS", "kw-1,kw-2")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := LoadWithEnv(writeConfig(t, "environment: test\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Environment != "staging" {
		t.Fatalf("environment = %s", cfg.Environment)
	}
	if len(cfg.Schedule.Subjects) != 2 || cfg.Schedule.Subjects[1] != "kw-2" {
		t.Fatalf("subjects = %v", cfg.Schedule.Subjects)
	}
	if cfg.Alerts.Redis.Addr != "redis:6379" {
		t.Fatalf("redis addr = %s", cfg.Alerts.Redis.Addr)
	}
}
