package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the engine configuration loaded from YAML with env overrides.
type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`

	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Port    int    `yaml:"port" default:"9090"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`

	Scoring struct {
		// Factor weights must sum to 1.0.
		Weights struct {
			Freshness   float64 `yaml:"freshness" default:"0.30"`
			Consistency float64 `yaml:"consistency" default:"0.30"`
			Reliability float64 `yaml:"reliability" default:"0.25"`
			Coverage    float64 `yaml:"coverage" default:"0.15"`
		} `yaml:"weights"`
		Hybrid struct {
			Statistical float64 `yaml:"statistical" default:"0.40"`
			ML          float64 `yaml:"ml" default:"0.60"`
		} `yaml:"hybrid"`
		AnomalySensitivity  float64       `yaml:"anomaly_sensitivity" default:"2.0" validate:"gt=0"`
		SlopeEpsilon        float64       `yaml:"slope_epsilon" default:"0.05" validate:"gt=0"`
		VolatilityThreshold float64       `yaml:"volatility_threshold" default:"8.0" validate:"gt=0"`
		CycleThreshold      float64       `yaml:"cycle_threshold" default:"0.6" validate:"gt=0,lte=1"`
		Lookback            time.Duration `yaml:"lookback" default:"720h"`
	} `yaml:"scoring"`

	Batch struct {
		MaxSubjects     int           `yaml:"max_subjects" default:"200" validate:"gte=1"`
		BatchSize       int           `yaml:"batch_size" default:"15" validate:"gte=1,lte=50"`
		InterBatchDelay time.Duration `yaml:"inter_batch_delay" default:"500ms"`
		UpstreamRPS     float64       `yaml:"upstream_rps" default:"30"`
	} `yaml:"batch"`

	Model struct {
		Dir            string `yaml:"dir" default:"models"`
		DefaultVersion string `yaml:"default_version"`
	} `yaml:"model"`

	Store struct {
		// Type selects the observation store backend.
		Type       string `yaml:"type" default:"memory" validate:"oneof=memory clickhouse"`
		Table      string `yaml:"table" default:"rankguard.observations"`
		ClickHouse struct {
			Host        string        `yaml:"host"`
			Port        int           `yaml:"port" default:"9000"`
			Database    string        `yaml:"database" default:"rankguard"`
			User        string        `yaml:"user" default:"default"`
			Password    string        `yaml:"password"`
			DialTimeout time.Duration `yaml:"dial_timeout" default:"5s"`
			ReadTimeout time.Duration `yaml:"read_timeout" default:"10s"`
			MaxExecTime time.Duration `yaml:"max_execution_time" default:"30s"`
		} `yaml:"clickhouse"`
	} `yaml:"store"`

	Alerts struct {
		// Store selects where alert definitions and the trigger CAS live.
		Store string `yaml:"store" default:"memory" validate:"oneof=memory redis"`
		Redis struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"rankguard:alert:"`
		} `yaml:"redis"`
	} `yaml:"alerts"`

	Notify struct {
		// Type selects the notification sink backend.
		Type  string `yaml:"type" default:"log" validate:"oneof=log kafka"`
		Kafka struct {
			Brokers      []string      `yaml:"brokers"`
			Topic        string        `yaml:"topic" default:"rankguard.alerts"`
			BatchTimeout time.Duration `yaml:"batch_timeout" default:"100ms"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"5s"`
		} `yaml:"kafka"`
	} `yaml:"notify"`

	Schedule struct {
		Enabled  bool          `yaml:"enabled" default:"false"`
		Interval time.Duration `yaml:"interval" default:"15m"`
		Subjects []string      `yaml:"subjects"`
	} `yaml:"schedule"`
}

var validate = validator.New()

// Load reads, defaults, and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("RANKGUARD_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("RANKGUARD_MODEL_DIR"); v != "" {
		c.Model.Dir = v
	}
	if v := os.Getenv("RANKGUARD_SUBJECTS"); v != "" {
		c.Schedule.Subjects = strings.Split(v, ",")
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.Store.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.Store.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Alerts.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Notify.Kafka.Brokers = strings.Split(v, ",")
	}
	return c, nil
}

// Validate checks structural and cross-field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	sum := c.Scoring.Weights.Freshness + c.Scoring.Weights.Consistency +
		c.Scoring.Weights.Reliability + c.Scoring.Weights.Coverage
	if sum < 1.0-1e-6 || sum > 1.0+1e-6 {
		return fmt.Errorf("scoring.weights must sum to 1.0, got %.6f", sum)
	}
	if c.Store.Type == "clickhouse" && c.Store.ClickHouse.Host == "" {
		return fmt.Errorf("store.clickhouse.host is required for the clickhouse backend")
	}
	if c.Notify.Type == "kafka" && len(c.Notify.Kafka.Brokers) == 0 {
		return fmt.Errorf("notify.kafka.brokers cannot be empty for the kafka sink")
	}
	return nil
}
