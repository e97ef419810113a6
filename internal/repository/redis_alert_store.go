package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"RankGuard/internal/domain/models"
)

// casScript atomically advances last_triggered_at only when the stored value
// still matches the caller's snapshot. Running it server-side is what keeps
// two concurrent evaluations from both firing inside one suppression window.
var casScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'last_triggered_at')
if cur == false then cur = '' end
if cur ~= ARGV[1] then return 0 end
redis.call('HSET', KEYS[1], 'last_triggered_at', ARGV[2])
return 1
`)

// RedisAlertStore persists alert definitions in Redis hashes: the definition
// body under "def", the trigger timestamp under "last_triggered_at".
type RedisAlertStore struct {
	client *redis.Client
	prefix string
}

// NewRedisAlertStore creates a store over the given client.
func NewRedisAlertStore(client *redis.Client, prefix string) *RedisAlertStore {
	if prefix == "" {
		prefix = "rankguard:alert:"
	}
	return &RedisAlertStore{client: client, prefix: prefix}
}

func (s *RedisAlertStore) key(id string) string { return s.prefix + id }

func (s *RedisAlertStore) indexKey() string { return s.prefix + "index" }

func (s *RedisAlertStore) Create(ctx context.Context, def models.AlertDefinition) error {
	return s.write(ctx, def, true)
}

func (s *RedisAlertStore) Update(ctx context.Context, def models.AlertDefinition) error {
	return s.write(ctx, def, false)
}

func (s *RedisAlertStore) write(ctx context.Context, def models.AlertDefinition, create bool) error {
	// last_triggered_at lives in its own field so the CAS can compare it
	// without touching the definition body.
	lastTriggered := def.LastTriggeredAt
	def.LastTriggeredAt = nil
	body, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	exists, err := s.client.Exists(ctx, s.key(def.ID)).Result()
	if err != nil {
		return fmt.Errorf("alert exists: %w", err)
	}
	if create && exists > 0 {
		return errors.New("alert already exists")
	}
	if !create && exists == 0 {
		return errors.New("alert not found")
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key(def.ID), "def", body)
	if create {
		pipe.HSet(ctx, s.key(def.ID), "last_triggered_at", formatTime(lastTriggered))
	}
	pipe.SAdd(ctx, s.indexKey(), def.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write alert: %w", err)
	}
	return nil
}

func (s *RedisAlertStore) Delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(id))
	pipe.SRem(ctx, s.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}
	return nil
}

func (s *RedisAlertStore) Get(ctx context.Context, id string) (models.AlertDefinition, bool, error) {
	vals, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return models.AlertDefinition{}, false, fmt.Errorf("get alert: %w", err)
	}
	if len(vals) == 0 {
		return models.AlertDefinition{}, false, nil
	}
	var def models.AlertDefinition
	if err := json.Unmarshal([]byte(vals["def"]), &def); err != nil {
		return models.AlertDefinition{}, false, fmt.Errorf("unmarshal alert: %w", err)
	}
	if t, ok, err := parseTime(vals["last_triggered_at"]); err != nil {
		return models.AlertDefinition{}, false, err
	} else if ok {
		def.LastTriggeredAt = &t
	}
	return def, true, nil
}

func (s *RedisAlertStore) List(ctx context.Context) ([]models.AlertDefinition, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	out := make([]models.AlertDefinition, 0, len(ids))
	for _, id := range ids {
		def, ok, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, def)
		}
	}
	return out, nil
}

// CompareAndSetLastTriggered runs the CAS script; false means another
// evaluation advanced the timestamp first.
func (s *RedisAlertStore) CompareAndSetLastTriggered(ctx context.Context, id string, prev *time.Time, next time.Time) (bool, error) {
	res, err := casScript.Run(ctx, s.client, []string{s.key(id)}, formatTime(prev), formatTime(&next)).Int()
	if err != nil {
		return false, fmt.Errorf("cas last_triggered_at: %w", err)
	}
	return res == 1, nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, bool, error) {
	if s == "" {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse last_triggered_at: %w", err)
	}
	return t, true, nil
}
