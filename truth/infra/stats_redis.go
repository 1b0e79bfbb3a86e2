package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"truth-api/truth/domain"
)

// RedisStatsStore acumula contadores de decisões (served/limited) em Redis,
// best-effort: erro aqui nunca derruba uma requisição.
type RedisStatsStore struct {
	rdb *redis.Client

	prefix string
	// ttl aplica apenas nas chaves por data e por cliente.
	// total, rota e dia-da-semana são cumulativos e não expiram.
	ttl time.Duration

	bucket string // "day" (padrão) ou "none"

	trackKeys bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackKeys(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackKeys = track }
}

func NewRedisStatsStore(rdb *redis.Client, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "truthapi:stats",
		ttl:    7 * 24 * time.Hour,
		bucket: "day",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	field := "limited"
	if ev.Allowed {
		field = "served"
	}

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)

	// a seleção é enviesada por dia da semana, então o corte por weekday é
	// o que interessa olhar primeiro.
	if ev.Day != "" {
		pipe.HIncrBy(ctx, s.prefix+":weekday", ev.Day+":"+field, 1)
	}

	if s.bucket == "day" {
		dateKey := fmt.Sprintf("%s:date:%s", s.prefix, at.UTC().Format("20060102"))
		pipe.HIncrBy(ctx, dateKey, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, dateKey, s.ttl)
		}
	}

	if ev.Method != "" || ev.Path != "" {
		route := strings.TrimSpace(strings.TrimSpace(ev.Method) + " " + strings.TrimSpace(ev.Path))
		if route != "" {
			pipe.HIncrBy(ctx, s.prefix+":route", route+":"+field, 1)
		}
	}

	if s.trackKeys {
		k := strings.TrimSpace(string(ev.Key))
		if k != "" {
			keyKey := s.prefix + ":key:" + k
			pipe.HIncrBy(ctx, keyKey, field, 1)
			if s.ttl > 0 {
				pipe.Expire(ctx, keyKey, s.ttl)
			}
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}
