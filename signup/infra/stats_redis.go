package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samanthaatlas/atlas-V10/signup/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStatsStore grava contadores de desfecho em hashes do Redis:
//
//	<prefix>:total             outcome -> n
//	<prefix>:minute:<yyyymmddhhmm>  outcome -> n   (com TTL)
//	<prefix>:session:<id>      outcome -> n        (opcional, com TTL)
type RedisStatsStore struct {
	rdb redis.Cmdable

	prefix string
	// ttl aplica apenas em chaves de série temporal / por sessão.
	// total é cumulativo e não expira.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"

	trackSessions bool
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

func WithStatsTrackSessions(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackSessions = track }
}

func NewRedisStatsStore(rdb redis.Cmdable, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "signup:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Keys retorna as chaves tocadas por ev, na ordem em que são incrementadas.
func (s *RedisStatsStore) Keys(ev domain.StatsEvent) []string {
	keys := []string{s.prefix + ":total"}
	if s.bucket == "minute" {
		keys = append(keys, fmt.Sprintf("%s:minute:%s", s.prefix, eventTime(ev).UTC().Format("200601021504")))
	}
	if s.trackSessions {
		if id := strings.TrimSpace(ev.Session); id != "" {
			keys = append(keys, s.prefix+":session:"+id)
		}
	}
	return keys
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	field := string(ev.Outcome)
	if field == "" {
		field = string(domain.OutcomeSuccess)
	}

	pipe := s.rdb.Pipeline()
	for i, key := range s.Keys(ev) {
		pipe.HIncrBy(ctx, key, field, 1)
		if i > 0 && s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record stats: %w", err)
	}
	return nil
}

func eventTime(ev domain.StatsEvent) time.Time {
	if ev.At.IsZero() {
		return time.Now()
	}
	return ev.At
}
