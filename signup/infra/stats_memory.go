package infra

import (
	"context"
	"sync"

	"github.com/samanthaatlas/atlas-V10/signup/domain"
)

// MemoryStatsStore conta desfechos em memória. É o backend do servidor quando
// STATS_ENABLED=true sem REDIS_ADDR; os totais vão para o log no shutdown.
//
// Não faz expiração nem sobrevive a restart.
type MemoryStatsStore struct {
	mu        sync.Mutex
	total     map[domain.Outcome]int64
	bySession map[string]map[domain.Outcome]int64

	trackSessions bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackSessions(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackSessions = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		total:     make(map[domain.Outcome]int64),
		bySession: make(map[string]map[domain.Outcome]int64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total[ev.Outcome]++
	if s.trackSessions && ev.Session != "" {
		c := s.bySession[ev.Session]
		if c == nil {
			c = make(map[domain.Outcome]int64)
			s.bySession[ev.Session] = c
		}
		c[ev.Outcome]++
	}
	return nil
}

func (s *MemoryStatsStore) Total() map[domain.Outcome]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.Outcome]int64, len(s.total))
	for k, v := range s.total {
		out[k] = v
	}
	return out
}

func (s *MemoryStatsStore) BySession(id string) map[domain.Outcome]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.Outcome]int64, len(s.bySession[id]))
	for k, v := range s.bySession[id] {
		out[k] = v
	}
	return out
}
