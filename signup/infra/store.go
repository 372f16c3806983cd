package infra

import (
	"context"
	"sync"
	"time"

	"github.com/samanthaatlas/atlas-V10/signup/domain"

	"golang.org/x/time/rate"
)

// ClientStore mantém um token bucket (x/time/rate) por cliente, com limpeza
// periódica de clientes inativos.
type ClientStore struct {
	mu           sync.Mutex
	entries      map[string]*clientEntry
	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type clientEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type StoreOption func(*storeOptions)

type storeOptions struct {
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

func WithIdleTTL(d time.Duration) StoreOption {
	return func(o *storeOptions) { o.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) StoreOption {
	return func(o *storeOptions) { o.cleanupEvery = d }
}

func applyStoreOptions(opts []StoreOption) storeOptions {
	o := storeOptions{idleTTL: 15 * time.Minute, cleanupEvery: 2 * time.Minute}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func NewClientStore(rps float64, burst int, opts ...StoreOption) *ClientStore {
	o := applyStoreOptions(opts)
	return &ClientStore{
		entries:      make(map[string]*clientEntry),
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      o.idleTTL,
		cleanupEvery: o.cleanupEvery,
	}
}

func (s *ClientStore) RPS() float64 { return float64(s.rps) }
func (s *ClientStore) Burst() int   { return s.burst }

// Get implementa domain.LimiterStore.
func (s *ClientStore) Get(key domain.Key) domain.Limiter {
	return s.limiter(string(key))
}

func (s *ClientStore) limiter(key string) *rate.Limiter {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(s.rps, s.burst)
	s.entries[key] = &clientEntry{lim: lim, lastSeen: now}
	return lim
}

func (s *ClientStore) Cleanup() {
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor limpa clientes inativos periodicamente. Pare cancelando o contexto.
func (s *ClientStore) StartJanitor(ctx context.Context) {
	startJanitor(ctx, s.cleanupEvery, s.Cleanup)
}
