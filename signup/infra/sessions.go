package infra

import (
	"context"
	"sync"
	"time"

	"github.com/samanthaatlas/atlas-V10/signup/domain"
)

// SessionStore guarda um Submitter (Gate) por sessão do formulário.
//
// O estado vive só em memória, equivalente a uma aba aberta: some quando a sessão
// fica inativa por mais de idleTTL ou quando o processo reinicia.
type SessionStore struct {
	mu           sync.Mutex
	entries      map[string]*sessionEntry
	newGate      func() domain.Submitter
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type sessionEntry struct {
	gate     domain.Submitter
	lastSeen time.Time
}

func NewSessionStore(newGate func() domain.Submitter, opts ...StoreOption) *SessionStore {
	o := applyStoreOptions(opts)
	return &SessionStore{
		entries:      make(map[string]*sessionEntry),
		newGate:      newGate,
		idleTTL:      o.idleTTL,
		cleanupEvery: o.cleanupEvery,
	}
}

// Get retorna o gate da sessão, criando um novo na primeira vez.
func (s *SessionStore) Get(id string) domain.Submitter {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[id]; ok {
		ent.lastSeen = now
		return ent.gate
	}

	g := s.newGate()
	s.entries[id] = &sessionEntry{gate: g, lastSeen: now}
	return g
}

// Lookup retorna o gate sem criar sessão.
func (s *SessionStore) Lookup(id string) (domain.Submitter, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	ent.lastSeen = time.Now()
	return ent.gate, true
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Cleanup remove sessões inativas. Sessões com envio em andamento ficam.
func (s *SessionStore) Cleanup() {
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) && !ent.gate.Snapshot().IsSubmitting {
			delete(s.entries, id)
		}
	}
}

func (s *SessionStore) StartJanitor(ctx context.Context) {
	startJanitor(ctx, s.cleanupEvery, s.Cleanup)
}
