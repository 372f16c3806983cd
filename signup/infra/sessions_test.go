package infra

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samanthaatlas/atlas-V10/signup/domain"
)

type stubGate struct {
	state domain.AttemptState
}

func (g *stubGate) SetEmail(email string)                { g.state.Email = email }
func (g *stubGate) Submit(context.Context, string) error { return nil }
func (g *stubGate) Snapshot() domain.AttemptState        { return g.state }

func newStubStore(opts ...StoreOption) (*SessionStore, *int) {
	created := 0
	s := NewSessionStore(func() domain.Submitter {
		created++
		return &stubGate{}
	}, opts...)
	return s, &created
}

func TestSessionStore_GetCreatesOncePerSession(t *testing.T) {
	s, created := newStubStore()

	a := s.Get("a")
	assert.Same(t, a, s.Get("a"))
	s.Get("b")

	assert.Equal(t, 2, *created)
	assert.Equal(t, 2, s.Len())
}

func TestSessionStore_LookupDoesNotCreate(t *testing.T) {
	s, created := newStubStore()

	_, ok := s.Lookup("missing")
	assert.False(t, ok)
	assert.Zero(t, *created)

	g := s.Get("a")
	got, ok := s.Lookup("a")
	require.True(t, ok)
	assert.Same(t, g, got)
}

func TestSessionStore_CleanupKeepsSubmittingSessions(t *testing.T) {
	s, _ := newStubStore(WithIdleTTL(time.Millisecond), WithCleanupEvery(0))

	s.Get("idle")
	busy := s.Get("busy").(*stubGate)
	busy.state.IsSubmitting = true

	time.Sleep(3 * time.Millisecond)
	s.Cleanup()

	_, ok := s.Lookup("idle")
	assert.False(t, ok)
	_, ok = s.Lookup("busy")
	assert.True(t, ok)
}

func TestSessionStore_JanitorStopsWithContext(t *testing.T) {
	s, _ := newStubStore(WithIdleTTL(time.Millisecond), WithCleanupEvery(2*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Get("a")
	s.StartJanitor(ctx)

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
}
