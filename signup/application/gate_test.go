package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samanthaatlas/atlas-V10/signup/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = at
}

type recordingSender struct {
	mu   sync.Mutex
	sent []domain.Subscription
	err  error
}

func (s *recordingSender) Send(_ context.Context, sub domain.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sub)
	return s.err
}

type panicSender struct{}

func (panicSender) Send(context.Context, domain.Subscription) error { panic("boom") }

// blockingSender segura o envio até release ser fechado.
type blockingSender struct {
	started chan struct{}
	release chan struct{}
}

func (s *blockingSender) Send(ctx context.Context, _ domain.Subscription) error {
	close(s.started)
	<-s.release
	return nil
}

func newTestGate(sender domain.Sender) (*Gate, *fakeClock) {
	clock := &fakeClock{now: t0}
	return NewGate(sender, WithClock(clock.Now)), clock
}

func TestGate_EmptyEmail(t *testing.T) {
	g, _ := newTestGate(&recordingSender{})

	err := g.Submit(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrEmptyEmail)

	st := g.Snapshot()
	assert.Equal(t, "Email is required", st.ErrorMessage)
	assert.Equal(t, domain.PhaseFailed, st.Phase)
	assert.Zero(t, st.AttemptCount, "validation failure must not consume an attempt")
	assert.False(t, st.IsSubmitting)
}

func TestGate_InvalidFormat(t *testing.T) {
	sender := &recordingSender{}
	g, _ := newTestGate(sender)

	err := g.Submit(context.Background(), "not-an-email")
	require.ErrorIs(t, err, domain.ErrInvalidFormat)
	assert.Equal(t, "Please enter a valid email address", g.Snapshot().ErrorMessage)
	assert.Equal(t, "not-an-email", g.Snapshot().Email)
	assert.Empty(t, sender.sent)
}

func TestGate_SuccessClearsEmailAndError(t *testing.T) {
	sender := &recordingSender{}
	g, _ := newTestGate(sender)

	require.Error(t, g.Submit(context.Background(), "bad"))
	require.NoError(t, g.Submit(context.Background(), " user@example.com "))

	st := g.Snapshot()
	assert.Empty(t, st.Email)
	assert.Empty(t, st.ErrorMessage)
	assert.Equal(t, domain.PhaseSuccess, st.Phase)
	assert.False(t, st.IsSubmitting)
	assert.Equal(t, 1, st.AttemptCount)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "user@example.com", sender.sent[0].Email)
}

func TestGate_RateLimitScenario(t *testing.T) {
	sender := &recordingSender{}
	g, clock := newTestGate(sender)
	ctx := context.Background()

	for _, sec := range []int{0, 5, 10} {
		clock.Set(t0.Add(time.Duration(sec) * time.Second))
		require.NoError(t, g.Submit(ctx, "user@example.com"), "attempt at %ds", sec)
	}

	clock.Set(t0.Add(30 * time.Second))
	err := g.Submit(ctx, "user@example.com")
	require.ErrorIs(t, err, domain.ErrRateLimited)
	var gerr *domain.Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, 30*time.Second, gerr.RetryAfter)
	assert.Equal(t, domain.MsgRateLimited, g.Snapshot().ErrorMessage)
	assert.Equal(t, 3, g.Snapshot().AttemptCount)
	assert.Equal(t, "user@example.com", g.Snapshot().Email)
	assert.Len(t, sender.sent, 3)

	clock.Set(t0.Add(65 * time.Second))
	require.NoError(t, g.Submit(ctx, "user@example.com"))
	st := g.Snapshot()
	assert.Equal(t, 1, st.AttemptCount)
	assert.Empty(t, st.Email)
	assert.Len(t, sender.sent, 4)
}

func TestGate_SendFailureIsGeneric(t *testing.T) {
	g, _ := newTestGate(&recordingSender{err: errors.New("dial tcp: refused")})

	err := g.Submit(context.Background(), "user@example.com")
	require.ErrorIs(t, err, domain.ErrSubmissionFailed)

	st := g.Snapshot()
	assert.Equal(t, "An error occurred. Please try again.", st.ErrorMessage)
	assert.Equal(t, "user@example.com", st.Email)
	assert.False(t, st.IsSubmitting)
	assert.Equal(t, 1, st.AttemptCount, "a failed send still counts as an attempt")
}

func TestGate_SenderPanicReleasesSubmitting(t *testing.T) {
	g, _ := newTestGate(panicSender{})

	assert.False(t, g.Snapshot().IsSubmitting)
	err := g.Submit(context.Background(), "user@example.com")
	require.ErrorIs(t, err, domain.ErrSubmissionFailed)
	assert.False(t, g.Snapshot().IsSubmitting)
	assert.Equal(t, domain.PhaseFailed, g.Snapshot().Phase)
}

func TestGate_RejectsConcurrentSubmit(t *testing.T) {
	sender := &blockingSender{started: make(chan struct{}), release: make(chan struct{})}
	g, _ := newTestGate(sender)

	done := make(chan error, 1)
	go func() { done <- g.Submit(context.Background(), "user@example.com") }()

	select {
	case <-sender.started:
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting first submit to start sending")
	}

	st := g.Snapshot()
	assert.True(t, st.IsSubmitting)
	assert.Equal(t, domain.PhaseSending, st.Phase)

	err := g.Submit(context.Background(), "other@example.com")
	assert.ErrorIs(t, err, domain.ErrSubmissionInProgress)

	close(sender.release)
	require.NoError(t, <-done)
	assert.False(t, g.Snapshot().IsSubmitting)
	assert.Equal(t, 1, g.Snapshot().AttemptCount)
}

func TestGate_SetEmail(t *testing.T) {
	g, _ := newTestGate(nil)
	g.SetEmail("us")
	g.SetEmail("user@")
	assert.Equal(t, "user@", g.Snapshot().Email)
	assert.Equal(t, domain.PhaseIdle, g.Snapshot().Phase)
}

func TestGate_NilSenderFails(t *testing.T) {
	g, _ := newTestGate(nil)

	err := g.Submit(context.Background(), "user@example.com")
	require.ErrorIs(t, err, domain.ErrSubmissionFailed)
	assert.ErrorIs(t, err, domain.ErrNoSender)
	assert.False(t, g.Snapshot().IsSubmitting)
	assert.Equal(t, "user@example.com", g.Snapshot().Email)
}
