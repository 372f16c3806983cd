package infra

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samanthaatlas/atlas-V10/signup/domain"
)

func TestSendSlots_TimesOutWhenFull(t *testing.T) {
	s := NewSendSlots(1, 20*time.Millisecond)

	release, err := s.Reserve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, s.InFlight())

	start := time.Now()
	_, err = s.Reserve(context.Background())
	require.ErrorIs(t, err, domain.ErrNoSendSlot)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)

	release()
	assert.Equal(t, 0, s.InFlight())

	release2, err := s.Reserve(context.Background())
	require.NoError(t, err)
	release2()
}

func TestSendSlots_ReleaseIsIdempotent(t *testing.T) {
	s := NewSendSlots(2, 0)

	a, err := s.Reserve(context.Background())
	require.NoError(t, err)
	b, err := s.Reserve(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, s.InFlight())

	a()
	a()
	assert.Equal(t, 1, s.InFlight())
	b()
	assert.Equal(t, 0, s.InFlight())
}

func TestSendSlots_WaitsForContextWithoutTimeout(t *testing.T) {
	s := NewSendSlots(1, 0)
	release, err := s.Reserve(context.Background())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Reserve(ctx)
	require.ErrorIs(t, err, domain.ErrNoSendSlot)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSendSlots_NilIsUnlimited(t *testing.T) {
	s := NewSendSlots(0, time.Second)
	require.Nil(t, s)

	for range 10 {
		release, err := s.Reserve(context.Background())
		require.NoError(t, err)
		release()
	}
	assert.Equal(t, 0, s.InFlight())
	assert.Equal(t, 0, s.Cap())
}
