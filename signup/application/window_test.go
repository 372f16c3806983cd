package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samanthaatlas/atlas-V10/signup/domain"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func TestCheckRateLimit_FirstAttemptStartsWindow(t *testing.T) {
	dec := DefaultWindowPolicy().CheckRateLimit(t0, domain.AttemptWindow{})

	require.True(t, dec.Allowed)
	assert.Equal(t, 1, dec.Window.AttemptCount)
	assert.Equal(t, t0, dec.Window.WindowStart)
	assert.Equal(t, t0, dec.Window.LastSubmitTime)
}

func TestCheckRateLimit_BlocksFourthInsideWindow(t *testing.T) {
	p := DefaultWindowPolicy()
	w := domain.AttemptWindow{}

	for _, sec := range []int{0, 5, 10} {
		dec := p.CheckRateLimit(t0.Add(time.Duration(sec)*time.Second), w)
		require.True(t, dec.Allowed, "attempt at %ds", sec)
		w = dec.Window
	}
	assert.Equal(t, 3, w.AttemptCount)
	assert.Equal(t, t0.Add(10*time.Second), w.LastSubmitTime)

	dec := p.CheckRateLimit(t0.Add(30*time.Second), w)
	require.False(t, dec.Allowed)
	assert.Equal(t, domain.MsgRateLimited, dec.Message)
	assert.Equal(t, 30*time.Second, dec.RetryAfter)
	assert.Equal(t, w, dec.Window, "blocked decision must not advance the window")
}

func TestCheckRateLimit_ResetsAfterWindowElapsed(t *testing.T) {
	p := DefaultWindowPolicy()
	w := domain.AttemptWindow{WindowStart: t0, LastSubmitTime: t0.Add(10 * time.Second), AttemptCount: 3}

	dec := p.CheckRateLimit(t0.Add(65*time.Second), w)
	require.True(t, dec.Allowed)
	assert.Equal(t, 1, dec.Window.AttemptCount)
	assert.Equal(t, t0.Add(65*time.Second), dec.Window.WindowStart)
}

func TestCheckRateLimit_CountNeverExceedsMax(t *testing.T) {
	p := WindowPolicy{Window: time.Minute, MaxAttempts: 2}
	w := domain.AttemptWindow{}
	for i := 0; i < 10; i++ {
		dec := p.CheckRateLimit(t0.Add(time.Duration(i)*time.Second), w)
		w = dec.Window
		assert.LessOrEqual(t, w.AttemptCount, 2)
	}
}

func TestCheckRateLimit_ZeroPolicyUsesDefaults(t *testing.T) {
	w := domain.AttemptWindow{WindowStart: t0, LastSubmitTime: t0, AttemptCount: domain.DefaultMaxAttempts}
	dec := WindowPolicy{}.CheckRateLimit(t0.Add(59*time.Second), w)
	assert.False(t, dec.Allowed)
}
