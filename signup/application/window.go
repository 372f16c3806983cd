package application

import (
	"time"

	"github.com/samanthaatlas/atlas-V10/signup/domain"
)

// WindowPolicy é a regra de tentativas: no máximo MaxAttempts por janela fixa de Window.
type WindowPolicy struct {
	Window      time.Duration
	MaxAttempts int
}

func DefaultWindowPolicy() WindowPolicy {
	return WindowPolicy{Window: domain.DefaultWindow, MaxAttempts: domain.DefaultMaxAttempts}
}

// CheckRateLimit decide se uma nova tentativa em `now` pode seguir.
//
// A janela conta a partir da primeira tentativa dela (WindowStart). Dentro da janela
// o contador é incrementado até MaxAttempts; depois disso, bloqueia até a janela expirar.
// Fora da janela, uma nova começa com AttemptCount = 1.
// A função é pura: quem aplica a janela retornada é o chamador.
func (p WindowPolicy) CheckRateLimit(now time.Time, w domain.AttemptWindow) domain.RateLimitDecision {
	if p.Window <= 0 {
		p.Window = domain.DefaultWindow
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = domain.DefaultMaxAttempts
	}

	inWindow := !w.WindowStart.IsZero() && now.Sub(w.WindowStart) < p.Window
	if !inWindow {
		return domain.RateLimitDecision{
			Allowed: true,
			Window: domain.AttemptWindow{
				WindowStart:    now,
				LastSubmitTime: now,
				AttemptCount:   1,
			},
		}
	}

	if w.AttemptCount >= p.MaxAttempts {
		return domain.RateLimitDecision{
			Allowed:    false,
			Window:     w,
			RetryAfter: w.WindowStart.Add(p.Window).Sub(now),
			Message:    domain.MsgRateLimited,
		}
	}

	w.AttemptCount++
	w.LastSubmitTime = now
	return domain.RateLimitDecision{Allowed: true, Window: w}
}
