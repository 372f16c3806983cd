package infra

import (
	"context"
	"time"

	"github.com/samanthaatlas/atlas-V10/signup/domain"
)

// SimulatedSender é o endpoint de inscrição de mentira: espera Delay e aceita.
type SimulatedSender struct {
	Delay time.Duration
}

func NewSimulatedSender(delay time.Duration) SimulatedSender {
	return SimulatedSender{Delay: delay}
}

func (s SimulatedSender) Send(ctx context.Context, _ domain.Subscription) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
