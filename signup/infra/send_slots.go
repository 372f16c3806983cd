package infra

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samanthaatlas/atlas-V10/signup/domain"
)

// SendSlots é um semáforo de envios baseado em channel.
// Um *SendSlots nil não limita nada.
type SendSlots struct {
	sem     chan struct{}
	timeout time.Duration
}

var _ domain.SendSlots = (*SendSlots)(nil)

// NewSendSlots cria um semáforo com capacidade max. Com timeout <= 0, Reserve
// espera só pelo ctx. max <= 0 retorna nil (sem limite).
func NewSendSlots(max int, timeout time.Duration) *SendSlots {
	if max <= 0 {
		return nil
	}
	return &SendSlots{sem: make(chan struct{}, max), timeout: timeout}
}

func (s *SendSlots) Reserve(ctx context.Context) (func(), error) {
	if s == nil {
		return func() {}, nil
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	select {
	case s.sem <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-s.sem }) }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", domain.ErrNoSendSlot, ctx.Err())
	}
}

func (s *SendSlots) InFlight() int {
	if s == nil {
		return 0
	}
	return len(s.sem)
}

func (s *SendSlots) Cap() int {
	if s == nil {
		return 0
	}
	return cap(s.sem)
}
