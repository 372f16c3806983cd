package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samanthaatlas/atlas-V10/signup/domain"
)

// Gate é o estado de uma sessão do formulário e a orquestração de um envio:
// Validate -> CheckRateLimit -> Sender.Send.
//
// O Gate é seguro para uso concorrente, mas só um envio por vez é aceito:
// enquanto IsSubmitting, novos Submit falham com ErrSubmissionInProgress.
type Gate struct {
	mu     sync.Mutex
	state  domain.AttemptState
	policy WindowPolicy
	sender domain.Sender
	now    func() time.Time
}

var _ domain.Submitter = (*Gate)(nil)

type GateOption func(*Gate)

func WithPolicy(p WindowPolicy) GateOption {
	return func(g *Gate) { g.policy = p }
}

// WithClock troca o relógio (testes).
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) { g.now = now }
}

func NewGate(sender domain.Sender, opts ...GateOption) *Gate {
	g := &Gate{
		policy: DefaultWindowPolicy(),
		sender: sender,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetEmail atualiza o e-mail candidato (a cada tecla no formulário).
func (g *Gate) SetEmail(email string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.Email = email
}

func (g *Gate) Snapshot() domain.AttemptState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Submit executa uma tentativa completa. Retorna nil em sucesso ou um *domain.Error.
//
// Falhas de validação e de rate limit retornam sem tocar na janela. O envio roda
// sem o lock; IsSubmitting é liberado em qualquer saída, inclusive panic do Sender.
func (g *Gate) Submit(ctx context.Context, email string) (err error) {
	g.mu.Lock()
	if g.state.IsSubmitting {
		g.mu.Unlock()
		return domain.ErrSubmissionInProgress
	}

	g.state.Email = email
	g.state.ErrorMessage = ""
	g.state.Phase = domain.PhaseValidating
	if err := Validate(email); err != nil {
		g.failLocked(err)
		g.mu.Unlock()
		return err
	}

	g.state.Phase = domain.PhaseRateLimitCheck
	dec := g.policy.CheckRateLimit(g.now(), g.state.AttemptWindow)
	if !dec.Allowed {
		err := &domain.Error{
			Kind:       domain.KindRateLimited,
			Message:    dec.Message,
			RetryAfter: dec.RetryAfter,
		}
		g.failLocked(err)
		g.mu.Unlock()
		return err
	}
	g.state.AttemptWindow = dec.Window

	g.state.Phase = domain.PhaseSending
	g.state.IsSubmitting = true
	sub := domain.Subscription{Email: strings.TrimSpace(email)}
	g.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = domain.SubmissionFailed(fmt.Errorf("sender panic: %v", r))
		}

		g.mu.Lock()
		defer g.mu.Unlock()
		g.state.IsSubmitting = false
		if err != nil {
			g.failLocked(err)
			return
		}
		g.state.Phase = domain.PhaseSuccess
		g.state.Email = ""
		g.state.ErrorMessage = ""
	}()

	if g.sender == nil {
		return domain.SubmissionFailed(domain.ErrNoSender)
	}
	if sendErr := g.sender.Send(ctx, sub); sendErr != nil {
		return domain.SubmissionFailed(sendErr)
	}
	return nil
}

func (g *Gate) failLocked(err error) {
	g.state.Phase = domain.PhaseFailed
	var e *domain.Error
	if errors.As(err, &e) {
		g.state.ErrorMessage = e.Message
		return
	}
	g.state.ErrorMessage = domain.MsgSubmissionFailed
}
