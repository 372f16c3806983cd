package domain

import (
	"context"
	"errors"
	"time"
)

// Outcome é o desfecho de uma tentativa, usado em estatísticas.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeThrottled Outcome = "throttled"
)

// OutcomeFor mapeia o erro do gate para um Outcome. nil vira sucesso.
func OutcomeFor(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	var e *Error
	if errors.As(err, &e) {
		return Outcome(e.Kind)
	}
	return Outcome(KindSubmissionFailed)
}

// StatsEvent registra o desfecho de uma tentativa de inscrição.
//
// Não guardamos o e-mail: só a sessão e o desfecho. Cuidado com cardinalidade
// ao ligar o rastreio por sessão.
type StatsEvent struct {
	Session string
	Outcome Outcome
	At      time.Time
}

// StatsStore persiste estatísticas. O chamador trata erro como best-effort.
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
