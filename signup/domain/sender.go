package domain

import (
	"context"
	"errors"
)

// ErrNoSender indica um Gate montado sem Sender.
var ErrNoSender = errors.New("no sender configured")

// Subscription é o corpo enviado ao endpoint de inscrição: { "email": "..." }.
type Subscription struct {
	Email string `json:"email"`
}

// Sender entrega a inscrição ao colaborador externo.
//
// Só interessa sucesso/falha; nenhum payload de resposta é consumido.
// Implementações não devem fazer retry: quem reenvia é o usuário.
type Sender interface {
	Send(ctx context.Context, sub Subscription) error
}

// Submitter é o contrato do gate visto por quem guarda sessões (infra) e pelo adapter HTTP.
type Submitter interface {
	SetEmail(email string)
	Submit(ctx context.Context, email string) error
	Snapshot() AttemptState
}
