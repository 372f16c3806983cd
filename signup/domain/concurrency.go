package domain

import (
	"context"
	"errors"
)

// ErrNoSendSlot indica que nenhuma vaga de envio abriu dentro do prazo.
var ErrNoSendSlot = errors.New("no send slot available")

// SendSlots limita quantos Send rodam ao mesmo tempo no processo.
//
// Reserve bloqueia até abrir uma vaga, até o prazo da implementação ou até o ctx
// encerrar. Em sucesso, release devolve a vaga; chamá-lo mais de uma vez é inofensivo.
type SendSlots interface {
	Reserve(ctx context.Context) (release func(), err error)
	InFlight() int
}
