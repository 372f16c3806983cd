package application

import (
	"context"

	"github.com/samanthaatlas/atlas-V10/signup/domain"
)

// LimitedSender reserva uma vaga de Slots em volta de cada Send.
//
// Como só o Gate chama Send, e só depois de validar e passar pela janela,
// tentativas rejeitadas nunca ocupam vaga. Sem vaga, Send falha com
// domain.ErrNoSendSlot e o Gate reporta SubmissionFailed.
type LimitedSender struct {
	Next  domain.Sender
	Slots domain.SendSlots
}

var _ domain.Sender = LimitedSender{}

func (s LimitedSender) Send(ctx context.Context, sub domain.Subscription) error {
	if s.Slots == nil {
		return s.Next.Send(ctx, sub)
	}
	release, err := s.Slots.Reserve(ctx)
	if err != nil {
		return err
	}
	defer release()
	return s.Next.Send(ctx, sub)
}
