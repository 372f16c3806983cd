package application

import (
	"time"

	"github.com/samanthaatlas/atlas-V10/signup/domain"
)

// Throttle é a barreira grossa por cliente (IP/header) na frente do endpoint.
// É independente da janela por sessão do Gate: protege o serviço, não o formulário.
//
// Não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
type Throttle struct {
	Store      domain.LimiterStore
	RetryAfter time.Duration
}

func (s Throttle) Decide(key domain.Key) domain.Decision {
	if s.Store == nil {
		return domain.Decision{Allowed: true}
	}
	if s.RetryAfter <= 0 {
		s.RetryAfter = 1 * time.Second
	}

	lim := s.Store.Get(key)
	if lim == nil || lim.Allow() {
		return domain.Decision{Allowed: true}
	}
	return domain.Decision{Allowed: false, RetryAfter: s.RetryAfter}
}
