package domain

import "time"

// Key identifica um cliente para o throttle (IP, header, etc).
type Key string

// Limiter decide se uma requisição do cliente pode passar agora.
// A infra usa token bucket (golang.org/x/time/rate).
type Limiter interface {
	Allow() bool
}

// LimiterStore obtém um limiter por chave.
type LimiterStore interface {
	Get(Key) Limiter
}

type Decision struct {
	Allowed bool
	// RetryAfter é o valor a ser retornado em Retry-After quando bloquear.
	RetryAfter time.Duration
}
