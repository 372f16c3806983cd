package domain

import "time"

// Valores padrão da janela de tentativas.
const (
	DefaultWindow      = 60 * time.Second
	DefaultMaxAttempts = 3
	DefaultSendDelay   = 1 * time.Second
)

// Phase é o estado de uma tentativa de envio.
//
//	Idle -> Validating -> RateLimitCheck -> Sending -> {Success, Failed}
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseRateLimitCheck
	PhaseSending
	PhaseSuccess
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseRateLimitCheck:
		return "rate_limit_check"
	case PhaseSending:
		return "sending"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// AttemptWindow é a parte da sessão usada pela regra de rate limit.
//
// WindowStart marca o início da janela ativa; LastSubmitTime a última tentativa aceita.
// Ambos são zero antes da primeira tentativa.
type AttemptWindow struct {
	WindowStart    time.Time
	LastSubmitTime time.Time
	AttemptCount   int
}

// AttemptState é o estado de uma sessão do formulário de inscrição.
// Vive só em memória: nasce no primeiro acesso e some quando a sessão expira.
type AttemptState struct {
	Email        string
	ErrorMessage string
	IsSubmitting bool
	Phase        Phase
	AttemptWindow
}

// RateLimitDecision é o resultado da checagem de janela.
type RateLimitDecision struct {
	Allowed bool
	// Window é a janela atualizada quando Allowed. Quando bloqueado, é a janela original.
	Window AttemptWindow
	// RetryAfter é quanto falta para a janela atual expirar (só quando bloqueado).
	RetryAfter time.Duration
	Message    string
}
