package domain

import (
	"fmt"
	"time"
)

// Kind classifica as falhas visíveis ao usuário.
type Kind string

const (
	KindEmptyEmail           Kind = "empty_email"
	KindInvalidFormat        Kind = "invalid_format"
	KindRateLimited          Kind = "rate_limited"
	KindSubmissionFailed     Kind = "submission_failed"
	KindSubmissionInProgress Kind = "submission_in_progress"
)

// Mensagens exibidas inline no formulário.
const (
	MsgEmptyEmail           = "Email is required"
	MsgInvalidFormat        = "Please enter a valid email address"
	MsgRateLimited          = "Too many attempts. Please try again later."
	MsgSubmissionFailed     = "An error occurred. Please try again."
	MsgSubmissionInProgress = "A submission is already in progress"
)

// Error é uma falha do gate. Todas são recuperáveis: o usuário corrige e reenvia.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
	// RetryAfter só é preenchido para KindRateLimited.
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is compara apenas o Kind, para que errors.Is(err, ErrRateLimited) funcione
// independente da mensagem ou da causa.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrEmptyEmail           = &Error{Kind: KindEmptyEmail, Message: MsgEmptyEmail}
	ErrInvalidFormat        = &Error{Kind: KindInvalidFormat, Message: MsgInvalidFormat}
	ErrRateLimited          = &Error{Kind: KindRateLimited, Message: MsgRateLimited}
	ErrSubmissionFailed     = &Error{Kind: KindSubmissionFailed, Message: MsgSubmissionFailed}
	ErrSubmissionInProgress = &Error{Kind: KindSubmissionInProgress, Message: MsgSubmissionInProgress}
)

// SubmissionFailed embrulha a causa real da falha de envio mantendo a mensagem genérica.
func SubmissionFailed(cause error) *Error {
	return &Error{Kind: KindSubmissionFailed, Message: MsgSubmissionFailed, Cause: cause}
}
