package signup

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/samanthaatlas/atlas-V10/signup/domain"
)

// stateView é o que o formulário precisa para se renderizar.
type stateView struct {
	Email          string     `json:"email"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	IsSubmitting   bool       `json:"is_submitting"`
	Phase          string     `json:"phase"`
	AttemptCount   int        `json:"attempt_count"`
	LastSubmitTime *time.Time `json:"last_submit_time,omitempty"`
}

func newStateView(st domain.AttemptState) stateView {
	v := stateView{
		Email:        st.Email,
		ErrorMessage: st.ErrorMessage,
		IsSubmitting: st.IsSubmitting,
		Phase:        st.Phase.String(),
		AttemptCount: st.AttemptCount,
	}
	if !st.LastSubmitTime.IsZero() {
		at := st.LastSubmitTime.UTC()
		v.LastSubmitTime = &at
	}
	return v
}

type response struct {
	OK         bool       `json:"ok"`
	Error      string     `json:"error,omitempty"`
	Message    string     `json:"message,omitempty"`
	RetryAfter int        `json:"retry_after,omitempty"`
	State      *stateView `json:"state,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeReject é usado pelos middlewares (throttle/concorrência).
func writeReject(w http.ResponseWriter, status int, kind, message string, retryAfter time.Duration) {
	resp := response{OK: false, Error: kind, Message: message}
	if secs := retryAfterSeconds(retryAfter); secs > 0 {
		w.Header().Set("Retry-After", formatInt(secs))
		resp.RetryAfter = secs
	}
	writeJSON(w, status, resp)
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindEmptyEmail, domain.KindInvalidFormat:
		return http.StatusBadRequest
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	case domain.KindSubmissionInProgress:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}
