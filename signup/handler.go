package signup

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/samanthaatlas/atlas-V10/logger"
	"github.com/samanthaatlas/atlas-V10/signup/domain"
)

const maxBodyBytes = 4 << 10

// Sessions é o que o handler precisa do guardador de sessões (infra.SessionStore).
type Sessions interface {
	Get(id string) domain.Submitter
	Lookup(id string) (domain.Submitter, bool)
}

type Options struct {
	Sessions     Sessions
	Stats        domain.StatsStore
	Logger       logger.Logger
	SecureCookie bool
	Throttle     ThrottleOptions
}

type handler struct {
	sessions Sessions
	stats    domain.StatsStore
	log      logger.Logger
	boundary *Boundary
	secure   bool
}

// NewServer monta as rotas do serviço de inscrição:
//
//	POST /api/subscribe        tentativa de inscrição (JSON {"email"} ou form email=)
//	GET  /api/subscribe/state  estado atual da sessão
//	GET  /healthz
func NewServer(opts Options) http.Handler {
	lggr := opts.Logger
	if lggr == nil {
		lggr = logger.Nop()
	}
	h := &handler{
		sessions: opts.Sessions,
		stats:    opts.Stats,
		log:      lggr,
		boundary: NewBoundary(lggr),
		secure:   opts.SecureCookie,
	}

	subscribe := http.Handler(http.HandlerFunc(h.subscribe))
	subscribe = ThrottleMiddleware(opts.Throttle)(subscribe)

	mux := http.NewServeMux()
	mux.Handle("POST /api/subscribe", subscribe)
	mux.HandleFunc("GET /api/subscribe/state", h.state)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok\n")
	})

	return RequestID(h.boundary.Middleware(mux))
}

func (h *handler) subscribe(w http.ResponseWriter, r *http.Request) {
	email, err := readEmail(w, r)
	if err != nil {
		h.respond(w, r, http.StatusBadRequest, response{OK: false, Error: "invalid_request", Message: "invalid request body"})
		return
	}

	id := ensureSession(w, r, h.secure)
	gate := h.sessions.Get(id)

	// Uma vez iniciado, o envio vai até o fim mesmo se o cliente desconectar.
	ctx := context.WithoutCancel(r.Context())
	start := time.Now()
	err = gate.Submit(ctx, email)
	outcome := domain.OutcomeFor(err)

	h.recordStats(r.Context(), id, outcome)

	st := newStateView(gate.Snapshot())
	if err == nil {
		h.log.Infow("subscription accepted",
			"session", id, "request_id", RequestIDFrom(r.Context()), "duration", time.Since(start))
		h.respond(w, r, http.StatusOK, response{OK: true, State: &st})
		return
	}

	var gerr *domain.Error
	if !errors.As(err, &gerr) {
		gerr = domain.SubmissionFailed(err)
	}
	kv := []any{"session", id, "request_id", RequestIDFrom(r.Context()), "outcome", outcome}
	if gerr.Kind == domain.KindSubmissionFailed {
		h.log.Warnw("subscription failed", append(kv, "err", err)...)
	} else {
		h.log.Debugw("subscription rejected", kv...)
	}

	resp := response{OK: false, Error: string(gerr.Kind), Message: gerr.Message, State: &st}
	if secs := retryAfterSeconds(gerr.RetryAfter); secs > 0 {
		w.Header().Set("Retry-After", formatInt(secs))
		resp.RetryAfter = secs
	}
	h.respond(w, r, statusFor(gerr.Kind), resp)
}

func (h *handler) state(w http.ResponseWriter, r *http.Request) {
	var st domain.AttemptState
	if id, ok := sessionID(r); ok {
		if gate, ok := h.sessions.Lookup(id); ok {
			st = gate.Snapshot()
		}
	}
	view := newStateView(st)
	h.respond(w, r, http.StatusOK, response{OK: true, State: &view})
}

func (h *handler) respond(w http.ResponseWriter, r *http.Request, status int, payload any) {
	h.boundary.Render(w, r, status, "application/json; charset=utf-8", func(out io.Writer) error {
		return json.NewEncoder(out).Encode(payload)
	})
}

func (h *handler) recordStats(ctx context.Context, session string, outcome domain.Outcome) {
	if h.stats == nil {
		return
	}
	err := h.stats.Record(ctx, domain.StatsEvent{Session: session, Outcome: outcome, At: time.Now()})
	if err != nil {
		h.log.Warnw("stats record failed", "err", err)
	}
}

// readEmail aceita JSON ({"email": "..."}) ou formulário (email=...).
func readEmail(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var sub domain.Subscription
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return sub.Email, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", err
	}
	return r.PostForm.Get("email"), nil
}
