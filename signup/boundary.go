package signup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/samanthaatlas/atlas-V10/logger"
)

const fallbackHTML = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Something went wrong</title></head>
<body>
<main>
<h2>Something went wrong</h2>
<p>We're working on fixing this issue.</p>
<a href="">Try again</a>
</main>
</body>
</html>
`

const fallbackMessage = "Something went wrong"

// Boundary intercepta falhas de renderização (erro ou panic) e troca a saída
// por uma view estática de fallback. Nada do que foi renderizado antes da falha
// chega ao cliente.
type Boundary struct {
	log logger.Logger
}

func NewBoundary(lggr logger.Logger) *Boundary {
	if lggr == nil {
		lggr = logger.Nop()
	}
	return &Boundary{log: lggr}
}

// Render executa render num buffer e só escreve a resposta se der certo.
func (b *Boundary) Render(w http.ResponseWriter, r *http.Request, status int, contentType string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := b.capture(func() error { return render(&buf) }); err != nil {
		b.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Middleware aplica o boundary a um handler inteiro. Se o handler já começou a
// escrever a resposta, só registramos o erro: não há como substituir a saída.
func (b *Boundary) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tw := &trackingWriter{ResponseWriter: w}
		err := b.capture(func() error {
			next.ServeHTTP(tw, r)
			return nil
		})
		if err == nil {
			return
		}
		if tw.wrote {
			b.log.Errorw("uncaught error after response started", "err", err, "path", r.URL.Path, "request_id", RequestIDFrom(r.Context()))
			return
		}
		b.fail(w, r, err)
	})
}

func (b *Boundary) capture(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			err = &panicError{value: rec, stack: debug.Stack()}
		}
	}()
	return fn()
}

func (b *Boundary) fail(w http.ResponseWriter, r *http.Request, err error) {
	kv := []any{"err", err, "path", r.URL.Path, "request_id", RequestIDFrom(r.Context())}
	var pe *panicError
	if errors.As(err, &pe) {
		kv = append(kv, "stack", strings.TrimSpace(string(pe.stack)))
	}
	b.log.Errorw("uncaught error", kv...)

	if wantsJSON(r) {
		writeJSON(w, http.StatusInternalServerError, response{OK: false, Error: "internal", Message: fallbackMessage})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = io.WriteString(w, fallbackHTML)
}

func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") || strings.Contains(r.Header.Get("Accept"), "application/json")
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.value) }

type trackingWriter struct {
	http.ResponseWriter
	wrote bool
}

func (w *trackingWriter) WriteHeader(code int) {
	w.wrote = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *trackingWriter) Write(p []byte) (int, error) {
	w.wrote = true
	return w.ResponseWriter.Write(p)
}

func (w *trackingWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
