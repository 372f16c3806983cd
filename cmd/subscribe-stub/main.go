// Command subscribe-stub faz o papel do endpoint externo de inscrição em
// desenvolvimento: aceita POST {"email": "..."} e só registra no log.
//
// Use com SIGNUP_SENDER=http SIGNUP_ENDPOINT_URL=http://localhost:8081/subscribe.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/samanthaatlas/atlas-V10/logger"
	"github.com/samanthaatlas/atlas-V10/signup/domain"
)

type config struct {
	ListenAddr string  `env:"LISTEN_ADDR" envDefault:":8081"`
	LogLevel   string  `env:"LOG_LEVEL" envDefault:"info"`
	FailRatio  float64 `env:"STUB_FAIL_RATIO" envDefault:"0"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config error: parse env: %v\n", err)
		os.Exit(1)
	}

	lggr, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = lggr.Sync() }()
	lggr = lggr.Named("subscribe-stub")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           newHandler(lggr, failEvery(cfg.FailRatio)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	lggr.Infow("subscribe stub listening", "addr", cfg.ListenAddr, "failRatio", cfg.FailRatio)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lggr.Fatalw("server error", "err", err)
	}
}

// failEvery converte a proporção de falhas num "falha a cada N". 0 desliga.
func failEvery(ratio float64) int {
	if ratio <= 0 {
		return 0
	}
	if ratio >= 1 {
		return 1
	}
	return int(1 / ratio)
}

func newHandler(lggr logger.Logger, failEvery int) http.Handler {
	var received atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("POST /subscribe", func(w http.ResponseWriter, r *http.Request) {
		var sub domain.Subscription
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&sub); err != nil || sub.Email == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		n := received.Add(1)
		if failEvery > 0 && n%int64(failEvery) == 0 {
			lggr.Warnw("simulated failure", "n", n)
			http.Error(w, "simulated failure", http.StatusServiceUnavailable)
			return
		}
		lggr.Infow("subscription received", "n", n)
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}
