package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/redis/go-redis/v9"

	"github.com/samanthaatlas/atlas-V10/logger"
	"github.com/samanthaatlas/atlas-V10/signup"
	"github.com/samanthaatlas/atlas-V10/signup/application"
	"github.com/samanthaatlas/atlas-V10/signup/domain"
	"github.com/samanthaatlas/atlas-V10/signup/infra"
)

func main() {
	cfg, err := readConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	lggr, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = lggr.Sync() }()
	lggr = lggr.Named("signup")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var rdb *redis.Client
	if cfg.needsRedis() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()

		if err := waitRedis(ctx, rdb, lggr); err != nil {
			lggr.Fatalw("redis not ready", "addr", cfg.RedisAddr, "err", err)
		}
	}

	base, err := newSender(cfg, rdb)
	if err != nil {
		lggr.Fatalw("sender setup failed", "err", err)
	}
	slots := infra.NewSendSlots(cfg.SendConcurrencyMax, cfg.SendSlotTimeout)
	sender := application.LimitedSender{Next: base, Slots: sendSlots(slots)}

	stats := newStats(cfg, rdb)

	policy := application.WindowPolicy{Window: cfg.Window, MaxAttempts: cfg.MaxAttempts}
	sessions := infra.NewSessionStore(func() domain.Submitter {
		return application.NewGate(sender, application.WithPolicy(policy))
	}, infra.WithIdleTTL(cfg.SessionTTL))
	sessions.StartJanitor(ctx)

	var clients *infra.ClientStore
	if cfg.ThrottleEnabled {
		clients = infra.NewClientStore(cfg.ClientRPS, cfg.ClientBurst)
		clients.StartJanitor(ctx)
	}

	h := signup.NewServer(signup.Options{
		Sessions:     sessions,
		Stats:        stats,
		Logger:       lggr,
		SecureCookie: cfg.SecureCookie,
		Throttle: signup.ThrottleOptions{
			Store:               limiterStore(clients),
			KeyHeader:           cfg.RateKeyHeader,
			TrustXForwardedFor:  cfg.TrustXFF,
			RetryAfter:          cfg.RetryAfter,
			AddRateLimitHeaders: cfg.AddHeaders,
		},
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		if m, ok := stats.(*infra.MemoryStatsStore); ok {
			lggr.Infow("stats totals", "totals", m.Total())
		}
	}()

	lggr.Infow("signup server listening", "addr", cfg.ListenAddr, "sender", cfg.Sender)
	lggr.Infow("gate", "window", cfg.Window, "maxAttempts", cfg.MaxAttempts, "sendDelay", cfg.SendDelay, "sessionTTL", cfg.SessionTTL)
	lggr.Infow("throttle", "enabled", cfg.ThrottleEnabled, "rps", cfg.ClientRPS, "burst", cfg.ClientBurst, "keyHeader", cfg.RateKeyHeader, "trustXFF", cfg.TrustXFF)
	lggr.Infow("stats", "enabled", cfg.StatsEnabled, "backend", cfg.statsBackend(), "bucket", cfg.StatsBucket, "ttl", cfg.StatsTTL, "trackSessions", cfg.StatsTrackSessions)
	lggr.Infow("send slots", "max", slots.Cap(), "timeout", cfg.SendSlotTimeout)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lggr.Fatalw("server error", "err", err)
	}
}

// limiterStore evita guardar um *ClientStore nil dentro da interface.
func limiterStore(s *infra.ClientStore) domain.LimiterStore {
	if s == nil {
		return nil
	}
	return s
}

// newStats retorna nil com STATS_ENABLED=false. Sem REDIS_ADDR os contadores
// ficam em memória e se perdem ao reiniciar.
func newStats(cfg config, rdb *redis.Client) domain.StatsStore {
	switch cfg.statsBackend() {
	case "redis":
		return infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.StatsPrefix),
			infra.WithStatsTTL(cfg.StatsTTL),
			infra.WithStatsBucket(cfg.StatsBucket),
			infra.WithStatsTrackSessions(cfg.StatsTrackSessions),
		)
	case "memory":
		return infra.NewMemoryStatsStore(infra.WithTrackSessions(cfg.StatsTrackSessions))
	default:
		return nil
	}
}

// sendSlots evita guardar um *SendSlots nil dentro da interface.
func sendSlots(s *infra.SendSlots) domain.SendSlots {
	if s == nil {
		return nil
	}
	return s
}

func newSender(cfg config, rdb *redis.Client) (domain.Sender, error) {
	switch cfg.Sender {
	case "simulated":
		return infra.NewSimulatedSender(cfg.SendDelay), nil
	case "http":
		return infra.NewHTTPSender(cfg.EndpointURL, &http.Client{}), nil
	case "redis":
		if rdb == nil {
			return nil, errors.New("redis sender requires a redis client")
		}
		return infra.NewRedisSender(rdb, cfg.SenderList), nil
	default:
		return nil, fmt.Errorf("unknown sender %q", cfg.Sender)
	}
}

// waitRedis tenta PING algumas vezes antes de desistir (o Redis pode subir depois do serviço).
func waitRedis(ctx context.Context, rdb *redis.Client, lggr logger.Logger) error {
	return retry.Do(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return rdb.Ping(pingCtx).Err()
	},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(time.Second),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			lggr.Warnw("redis ping failed", "attempt", attempt+1, "err", err)
		}),
	)
}
