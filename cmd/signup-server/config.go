package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	Window       time.Duration `env:"SIGNUP_WINDOW" envDefault:"60s"`
	MaxAttempts  int           `env:"SIGNUP_MAX_ATTEMPTS" envDefault:"3"`
	SendDelay    time.Duration `env:"SIGNUP_SEND_DELAY" envDefault:"1s"`
	Sender       string        `env:"SIGNUP_SENDER" envDefault:"simulated"`
	EndpointURL  string        `env:"SIGNUP_ENDPOINT_URL"`
	SenderList   string        `env:"SENDER_REDIS_LIST" envDefault:"signup:subscriptions"`
	SessionTTL   time.Duration `env:"SIGNUP_SESSION_TTL" envDefault:"30m"`
	SecureCookie bool          `env:"SECURE_COOKIE" envDefault:"false"`

	// IMPORTANTE: o throttle por cliente é uma barreira grossa na frente do gate.
	// A janela de 3 tentativas/60s é por sessão e vale mesmo com o throttle desligado.
	ThrottleEnabled bool          `env:"THROTTLE_ENABLED" envDefault:"true"`
	ClientRPS       float64       `env:"CLIENT_RPS" envDefault:"1"`
	ClientBurst     int           `env:"CLIENT_BURST" envDefault:"10"`
	RateKeyHeader   string        `env:"RATE_KEY_HEADER"`
	TrustXFF        bool          `env:"TRUST_XFF" envDefault:"false"`
	RetryAfter      time.Duration `env:"RETRY_AFTER" envDefault:"1s"`
	AddHeaders      bool          `env:"ADD_RATELIMIT_HEADERS" envDefault:"false"`

	// Vagas de envio simultâneo no processo todo; 0 desliga o limite.
	SendConcurrencyMax int           `env:"SEND_CONCURRENCY_MAX" envDefault:"100"`
	SendSlotTimeout    time.Duration `env:"SEND_SLOT_TIMEOUT" envDefault:"5s"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	StatsEnabled       bool          `env:"STATS_ENABLED" envDefault:"false"`
	StatsPrefix        string        `env:"STATS_PREFIX" envDefault:"signup:stats"`
	StatsTTL           time.Duration `env:"STATS_TTL" envDefault:"24h"`
	StatsBucket        string        `env:"STATS_BUCKET" envDefault:"minute"`
	StatsTrackSessions bool          `env:"STATS_TRACK_SESSIONS" envDefault:"false"`
}

func readConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Sender = strings.ToLower(strings.TrimSpace(cfg.Sender))
	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

// statsBackend escolhe onde as estatísticas ficam: "redis" quando há REDIS_ADDR,
// "memory" quando não há, "" com STATS_ENABLED=false.
func (c config) statsBackend() string {
	switch {
	case !c.StatsEnabled:
		return ""
	case strings.TrimSpace(c.RedisAddr) != "":
		return "redis"
	default:
		return "memory"
	}
}

func (c config) needsRedis() bool {
	return c.Sender == "redis" || c.statsBackend() == "redis"
}

func (c config) validate() error {
	if c.Window <= 0 {
		return errors.New("SIGNUP_WINDOW must be > 0")
	}
	if c.MaxAttempts <= 0 {
		return errors.New("SIGNUP_MAX_ATTEMPTS must be > 0")
	}
	switch c.Sender {
	case "simulated":
	case "http":
		u, err := url.Parse(c.EndpointURL)
		if c.EndpointURL == "" || err != nil || u.Scheme == "" || u.Host == "" {
			return errors.New("SIGNUP_ENDPOINT_URL must be an absolute URL when SIGNUP_SENDER=http")
		}
	case "redis":
		if strings.TrimSpace(c.SenderList) == "" {
			return errors.New("SENDER_REDIS_LIST is required when SIGNUP_SENDER=redis")
		}
	default:
		return fmt.Errorf("SIGNUP_SENDER must be simulated, http or redis (got %q)", c.Sender)
	}
	if c.Sender == "redis" && strings.TrimSpace(c.RedisAddr) == "" {
		return errors.New("REDIS_ADDR is required when SIGNUP_SENDER=redis")
	}
	if c.ThrottleEnabled {
		if c.ClientRPS <= 0 {
			return errors.New("CLIENT_RPS must be > 0")
		}
		if c.ClientBurst <= 0 {
			return errors.New("CLIENT_BURST must be > 0")
		}
	}
	if c.SendConcurrencyMax < 0 {
		return errors.New("SEND_CONCURRENCY_MAX must be >= 0")
	}
	if c.SendSlotTimeout < 0 {
		return errors.New("SEND_SLOT_TIMEOUT must be >= 0")
	}
	return nil
}
