package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	envAppEnv         = "ADMIN_ENV"
	envAPIBaseURL     = "ADMIN_API_BASE_URL"
	envHTTPTimeout    = "ADMIN_HTTP_TIMEOUT"
	envHTTPRetries    = "ADMIN_HTTP_RETRIES"
	envRPS            = "ADMIN_API_RPS"
	envBurst          = "ADMIN_API_BURST"
	envCheckTimeout   = "ADMIN_CHECK_TIMEOUT"
	envDebounce       = "ADMIN_CHECK_DEBOUNCE"
	envBearerToken    = "ADMIN_API_TOKEN"
	envUseCookies     = "ADMIN_API_COOKIES"
	envOperator       = "ADMIN_OPERATOR"
	envRedisAddr      = "REDIS_ADDR"
	envOptionsTTL     = "ADMIN_OPTIONS_TTL"
	envAuditBroker    = "ADMIN_AUDIT_KAFKA_BROKER"
	envAuditTopic     = "ADMIN_AUDIT_TOPIC"
	envStubPort       = "PORT"
	envStubUploadSize = "STUB_MAX_UPLOAD_BYTES"
	envStubJWTSecret  = "STUB_JWT_SECRET"
	envStubRPS        = "STUB_RPS"
	envStubBurst      = "STUB_BURST"
	envStubSeed       = "STUB_SEED"
)

type Config struct {
	Env string

	API   APIConfig
	Check CheckConfig
	Cache CacheConfig
	Audit AuditConfig
	Stub  StubConfig

	// Operator is recorded on audit entries.
	Operator string
}

type APIConfig struct {
	BaseURL           string
	Timeout           time.Duration
	Retries           int
	RequestsPerSecond float64
	Burst             int
	BearerToken       string
	UseCookies        bool
}

type CheckConfig struct {
	Debounce  time.Duration
	Timeout   time.Duration
	MinLength int
}

type CacheConfig struct {
	RedisAddr  string
	OptionsTTL time.Duration
}

type AuditConfig struct {
	KafkaBroker string
	Topic       string
}

type StubConfig struct {
	Port           string
	MaxUploadBytes int64

	// JWTSecret enables bearer token checks when set.
	JWTSecret         string
	RequestsPerSecond float64
	Burst             int
	Seed              bool
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads an optional .env file and then the process environment.
// A missing default .env is not an error; an explicit one is.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	var errs []error
	cfg := Config{
		Env: getString(envAppEnv, "development"),
		API: APIConfig{
			BaseURL:           strings.TrimRight(getString(envAPIBaseURL, "http://localhost:8080"), "/"),
			Timeout:           getDuration(envHTTPTimeout, 10*time.Second, &errs),
			Retries:           getInt(envHTTPRetries, 2, &errs),
			RequestsPerSecond: getFloat(envRPS, 20, &errs),
			Burst:             getInt(envBurst, 10, &errs),
			BearerToken:       os.Getenv(envBearerToken),
			UseCookies:        getBool(envUseCookies, true, &errs),
		},
		Check: CheckConfig{
			Debounce:  getDuration(envDebounce, 300*time.Millisecond, &errs),
			Timeout:   getDuration(envCheckTimeout, 5*time.Second, &errs),
			MinLength: 2,
		},
		Cache: CacheConfig{
			RedisAddr:  os.Getenv(envRedisAddr),
			OptionsTTL: getDuration(envOptionsTTL, time.Hour, &errs),
		},
		Audit: AuditConfig{
			KafkaBroker: os.Getenv(envAuditBroker),
			Topic:       getString(envAuditTopic, "hr.admin.audit.v1"),
		},
		Stub: StubConfig{
			Port:              getString(envStubPort, "8080"),
			MaxUploadBytes:    int64(getInt(envStubUploadSize, 5*1024*1024, &errs)),
			JWTSecret:         os.Getenv(envStubJWTSecret),
			RequestsPerSecond: getFloat(envStubRPS, 50, &errs),
			Burst:             getInt(envStubBurst, 100, &errs),
			Seed:              getBool(envStubSeed, true, &errs),
		},
		Operator: getString(envOperator, os.Getenv("USER")),
	}

	if u, err := url.Parse(cfg.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("%s must be an absolute URL, got %q", envAPIBaseURL, cfg.API.BaseURL))
	}
	if cfg.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", envHTTPTimeout))
	}
	if cfg.API.RequestsPerSecond <= 0 || cfg.API.Burst <= 0 {
		errs = append(errs, fmt.Errorf("%s and %s must be positive", envRPS, envBurst))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func getInt(key string, fallback int, errs *[]error) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64, errs *[]error) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return f
}

func getBool(key string, fallback bool, errs *[]error) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}
