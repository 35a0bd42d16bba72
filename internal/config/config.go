package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	// Remote quiz service.
	ServiceURL     string
	RequestTimeout time.Duration

	// Local client state (terminal front end).
	StateDriver string // sqlite|postgres
	StateDSN    string

	// Quiz view-state between web requests.
	SessionStore  string // memory|redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	IdentitySecret string
	SecureCookies  bool

	CORSOrigins []string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	defOrigins := "http://localhost:3000,http://localhost:8080"
	if mode == ModeOnline {
		defOrigins = ""
	}
	return Config{
		Mode:           mode,
		HTTPAddr:       envOr("HTTP_ADDR", ":8080"),
		ServiceURL:     strings.TrimSuffix(envOr("QUIZ_SERVICE_URL", "http://localhost:5000"), "/"),
		RequestTimeout: envDuration("REQUEST_TIMEOUT", 60*time.Second),
		StateDriver:    envOr("STATE_DRIVER", "sqlite"),
		StateDSN:       envOr("STATE_DSN", ""),
		SessionStore:   envOr("SESSION_STORE", "memory"),
		RedisAddr:      envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        envInt("REDIS_DB", 0),
		IdentitySecret: envOr("IDENTITY_SECRET", "docquiz-dev-secret"),
		SecureCookies:  envBool("SECURE_COOKIES", mode == ModeOnline),
		CORSOrigins:    csvOr("CORS_ORIGINS", defOrigins),
	}
}
func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return def
}
func envDuration(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(k)); err == nil && d > 0 {
		return d
	}
	return def
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
