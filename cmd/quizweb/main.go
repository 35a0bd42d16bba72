package main

import (
	"context"
	"log"
	"net/http"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"github.com/mind-engage/docquiz/internal/auth"
	"github.com/mind-engage/docquiz/internal/config"
	"github.com/mind-engage/docquiz/internal/sessions"
	"github.com/mind-engage/docquiz/internal/web"
	"github.com/mind-engage/docquiz/pkg/quizapi"
)

func main() {
	cfg := config.FromEnv()

	api := quizapi.New(quizapi.Config{BaseURL: cfg.ServiceURL, Timeout: cfg.RequestTimeout})

	// --- Session view-state ---
	var store sessions.Store
	var ready func(*http.Request) error
	switch cfg.SessionStore {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis ping failed: %v", err)
		}
		cancel()
		store = sessions.NewRedisClient(rdb)
		ready = func(r *http.Request) error { return rdb.Ping(r.Context()).Err() }
	case "memory":
		store = sessions.NewMemory()
	default:
		log.Fatalf("unsupported SESSION_STORE: %s", cfg.SessionStore)
	}

	srv, err := web.New(api, web.Options{
		Sessions:      store,
		Signer:        auth.NewSigner(cfg.IdentitySecret),
		SecureCookies: cfg.SecureCookies,
		CORSOrigins:   cfg.CORSOrigins,
		Ready:         ready,

		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		log.Fatalf("web: %v", err)
	}

	log.Printf("listening on %s (mode=%s, service=%s, sessions=%s)", cfg.HTTPAddr, cfg.Mode, cfg.ServiceURL, cfg.SessionStore)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, srv.Routes()))
}
