package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"MODE", "HTTP_ADDR", "QUIZ_SERVICE_URL", "REQUEST_TIMEOUT", "SESSION_STORE", "CORS_ORIGINS", "REDIS_DB"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Mode != ModeOffline || c.HTTPAddr != ":8080" || c.ServiceURL != "http://localhost:5000" {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if c.RequestTimeout != 60*time.Second || c.SessionStore != "memory" || c.SecureCookies {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if len(c.CORSOrigins) != 2 {
		t.Fatalf("cors origins = %v", c.CORSOrigins)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("QUIZ_SERVICE_URL", "https://quiz.example.com/")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	c := FromEnv()
	if c.ServiceURL != "https://quiz.example.com" {
		t.Fatalf("service url = %q", c.ServiceURL)
	}
	if c.RequestTimeout != 5*time.Second || c.RedisDB != 3 || !c.SecureCookies {
		t.Fatalf("unexpected %+v", c)
	}
	if len(c.CORSOrigins) != 2 || c.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("cors origins = %v", c.CORSOrigins)
	}
}
