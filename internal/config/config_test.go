package config

import (
	"reflect"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "SESSION_BACKEND", "SESSION_TTL_SECONDS", "ORDER_HISTORY_USER_ID", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}
	cfg := FromEnv()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr)
	}
	if cfg.SessionBackend != BackendMemory {
		t.Fatalf("unexpected backend %q", cfg.SessionBackend)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("unexpected ttl %v", cfg.SessionTTL)
	}
	if cfg.OrderHistoryUserID != 2 {
		t.Fatalf("unexpected order user %d", cfg.OrderHistoryUserID)
	}
	if cfg.CatalogBaseURL != "https://fakestoreapi.com" {
		t.Fatalf("unexpected catalog url %q", cfg.CatalogBaseURL)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("SESSION_TTL_SECONDS", "90")
	t.Setenv("ORDER_HISTORY_USER_ID", "7")
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("SESSION_COOKIE_SECURE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := FromEnv()
	if cfg.SessionBackend != BackendRedis {
		t.Fatalf("unexpected backend %q", cfg.SessionBackend)
	}
	if cfg.SessionTTL != 90*time.Second {
		t.Fatalf("unexpected ttl %v", cfg.SessionTTL)
	}
	if cfg.OrderHistoryUserID != 7 || cfg.DBMaxConns != 4 {
		t.Fatalf("unexpected ints %d %d", cfg.OrderHistoryUserID, cfg.DBMaxConns)
	}
	if !cfg.SecureCookie {
		t.Fatalf("expected secure cookie")
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("SESSION_TTL_SECONDS", "soon")
	t.Setenv("ORDER_HISTORY_USER_ID", "two")
	t.Setenv("SESSION_COOKIE_SECURE", "maybe")

	cfg := FromEnv()
	if cfg.SessionTTL != 24*time.Hour || cfg.OrderHistoryUserID != 2 || cfg.SecureCookie {
		t.Fatalf("expected defaults, got %v %d %v", cfg.SessionTTL, cfg.OrderHistoryUserID, cfg.SecureCookie)
	}
}
