package app

import (
	"testing"
	"time"

	_ "github.com/inkwell-press/inkwell/internal/testing/guard"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-session-secret")
	t.Setenv("CSRF_SECRET", "test-csrf-secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.AppAddr != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.AppAddr)
	}
	if cfg.SessionTTL != 720*time.Hour {
		t.Fatalf("unexpected session ttl: %s", cfg.SessionTTL)
	}
	if cfg.SearchCacheTTL != 30*time.Second {
		t.Fatalf("unexpected search cache ttl: %s", cfg.SearchCacheTTL)
	}
	if cfg.IsProduction() {
		t.Fatal("development config must not report production")
	}
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("CSRF_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when secrets are missing")
	}
}

func TestTestModeRefresh(t *testing.T) {
	t.Setenv("INKWELL_TEST_MODE", "1")
	RefreshTestMode()
	if !InTestMode() {
		t.Fatal("expected test mode on")
	}

	t.Setenv("INKWELL_TEST_MODE", "")
	RefreshTestMode()
	if InTestMode() {
		t.Fatal("expected test mode off after refresh")
	}

	t.Setenv("INKWELL_TEST_MODE", "1")
	RefreshTestMode()
}
