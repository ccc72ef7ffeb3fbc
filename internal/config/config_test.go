package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SurrealURL != "http://localhost:8000/" {
		t.Fatalf("unexpected surreal_url %q", cfg.SurrealURL)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("unexpected request timeout %v", cfg.RequestTimeout)
	}
	if cfg.ExportInterval != 5*time.Minute {
		t.Fatalf("unexpected export interval %v", cfg.ExportInterval)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SURREAL_URL", "http://db.internal:8000")
	t.Setenv("SURREAL_NS", "prod")
	t.Setenv("SURREAL_DB", "catalog")
	t.Setenv("SURREAL_PASS", "s3cret")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sc := cfg.Surreal()
	if sc.URL != "http://db.internal:8000" || sc.Namespace != "prod" || sc.Database != "catalog" || sc.Password != "s3cret" {
		t.Fatalf("unexpected surreal config %+v", sc)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("unexpected request timeout %v", cfg.RequestTimeout)
	}
}

func TestLoadRejectsInvalidInterval(t *testing.T) {
	t.Setenv("EXPORT_INTERVAL", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero export_interval")
	}
}
