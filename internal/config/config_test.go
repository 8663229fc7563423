package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("UPSTREAM_BASE", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("PROXY_ENABLED", "")
	t.Setenv("DEFAULT_VERSION", "")

	cfg, err := Load(zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UpstreamBase != "https://zamboni.gg" {
		t.Errorf("UpstreamBase = %q", cfg.UpstreamBase)
	}
	if cfg.CacheTTL != 8*time.Second {
		t.Errorf("CacheTTL = %v, want 8s", cfg.CacheTTL)
	}
	if cfg.ProxyEnabled {
		t.Error("proxy should be disabled by default")
	}
	if cfg.DefaultVersion != "nhl10" {
		t.Errorf("DefaultVersion = %q, want nhl10", cfg.DefaultVersion)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("UPSTREAM_BASE", "http://localhost:9000/")
	t.Setenv("CACHE_TTL", "2s")
	t.Setenv("PROXY_ENABLED", "true")
	t.Setenv("DEFAULT_VERSION", "NHL14")

	cfg, err := Load(zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UpstreamBase != "http://localhost:9000" {
		t.Errorf("UpstreamBase = %q, want trailing slash trimmed", cfg.UpstreamBase)
	}
	if cfg.CacheTTL != 2*time.Second || !cfg.ProxyEnabled || cfg.DefaultVersion != "nhl14" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"ttl", "CACHE_TTL", "soon"},
		{"proxy", "PROXY_ENABLED", "maybe"},
		{"upstream", "UPSTREAM_BASE", "zamboni.gg"},
		{"version", "DEFAULT_VERSION", "nhl99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(zerolog.Nop()); err == nil {
				t.Errorf("Load accepted %s=%q", tt.key, tt.value)
			}
		})
	}
}
