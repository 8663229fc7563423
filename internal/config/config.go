package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	"zamboni-stats/internal/constants"
	"zamboni-stats/internal/domain"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	UpstreamBase   string
	DBPath         string
	ServerPort     string
	LogLevel       string
	CacheTTL       time.Duration
	DefaultVersion domain.APIVersion
	ProxyEnabled   bool
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		UpstreamBase:   strings.TrimRight(getEnv("UPSTREAM_BASE", "https://zamboni.gg"), "/"),
		DBPath:         getEnv("DB_PATH", ":memory:"),
		ServerPort:     getEnv("SERVER_PORT", "3000"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DefaultVersion: domain.APIVersion(strings.ToLower(getEnv("DEFAULT_VERSION", string(domain.VersionNHL10)))),
	}

	ttl, err := time.ParseDuration(getEnv("CACHE_TTL", constants.DefaultCacheTTL.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl

	proxy, err := strconv.ParseBool(getEnv("PROXY_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROXY_ENABLED: %w", err)
	}
	cfg.ProxyEnabled = proxy

	if u, err := url.Parse(cfg.UpstreamBase); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("UPSTREAM_BASE must be an absolute URL, got %q", cfg.UpstreamBase)
	}
	if !cfg.DefaultVersion.Valid() {
		return nil, fmt.Errorf("unknown DEFAULT_VERSION %q", cfg.DefaultVersion)
	}

	logger.Info().
		Str("upstream", cfg.UpstreamBase).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("default_version", string(cfg.DefaultVersion)).
		Bool("proxy_enabled", cfg.ProxyEnabled).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
