package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"zamboni-stats/internal/config"
	"zamboni-stats/internal/constants"
	"zamboni-stats/internal/domain"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

var (
	ErrUpstreamStatus = errors.New("upstream returned non-200 status")
	ErrDecode         = errors.New("failed to parse JSON")
)

// Client talks to the Zamboni report APIs.
type Client struct {
	base   string
	client *fasthttp.Client
	logger zerolog.Logger
}

func NewClient(cfg *config.Config, logger zerolog.Logger) *Client {
	return &Client{
		base: strings.TrimRight(cfg.UpstreamBase, "/"),
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		logger: logger,
	}
}

func (c *Client) Base() string {
	return c.base
}

// Endpoint builds <base>/<version><path>.
func (c *Client) Endpoint(s domain.Session, path string) string {
	return fmt.Sprintf("%s/%s%s", c.base, s.Version, path)
}

func (c *Client) RawGamesURL(s domain.Session) string {
	return c.Endpoint(s, "/api/raw/games")
}

func (c *Client) RawReportsURL(s domain.Session) string {
	return c.Endpoint(s, "/api/raw/reports")
}

func (c *Client) PlayersURL(s domain.Session) string {
	return c.Endpoint(s, "/api/players")
}

func (c *Client) ProfileURL(s domain.Session, gamertag string) string {
	return c.Endpoint(s, "/api/player/"+url.PathEscape(gamertag))
}

// StatusURL accounts for nhl14 and nhllegacy serving status from their own ports.
func (c *Client) StatusURL(s domain.Session) string {
	switch s.Version {
	case domain.VersionNHL14:
		return fmt.Sprintf("%s:%s/%s/status", c.base, constants.NHL14StatusPort, s.Version)
	case domain.VersionNHLLegacy:
		return fmt.Sprintf("%s:%s/%s/status", c.base, constants.NHLLegacyStatusPort, s.Version)
	default:
		return c.Endpoint(s, "/status")
	}
}

// Get fetches url and returns the body once it is known to be valid JSON.
func (c *Client) Get(ctx context.Context, target string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(target)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Warn().Err(err).Str("url", target).Msg("upstream request failed")
			return nil, err
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			c.logger.Warn().Err(err).Str("url", target).Msg("upstream request failed")
			return nil, err
		}
	}

	c.logger.Debug().
		Str("url", target).
		Int("status", resp.StatusCode()).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("upstream response")

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrUpstreamStatus, resp.StatusCode())
	}

	body := append([]byte(nil), resp.Body()...)
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w | HTTP %d", ErrDecode, resp.StatusCode())
	}
	return body, nil
}
