package server

import (
	"io"
	"net/http"
	"strings"
	"time"
	"zamboni-stats/internal/config"
	"zamboni-stats/internal/constants"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// ProxyPaths are the upstream prefixes the relay forwards.
var ProxyPaths = []string{"/nhl10/", "/nhl11/", "/nhl14/", "/nhllegacy/", "/api/", "/status/"}

// Proxy relays browser requests to the upstream base for local development,
// where the upstream does not send CORS headers.
type Proxy struct {
	base   string
	client *fasthttp.Client
	logger zerolog.Logger
}

func NewProxy(cfg *config.Config, logger zerolog.Logger) *Proxy {
	return &Proxy{
		base: strings.TrimRight(cfg.UpstreamBase, "/"),
		client: &fasthttp.Client{
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		logger: logger,
	}
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target := p.base + r.URL.RequestURI()
	logger := zerolog.Ctx(r.Context())
	if logger.GetLevel() == zerolog.Disabled {
		logger = &p.logger
	}
	start := time.Now()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(target)
	req.Header.SetMethod(r.Method)
	for key, values := range r.Header {
		if strings.EqualFold(key, "Host") || strings.EqualFold(key, "Content-Length") || strings.EqualFold(key, "Connection") {
			continue
		}
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead && r.Body != nil {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			p.fail(w, logger, target, err)
			return
		}
		req.SetBody(body)
	}

	if err := p.client.DoTimeout(req, resp, constants.ExternalAPITimeout); err != nil {
		p.fail(w, logger, target, err)
		return
	}

	resp.Header.VisitAll(func(key, value []byte) {
		if strings.EqualFold(string(key), "Transfer-Encoding") {
			return
		}
		w.Header().Add(string(key), string(value))
	})
	w.WriteHeader(resp.StatusCode())
	if r.Method != http.MethodHead {
		w.Write(resp.Body())
	}

	logger.Info().
		Str("method", r.Method).
		Str("target", target).
		Int("status", resp.StatusCode()).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("proxied request")
}

func (p *Proxy) fail(w http.ResponseWriter, logger *zerolog.Logger, target string, err error) {
	logger.Error().Err(err).Str("target", target).Msg("proxy failed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   "Proxy failed",
		"message": err.Error(),
	})
}

// Mount registers the relay on every proxied prefix.
func (p *Proxy) Mount(mux *http.ServeMux, wrap func(http.Handler) http.Handler) {
	for _, prefix := range ProxyPaths {
		mux.Handle(prefix, wrap(p))
	}
}
