package backoffice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"orderdesk-backend/cache"
)

const (
	DefaultTimeout  = 15 * time.Second
	DefaultCacheTTL = 10 * time.Minute

	customerCacheTTL = time.Minute

	maxBodyBytes = 4 << 20
)

type Config struct {
	BaseURL  string
	Timeout  time.Duration
	Cache    cache.Cache
	CacheTTL time.Duration
	Logger   *zap.Logger

	// Transport overrides the base round tripper; it is still wrapped for tracing.
	Transport http.RoundTripper
}

// Client talks to the back-office REST API on behalf of an operator. It is
// safe for concurrent use.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker[response]
	cache    cache.Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

type response struct {
	status int
	body   []byte
}

// errServerStatus marks 5xx answers as breaker failures.
var errServerStatus = errors.New("server error status")

func New(cfg Config) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid back office url %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	log := cfg.Logger.Named("backoffice")
	breaker := gobreaker.NewCircuitBreaker[response](gobreaker.Settings{
		Name:        "backoffice",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{
		baseURL: u,
		http: &http.Client{
			Transport: otelhttp.NewTransport(base),
			Timeout:   cfg.Timeout,
		},
		breaker:  breaker,
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		log:      log,
	}, nil
}

// do sends one request and returns the 2xx body. Everything else comes back
// as one of the typed errors in this package.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, creds Credentials, payload any) ([]byte, error) {
	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", op, err)
		}
		body = b
	}

	u := c.baseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	res, err := c.breaker.Execute(func() (response, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
		if err != nil {
			return response{}, err
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if creds.Token != "" {
			req.Header.Set("Authorization", "Bearer "+creds.Token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return response{}, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return response{}, err
		}
		r := response{status: resp.StatusCode, body: data}
		if resp.StatusCode >= http.StatusInternalServerError {
			return r, errServerStatus
		}
		return r, nil
	})
	if err != nil && !errors.Is(err, errServerStatus) {
		c.log.Warn("back office unreachable", zap.String("op", op), zap.Error(err))
		return nil, &TransportError{Op: op, Err: err}
	}

	switch {
	case res.status >= 200 && res.status < 300:
		return res.body, nil
	case res.status == http.StatusUnauthorized:
		c.log.Debug("back office refused token", zap.String("op", op))
		return nil, ErrUnauthorized
	case res.status == http.StatusUnprocessableEntity:
		msg, fields := parseErrorBody(res.body)
		return nil, &ValidationError{Message: msg, Fields: fields}
	default:
		msg, _ := parseErrorBody(res.body)
		c.log.Warn("back office error status",
			zap.String("op", op),
			zap.Int("status", res.status),
			zap.String("message", msg))
		return nil, &StatusError{Op: op, Code: res.status, Message: msg}
	}
}
