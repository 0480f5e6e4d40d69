// Package api is the HTTP client for the canteen API. It owns the
// cookie jar (session and anti-forgery cookies), the CSRF handshake for
// state-changing requests, and the normalisation of server payloads
// into the canonical model types.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/cookiejar"
	"net/url"

	"canteen-client/internal/config"
	"canteen-client/internal/model"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	csrfCookieName = "csrftoken"
	csrfHeader     = "X-CSRFToken"

	correlationHeader = "X-Correlation-ID"
)

// Client talks to the canteen API.
type Client struct {
	http    *resty.Client
	baseURL *url.URL
	logger  zerolog.Logger
}

// New creates an API client for the configured base URL. The client
// carries a cookie jar so the session cookie and the anti-forgery cookie
// survive across calls.
func New(cfg config.APIConfig, logger zerolog.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	log := logger.With().Str("component", "api").Logger()

	hc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetCookieJar(jar).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	hc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		r.SetHeader(correlationHeader, uuid.NewString())
		return nil
	})

	hc.OnAfterResponse(func(_ *resty.Client, r *resty.Response) error {
		log.Debug().
			Str("method", r.Request.Method).
			Str("url", r.Request.URL).
			Int("status", r.StatusCode()).
			Dur("duration", r.Time()).
			Msg("api request")
		return nil
	})

	return &Client{
		http:    hc,
		baseURL: base,
		logger:  log,
	}, nil
}

// EnsureCSRF makes sure an anti-forgery token is held, fetching one from
// the token-issuing endpoint only when the cookie is not already
// present. Returns the token value.
func (c *Client) EnsureCSRF(ctx context.Context) (string, error) {
	if token := c.csrfToken(); token != "" {
		return token, nil
	}

	resp, err := c.http.R().SetContext(ctx).Get("/api/auth/csrf/")
	if err != nil {
		return "", c.transportError("fetch CSRF token", err)
	}
	if !resp.IsSuccess() {
		return "", c.serverError(resp)
	}

	token := c.csrfToken()
	if token == "" {
		return "", model.ErrMissingCSRFToken
	}
	return token, nil
}

// csrfToken reads the anti-forgery token back from the cookie jar.
func (c *Client) csrfToken() string {
	jar := c.http.GetClient().Jar
	if jar == nil {
		return ""
	}
	for _, ck := range jar.Cookies(c.baseURL) {
		if ck.Name == csrfCookieName {
			return ck.Value
		}
	}
	return ""
}

// mutating returns a request primed for a state-changing call: CSRF
// token ensured and attached.
func (c *Client) mutating(ctx context.Context) (*resty.Request, error) {
	token, err := c.EnsureCSRF(ctx)
	if err != nil {
		return nil, err
	}
	return c.http.R().SetContext(ctx).SetHeader(csrfHeader, token), nil
}

// serverError converts a non-2xx response into an APIError, relaying
// the server-provided message verbatim when the body carries one.
func (c *Client) serverError(resp *resty.Response) error {
	apiErr := &model.APIError{StatusCode: resp.StatusCode()}

	var body struct {
		Error   string `json:"error"`
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		switch {
		case body.Error != "":
			apiErr.Message = body.Error
		case body.Detail != "":
			apiErr.Message = body.Detail
		case body.Message != "":
			apiErr.Message = body.Message
		}
	}

	c.logger.Warn().
		Int("status", apiErr.StatusCode).
		Str("message", apiErr.Message).
		Msg("server rejected request")
	return apiErr
}

// transportError wraps a network-level failure.
func (c *Client) transportError(op string, err error) error {
	c.logger.Warn().Err(err).Str("op", op).Msg("network error")
	return fmt.Errorf("%s: %w", op, err)
}
