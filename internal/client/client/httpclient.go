package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// HTTPClient calls the JSON API under /api/auth.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type msgResponse struct {
	Msg string `json:"msg"`
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/register", "", credentials{username, password}, nil, common.ErrAuthenticationFailed)
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", credentials{username, password}, &out, common.ErrAuthenticationFailed); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", serverError("empty token in login response", common.ErrorInternal)
	}
	return out.Token, nil
}

func (c *HTTPClient) Whoami(ctx context.Context, token string) (*Identity, error) {
	var out struct {
		Username string    `json:"username"`
		IssuedAt time.Time `json:"issuedAt"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", token, nil, &out, common.ErrInvalidToken); err != nil {
		return nil, err
	}
	return &Identity{Username: out.Username, IssuedAt: out.IssuedAt}, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do sends body as JSON and decodes a 2xx answer into out. unauthorized is
// the sentinel a 401 maps to for this endpoint.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, body, out any, unauthorized error) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	var m msgResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&m)
	if m.Msg == "" {
		m.Msg = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return serverError(m.Msg, common.ErrInvalidInput)
	case resp.StatusCode == http.StatusConflict:
		return serverError(m.Msg, common.ErrDuplicateUsername)
	case resp.StatusCode == http.StatusUnauthorized:
		return serverError(m.Msg, unauthorized)
	case resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", ErrUnavailable, m.Msg)
	default:
		return serverError(m.Msg, common.ErrorInternal)
	}
}
