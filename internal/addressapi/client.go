package addressapi

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

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dukerupert/addressbook/internal/address"
	"github.com/dukerupert/addressbook/internal/auth"
	"github.com/dukerupert/addressbook/internal/domain"
)

const (
	// RequestIDHeader carries the correlation id to the service.
	RequestIDHeader = "X-Request-ID"

	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// ErrMalformedResponse is returned when a success body cannot be decoded.
var ErrMalformedResponse = errors.New("malformed address service response")

// ClientConfig contains configuration for the HTTP client.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration   // Optional: defaults to 10s
	HTTP    *http.Client    // Optional: overrides Timeout when set
	Logger  *zerolog.Logger // Optional: defaults to a no-op logger
}

// Client implements Service over HTTP and JSON.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger zerolog.Logger
}

// NewClient creates a client for the service rooted at cfg.BaseURL.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("address service base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid address service base URL: %w", err)
	}

	httpClient := cfg.HTTP
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Client{
		base:   base,
		http:   httpClient,
		logger: logger.With().Str("component", "addressapi").Logger(),
	}, nil
}

// List handles GET /address.
func (c *Client) List(ctx context.Context, token auth.Token) (*Response, error) {
	return c.do(ctx, http.MethodGet, "/address", nil, token)
}

// Add handles POST /address. The id is never sent for new addresses.
func (c *Client) Add(ctx context.Context, addr address.Address, token auth.Token) (*Response, error) {
	return c.do(ctx, http.MethodPost, "/address", AddressBody{Address: addr.WithoutID()}, token)
}

// Update handles PUT /address/{id}.
func (c *Client) Update(ctx context.Context, addr address.Address, token auth.Token) (*Response, error) {
	return c.do(ctx, http.MethodPut, "/address/"+url.PathEscape(addr.ID), AddressBody{Address: addr}, token)
}

// Remove handles DELETE /address/{id}.
func (c *Client) Remove(ctx context.Context, id string, token auth.Token) (*Response, error) {
	return c.do(ctx, http.MethodDelete, "/address/"+url.PathEscape(id), nil, token)
}

func (c *Client) do(ctx context.Context, method, path string, payload any, token auth.Token) (*Response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := domain.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", token.Header())
	req.Header.Set(RequestIDHeader, requestID)

	logger := c.logger.With().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Logger()

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn().Err(err).Msg("address service request failed")
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	logger.Debug().
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("address service responded")

	out := &Response{StatusCode: resp.StatusCode}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb ErrorBody
		if json.Unmarshal(raw, &eb) == nil {
			out.Message = eb.Message
			if out.Message == "" {
				out.Message = eb.Error
			}
		}
		return out, nil
	}

	var lb struct {
		AddressList *address.List `json:"addressList"`
	}
	if err := json.Unmarshal(raw, &lb); err != nil {
		return out, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if lb.AddressList == nil {
		return out, fmt.Errorf("%w: addressList missing", ErrMalformedResponse)
	}
	out.Addresses = *lb.AddressList
	if out.Addresses == nil {
		out.Addresses = address.List{}
	}

	return out, nil
}
