// Package daraja implements the payment provider ports against the
// Safaricom Daraja REST API: access-token acquisition, STK push
// charges, B2C payouts and status queries.
package daraja

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mwendwa/payrelay/pkg/config"
	"github.com/mwendwa/payrelay/pkg/provider"
)

const (
	sandboxBaseURL    = "https://sandbox.safaricom.co.ke"
	productionBaseURL = "https://api.safaricom.co.ke"

	timestampLayout = "20060102150405"
)

// Client calls the Daraja API. It obtains bearer tokens through the
// injected TokenSource and signs charge/query payloads with the
// shortcode passkey password.
type Client struct {
	tokens             provider.TokenSource
	httpClient         *http.Client
	baseURL            string
	shortCode          string
	passKey            string
	initiatorName      string
	securityCredential string
	callbackBaseURL    string
	logger             *slog.Logger

	// now is swapped in tests to pin the signed timestamp.
	now func() time.Time
}

// New creates a Daraja client from config. The environment flag picks
// the sandbox or production host.
func New(cfg config.Daraja, tokens provider.TokenSource, logger *slog.Logger) *Client {
	baseURL := sandboxBaseURL
	if cfg.Env == "production" {
		baseURL = productionBaseURL
	}
	return &Client{
		tokens: tokens,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		baseURL:            baseURL,
		shortCode:          cfg.ShortCode,
		passKey:            cfg.PassKey,
		initiatorName:      cfg.InitiatorName,
		securityCredential: cfg.SecurityCredential,
		callbackBaseURL:    strings.TrimRight(cfg.CallbackBaseURL, "/"),
		logger:             logger.With("provider", "daraja"),
		now:                time.Now,
	}
}

// signedPassword derives the time-varying request password:
// base64(shortcode + passkey + timestamp). It is always computed
// fresh for the current instant.
func (c *Client) signedPassword() (password, timestamp string) {
	timestamp = c.now().Format(timestampLayout)
	password = base64.StdEncoding.EncodeToString([]byte(c.shortCode + c.passKey + timestamp))
	return password, timestamp
}

// post sends an authenticated JSON request and decodes the response
// into out. Non-2xx responses become a CallError carrying the raw
// provider body.
func (c *Client) post(ctx context.Context, operation, path string, payload, out any) error {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return &provider.CallError{Operation: operation, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &provider.CallError{Operation: operation, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &provider.CallError{Operation: operation, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Error("Provider call failed",
			"operation", operation,
			"status", resp.StatusCode,
			"body", string(raw),
		)
		return &provider.CallError{Operation: operation, Status: resp.StatusCode, Body: string(raw)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &provider.CallError{Operation: operation, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

var _ provider.Payments = (*Client)(nil)
