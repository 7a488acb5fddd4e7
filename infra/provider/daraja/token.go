package daraja

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/mwendwa/payrelay/pkg/config"
	"github.com/mwendwa/payrelay/pkg/provider"
	"golang.org/x/sync/singleflight"
)

const tokenPath = "/oauth/v1/generate?grant_type=client_credentials"

// CachedTokenSource caches the Daraja access token in process memory
// and refreshes it through a single-flight group: while one
// acquisition is in flight every other caller waits on it and shares
// its result, so at most one token call is outstanding at any instant.
type CachedTokenSource struct {
	consumerKey    string
	consumerSecret string
	baseURL        string
	httpClient     *http.Client
	timeout        time.Duration
	expiryBuffer   time.Duration
	logger         *slog.Logger

	mu        sync.RWMutex
	token     string
	expiresAt time.Time

	group singleflight.Group

	// now is swapped in tests to drive expiry.
	now func() time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// NewTokenSource creates a CachedTokenSource from config.
func NewTokenSource(cfg config.Daraja, logger *slog.Logger) *CachedTokenSource {
	baseURL := sandboxBaseURL
	if cfg.Env == "production" {
		baseURL = productionBaseURL
	}
	return &CachedTokenSource{
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		baseURL:        baseURL,
		httpClient: &http.Client{
			Timeout: cfg.TokenTimeout,
		},
		timeout:      cfg.TokenTimeout,
		expiryBuffer: cfg.TokenExpiryBuffer,
		logger:       logger.With("component", "token_source"),
		now:          time.Now,
	}
}

// AccessToken returns a valid access token. A cached token that has
// not reached its buffered expiry is returned with no I/O; otherwise
// the caller joins the in-flight acquisition or starts a new one.
func (s *CachedTokenSource) AccessToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	token, expiresAt := s.token, s.expiresAt
	s.mu.RUnlock()
	if token != "" && s.now().Before(expiresAt) {
		return token, nil
	}

	v, err, shared := s.group.Do("token", func() (any, error) {
		// A concurrent caller may have refreshed while we waited
		// for the group slot.
		s.mu.RLock()
		token, expiresAt := s.token, s.expiresAt
		s.mu.RUnlock()
		if token != "" && s.now().Before(expiresAt) {
			return token, nil
		}
		return s.acquire()
	})
	if err != nil {
		return "", err
	}
	if shared {
		s.logger.Debug("Token acquisition shared with concurrent caller")
	}
	return v.(string), nil
}

// acquire performs one authentication call against the provider. It
// runs on its own bounded deadline rather than a caller context: a
// caller that abandons its request must not cancel an acquisition
// other waiters share, and the result still populates the cache.
func (s *CachedTokenSource) acquire() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	token, ttl, err := s.fetch(ctx)
	if err != nil {
		s.mu.Lock()
		s.token = ""
		s.expiresAt = time.Time{}
		s.mu.Unlock()
		s.logger.Error("Token acquisition failed", "error", err)
		return "", &provider.TokenError{Err: err}
	}

	expiresAt := s.now().Add(ttl - s.expiryBuffer)
	s.mu.Lock()
	s.token = token
	s.expiresAt = expiresAt
	s.mu.Unlock()

	s.logger.Info("Access token acquired", "expires_at", expiresAt)
	return token, nil
}

func (s *CachedTokenSource) fetch(ctx context.Context) (token string, ttl time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+tokenPath, nil)
	if err != nil {
		return "", 0, err
	}
	req.SetBasicAuth(s.consumerKey, s.consumerSecret)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", 0, fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", 0, fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", 0, fmt.Errorf("token endpoint returned an empty token")
	}

	seconds, err := strconv.Atoi(tr.ExpiresIn)
	if err != nil {
		return "", 0, fmt.Errorf("parse token expiry %q: %w", tr.ExpiresIn, err)
	}
	return tr.AccessToken, time.Duration(seconds) * time.Second, nil
}

var _ provider.TokenSource = (*CachedTokenSource)(nil)
