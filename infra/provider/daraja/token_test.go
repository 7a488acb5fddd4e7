package daraja

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mwendwa/payrelay/pkg/config"
	"github.com/mwendwa/payrelay/pkg/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenSource(t *testing.T, srv *httptest.Server) *CachedTokenSource {
	t.Helper()
	s := NewTokenSource(config.Daraja{
		ConsumerKey:       "key",
		ConsumerSecret:    "secret",
		TokenTimeout:      2 * time.Second,
		TokenExpiryBuffer: time.Minute,
	}, slog.Default())
	s.baseURL = srv.URL
	return s
}

func TestAccessToken_SingleFlight(t *testing.T) {
	var calls atomic.Int64
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		w.Write([]byte(`{"access_token":"tkn-1","expires_in":"3599"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	s := newTestTokenSource(t, srv)

	const callers = 20
	var wg sync.WaitGroup
	tokens := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = s.AccessToken(context.Background())
		}(i)
	}

	// Let the goroutines pile up on the in-flight acquisition before
	// the provider responds.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load(), "concurrent callers must share one acquisition")
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "tkn-1", tokens[i])
	}
}

func TestAccessToken_CachedTokenSkipsNetwork(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"access_token":"tkn-1","expires_in":"3599"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	s := newTestTokenSource(t, srv)

	token, err := s.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tkn-1", token)

	for i := 0; i < 5; i++ {
		token, err = s.AccessToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tkn-1", token)
	}
	assert.Equal(t, int64(1), calls.Load(), "valid cached token must be served without I/O")
}

func TestAccessToken_ExpiryTriggersOneAcquisition(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if calls.Load() == 1 {
			w.Write([]byte(`{"access_token":"tkn-1","expires_in":"3599"}`)) //nolint:errcheck
			return
		}
		w.Write([]byte(`{"access_token":"tkn-2","expires_in":"3599"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	s := newTestTokenSource(t, srv)

	now := time.Now()
	s.now = func() time.Time { return now }

	token, err := s.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tkn-1", token)

	// Advance past the buffered expiry: 3599s declared minus the 1m buffer.
	now = now.Add(3599 * time.Second)

	token, err = s.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tkn-2", token)
	assert.Equal(t, int64(2), calls.Load())
}

func TestAccessToken_ExpiryBufferApplied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"tkn-1","expires_in":"3599"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	s := newTestTokenSource(t, srv)

	now := time.Now()
	s.now = func() time.Time { return now }

	_, err := s.AccessToken(context.Background())
	require.NoError(t, err)

	s.mu.RLock()
	expiresAt := s.expiresAt
	s.mu.RUnlock()
	assert.Equal(t, now.Add(3599*time.Second-time.Minute), expiresAt,
		"expiry must be set strictly earlier than the provider-declared TTL")
}

func TestAccessToken_FailureResetsAndPropagatesToAllWaiters(t *testing.T) {
	var calls atomic.Int64
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if n == 1 {
			<-release
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"errorMessage":"invalid credentials"}`)) //nolint:errcheck
			return
		}
		w.Write([]byte(`{"access_token":"tkn-2","expires_in":"3599"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	s := newTestTokenSource(t, srv)

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.AccessToken(context.Background())
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
	for i := 0; i < callers; i++ {
		require.Error(t, errs[i])
		var tokenErr *provider.TokenError
		assert.ErrorAs(t, errs[i], &tokenErr, "waiters must receive the typed acquisition error")
	}

	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	assert.Empty(t, token, "failed acquisition must reset the cache")

	// A later call retries and succeeds.
	token2, err := s.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tkn-2", token2)
}

func TestAccessToken_BasicAuthSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)
		w.Write([]byte(`{"access_token":"tkn-1","expires_in":"3599"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	s := newTestTokenSource(t, srv)
	_, err := s.AccessToken(context.Background())
	require.NoError(t, err)
}
