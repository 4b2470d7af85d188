package zakeke_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printeers/zakeke-sync/internal/zakeke"
)

// tokenJSON returns a valid Zakeke token response as JSON bytes.
func tokenJSON(token string) []byte {
	return []byte(fmt.Sprintf(
		`{"access_token":%q,"token_type":"Bearer","expires_in":3600}`,
		token,
	))
}

func TestOAuthTokenProvider_Token(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantErr    bool
		wantToken  string
		errContain string
	}{
		{
			name: "successful token fetch",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write(tokenJSON("test-token-123"))
			},
			wantToken: "test-token-123",
		},
		{
			name: "server returns 401",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
			},
			wantErr:    true,
			errContain: "status 401",
		},
		{
			name: "server returns invalid JSON",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
			wantErr:    true,
			errContain: "parsing token response",
		},
		{
			name: "response missing token_type",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"access_token":"x","expires_in":3600}`))
			},
			wantErr:    true,
			errContain: "incomplete token response",
		},
		{
			name: "response missing expires_in",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"access_token":"x","token_type":"Bearer"}`))
			},
			wantErr:    true,
			errContain: "incomplete token response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			provider := zakeke.NewOAuthTokenProvider(
				srv.URL,
				"test-client-id",
				"test-secret-key",
			)

			token, err := provider.Token(context.Background())

			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, zakeke.ErrAuth)
				assert.Contains(t, err.Error(), tt.errContain)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestOAuthTokenProvider_TokenCaching(t *testing.T) {
	t.Parallel()

	var callCount atomic.Int32

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			callCount.Add(1)
			_, _ = w.Write(tokenJSON("cached-token"))
		}),
	)
	defer srv.Close()

	provider := zakeke.NewOAuthTokenProvider(srv.URL, "id", "secret")

	// First call should hit the server.
	token1, err := provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cached-token", token1)
	assert.Equal(t, int32(1), callCount.Load())

	// Second call should return the cached token (no HTTP call).
	token2, err := provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cached-token", token2)
	assert.Equal(t, int32(1), callCount.Load())
}

func TestOAuthTokenProvider_TokenRefreshOnExpiry(t *testing.T) {
	t.Parallel()

	var callCount atomic.Int32
	now := time.Now()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			callCount.Add(1)
			_, _ = w.Write(tokenJSON("refreshed-token"))
		}),
	)
	defer srv.Close()

	currentTime := now
	var mu sync.Mutex

	provider := zakeke.NewOAuthTokenProvider(
		srv.URL,
		"id",
		"secret",
		zakeke.WithNowFunc(func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return currentTime
		}),
	)

	// First call fetches a token.
	_, err := provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), callCount.Load())

	// Just inside the refresh window (3600s - 60s buffer): cached.
	mu.Lock()
	currentTime = now.Add(3539 * time.Second)
	mu.Unlock()

	_, err = provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), callCount.Load())

	// Past expiry: exactly one renewal call.
	mu.Lock()
	currentTime = now.Add(3600 * time.Second)
	mu.Unlock()

	_, err = provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), callCount.Load())
}

func TestOAuthTokenProvider_StaleTokenKeptOnFailedRefresh(t *testing.T) {
	t.Parallel()

	var callCount atomic.Int32
	var failing atomic.Bool
	now := time.Now()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			callCount.Add(1)
			if failing.Load() {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write(tokenJSON("token-" + fmt.Sprint(callCount.Load())))
		}),
	)
	defer srv.Close()

	currentTime := now
	var mu sync.Mutex

	provider := zakeke.NewOAuthTokenProvider(
		srv.URL,
		"id",
		"secret",
		zakeke.WithNowFunc(func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return currentTime
		}),
	)

	token, err := provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)

	mu.Lock()
	currentTime = now.Add(2 * time.Hour)
	mu.Unlock()

	// Renewal fails; the caller sees the error and skips this cycle.
	failing.Store(true)
	_, err = provider.Token(context.Background())
	require.Error(t, err)

	// A later successful renewal recovers.
	failing.Store(false)
	token, err = provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-3", token)
}

func TestOAuthTokenProvider_RequestFormat(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(
				t,
				"application/x-www-form-urlencoded",
				r.Header.Get("Content-Type"),
			)

			// clientID:secretKey as HTTP Basic auth.
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "my-client-id", user)
			assert.Equal(t, "my-secret-key", pass)

			body, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.Equal(t, "grant_type=client_credentials&access_type=S2S", string(body))

			_, _ = w.Write(tokenJSON("format-test-token"))
		}),
	)
	defer srv.Close()

	provider := zakeke.NewOAuthTokenProvider(srv.URL, "my-client-id", "my-secret-key")

	token, err := provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "format-test-token", token)
}

func TestOAuthTokenProvider_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	var callCount atomic.Int32

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			callCount.Add(1)
			time.Sleep(10 * time.Millisecond)
			_, _ = w.Write(tokenJSON("concurrent-token"))
		}),
	)
	defer srv.Close()

	provider := zakeke.NewOAuthTokenProvider(srv.URL, "id", "secret")

	const goroutines = 10

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for range goroutines {
		go func() {
			defer wg.Done()
			token, err := provider.Token(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "concurrent-token", token)
		}()
	}

	wg.Wait()

	// The mutex serializes refreshes; most goroutines reuse the cache.
	assert.Less(t, callCount.Load(), int32(goroutines))
}
