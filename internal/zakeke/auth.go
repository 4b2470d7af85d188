package zakeke

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	defaultTokenPath = "token"

	// grantBody is the fixed client-credentials grant for server-to-server
	// access.
	grantBody = "grant_type=client_credentials&access_type=S2S"

	// refreshBuffer renews tokens slightly before their expiry instant so
	// a token is never presented right at the boundary.
	refreshBuffer = 60 * time.Second
)

// OAuthTokenProvider implements TokenProvider using the Zakeke OAuth2
// client credentials flow. It caches the bearer token and refreshes when
// expired or within 60 seconds of expiry. Thread-safe via mutex.
type OAuthTokenProvider struct {
	clientID  string
	secretKey string
	tokenURL  string
	client    *http.Client

	mu      sync.Mutex
	token   string
	expiry  time.Time
	nowFunc func() time.Time // for testing
}

// OAuthOption configures the OAuthTokenProvider.
type OAuthOption func(*OAuthTokenProvider)

// WithTokenURL overrides the token endpoint derived from the base URL.
func WithTokenURL(u string) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.tokenURL = u
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.client = c
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.nowFunc = f
	}
}

// NewOAuthTokenProvider creates a token provider for the given API base URL
// and credential pair.
func NewOAuthTokenProvider(
	baseURL, clientID, secretKey string,
	opts ...OAuthOption,
) *OAuthTokenProvider {
	p := &OAuthTokenProvider{
		clientID:  clientID,
		secretKey: secretKey,
		tokenURL:  strings.TrimSuffix(baseURL, "/") + "/" + defaultTokenPath,
		client:    &http.Client{Timeout: 10 * time.Second},
		nowFunc:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type tokenErrorResponse struct {
	Error string `json:"error"`
}

// Token returns a valid bearer token, performing a credential exchange if
// the cached token is absent or about to expire.
func (p *OAuthTokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && p.nowFunc().Before(p.expiry.Add(-refreshBuffer)) {
		return p.token, nil
	}

	return p.refreshLocked(ctx)
}

func (p *OAuthTokenProvider) refreshLocked(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.tokenURL,
		strings.NewReader(grantBody),
	)
	if err != nil {
		return "", fmt.Errorf("%w: creating token request: %w", ErrAuth, err)
	}

	creds := base64.StdEncoding.EncodeToString(
		[]byte(p.clientID + ":" + p.secretKey),
	)
	req.Header.Set("Authorization", "Basic "+creds)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: executing token request: %w", ErrAuth, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading token response: %w", ErrAuth, err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp tokenErrorResponse
		_ = json.Unmarshal(body, &errResp) //nolint:errcheck // best-effort error parsing
		return "", fmt.Errorf(
			"%w: token request failed (status %d): %s",
			ErrAuth, resp.StatusCode, errResp.Error,
		)
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("%w: parsing token response: %w", ErrAuth, err)
	}

	// The exchange must yield all three grant fields; anything else is a
	// malformed response and the cached token (if any) stays untouched.
	if tokenResp.AccessToken == "" || tokenResp.TokenType == "" || tokenResp.ExpiresIn <= 0 {
		return "", fmt.Errorf("%w: incomplete token response", ErrAuth)
	}

	p.token = tokenResp.AccessToken
	p.expiry = p.nowFunc().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	return p.token, nil
}
