package kis

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/wonny/kisfolio/internal/domain/broker"
)

// expiryMargin is subtracted from the reported expiry when deciding
// whether the cached token is still usable.
const expiryMargin = 60 * time.Second

// defaultTokenTTL is used when KIS does not report expires_in.
const defaultTokenTTL = 24 * time.Hour

// TokenManager owns the single cached KIS access token. Empty at
// startup; cleared on Invalidate or expiry; never persisted.
type TokenManager struct {
	appKey    string
	appSecret string
	baseURL   string

	mu        sync.RWMutex
	token     string
	expiresAt time.Time

	// Singleflight so concurrent cache misses share one issuance
	sf singleflight.Group

	httpClient *http.Client

	now func() time.Time // injectable for tests
}

// NewTokenManager creates a TokenManager with an empty cache.
func NewTokenManager(appKey, appSecret, baseURL string, timeout time.Duration) *TokenManager {
	return &TokenManager{
		appKey:     appKey,
		appSecret:  appSecret,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// tokenResponse represents the KIS token API response
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns a valid access token, issuing a new one only when the
// cached token is missing or within the safety margin of its expiry.
// Safe for concurrent use; at most one issuance is in flight.
func (m *TokenManager) Token(ctx context.Context) (broker.Token, error) {
	if tok, ok := m.cached(); ok {
		return tok, nil
	}

	v, err, _ := m.sf.Do("issue", func() (interface{}, error) {
		// Double-check: an earlier flight may have refilled the cache
		if tok, ok := m.cached(); ok {
			return tok, nil
		}
		return m.issue(ctx)
	})
	if err != nil {
		return broker.Token{}, err
	}
	return v.(broker.Token), nil
}

func (m *TokenManager) cached() (broker.Token, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tok := broker.Token{Value: m.token, ExpiresAt: m.expiresAt}
	if !tok.Valid(m.now(), expiryMargin) {
		return broker.Token{}, false
	}
	return tok, true
}

// issue requests a new token from KIS and caches it. The cache is left
// empty on failure.
func (m *TokenManager) issue(ctx context.Context) (broker.Token, error) {
	reqBody := map[string]string{
		"grant_type": "client_credentials",
		"appkey":     m.appKey,
		"appsecret":  m.appSecret,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return broker.Token{}, &broker.AuthError{Err: err}
	}

	url := m.baseURL + "/oauth2/tokenP"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return broker.Token{}, &broker.AuthError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return broker.Token{}, &broker.AuthError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return broker.Token{}, &broker.AuthError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return broker.Token{}, &broker.AuthError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return broker.Token{}, &broker.AuthError{Err: err}
	}
	if tokenResp.AccessToken == "" {
		return broker.Token{}, &broker.AuthError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	ttl := defaultTokenTTL
	if tokenResp.ExpiresIn > 0 {
		ttl = time.Duration(tokenResp.ExpiresIn) * time.Second
	}

	tok := broker.Token{Value: tokenResp.AccessToken, ExpiresAt: m.now().Add(ttl)}

	m.mu.Lock()
	m.token = tok.Value
	m.expiresAt = tok.ExpiresAt
	m.mu.Unlock()

	return tok, nil
}

// Invalidate clears the cached token (credential change or forced refresh).
func (m *TokenManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.expiresAt = time.Time{}
}

// bearer formats the authorization header value.
func bearer(token string) string {
	return "Bearer " + token
}

// itoa is a tiny helper for KIS string-typed numeric fields.
func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
